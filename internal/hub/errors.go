package hub

import "errors"

// Domain errors for the hub package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, hub.ErrDeviceNotFound) {
//	    // handle missing device
//	}
var (
	// ErrDeviceAlreadyExists is returned when adding a device whose ID
	// is already registered.
	ErrDeviceAlreadyExists = errors.New("hub: device already exists")

	// ErrDeviceNotFound is returned when a device ID is not registered.
	ErrDeviceNotFound = errors.New("hub: device not found")

	// ErrRoutineNotFound is returned when executing an unknown routine.
	ErrRoutineNotFound = errors.New("hub: routine not found")

	// ErrInvalidRoutine is returned when defining a routine with no name
	// or no steps.
	ErrInvalidRoutine = errors.New("hub: invalid routine")
)
