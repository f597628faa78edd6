package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrUnsupportedCommand) {
//	    // handle unsupported command
//	}
var (
	// ErrUnknownKind is returned when a device kind is not recognised.
	ErrUnknownKind = errors.New("device: unknown kind")

	// ErrUnsupportedCommand is returned when a device does not know the
	// command at all. A command the device knows but cannot accept in its
	// current state is blocked, not an error.
	ErrUnsupportedCommand = errors.New("device: unsupported command")

	// ErrInvalidAttribute is returned by SetAttribute for reserved keys,
	// derived keys and values that fail range or set validation.
	ErrInvalidAttribute = errors.New("device: invalid attribute")

	// ErrValidation is returned when a command argument is missing,
	// has the wrong type, or is out of range.
	ErrValidation = errors.New("device: validation failed")

	// ErrInvalidID is returned when a device ID is empty.
	ErrInvalidID = errors.New("device: id must not be empty")
)
