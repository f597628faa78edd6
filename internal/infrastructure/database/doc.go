// Package database provides SQLite database connectivity for CasaHub.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Connection lifecycle and health checks
//
// The hub's event history sink owns its schema and creates it on open;
// this package only hands out configured connections.
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: "data/casahub.db", WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
package database
