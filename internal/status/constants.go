// internal/status/constants.go
package status

// Process exit codes.
// These values are part of the command line contract and MUST NOT change.

// ---- EXIT CODES ----

// ExitOK is a completed run, including a stream stopped by a signal.
const ExitOK = 0

// ExitGeneric is any failure that is neither config nor hardware.
const ExitGeneric = 1

// ExitConfig is invalid flags or config file. No hardware was touched.
const ExitConfig = 2

// ExitHardware is a failed open, configure or read on a board.
const ExitHardware = 3
