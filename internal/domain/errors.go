package domain

import "errors"

// Domain errors returned by the public API and the command parser.
// Check with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running stream.
	ErrAlreadyRunning = errors.New("stagestream: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped stream.
	ErrNotRunning = errors.New("stagestream: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("stagestream: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("stagestream: invalid configuration")

	// ErrNoDevice is returned by Start() when no device adapter was supplied
	// and simulation mode is off.
	ErrNoDevice = errors.New("stagestream: no device configured")

	// ErrMalformedCommand marks a command payload the grammar cannot parse.
	// Such commands are logged and dropped; no result is published.
	ErrMalformedCommand = errors.New("malformed command")

	// ErrUnknownVerb marks a command with an unrecognized verb.
	ErrUnknownVerb = errors.New("unknown command verb")
)
