// Package domain contains the core entities of the stage streaming agent:
// position samples, telemetry batches, commands, command results, and the
// text wire formats that carry them over the pub/sub transport.
//
// The package has no dependencies on the transport or the device driver.
// Everything here is plain data plus encoding and parsing, so the application
// layer (internal/agent) and the adapters can share it freely.
package domain
