// Package log provides the logging abstraction used across stagestream.
//
// The Logger interface decouples the agent from any particular logging
// library. The default implementation wraps zerolog with console output;
// NewNop returns a discard-everything logger for tests and embedders that
// bring their own logging.
package log
