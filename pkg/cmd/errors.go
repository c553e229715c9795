package cmd

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCommand is returned when the first token names no root command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUnknownInteraction is returned when no interaction is registered under an id.
	ErrUnknownInteraction = errors.New("unknown interaction")
	// ErrSealed is returned by registrations attempted after Seal.
	ErrSealed = errors.New("registry is sealed")
	// ErrUsage is returned by a handler whose arguments bound but make no sense
	// together. Invoke turns it into the command's *UsageError.
	ErrUsage = errors.New("bad usage")
)

// UsageError means a command was invoked with missing or malformed arguments.
// It is meant to be rendered to the user, not logged as a failure.
type UsageError struct {
	Command string
	Usage   string
	Example string
	// Missing names the first required argument that had no value. It is empty
	// when a router-only command was invoked without a subcommand.
	Missing string
}

func (e *UsageError) Error() string {
	if e.Missing == "" {
		return fmt.Sprintf("usage: %s", e.Usage)
	}
	return fmt.Sprintf("missing argument %q, usage: %s", e.Missing, e.Usage)
}

// ConfigurationError means a dependency the command needs is not available,
// e.g. an unset API credential.
type ConfigurationError struct {
	Dependency string
	Err        error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s is not configured: %v", e.Dependency, e.Err)
	}
	return fmt.Sprintf("%s is not configured", e.Dependency)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ConflictError reports two registrations claiming the same key.
type ConflictError struct {
	Kind string
	Key  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate %s registration %q", e.Kind, e.Key)
}
