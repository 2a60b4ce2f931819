package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidConfig is returned when the bridge configuration fails validation
	ErrInvalidConfig = errors.New("invalid config")

	// ErrDeploymentReverted is returned when a contract creation transaction was mined but failed
	ErrDeploymentReverted = errors.New("deployment transaction reverted")

	// ErrDeploymentDeclined is returned when the operator refuses a fresh deployment
	ErrDeploymentDeclined = errors.New("deployment declined")
)

// ConfigError reports a configuration file that could not be loaded or validated.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// RecordUnreadableError reports a deployment record that exists but cannot be used.
// Deployment is never attempted when this error is returned, since the file on disk
// may still describe live contracts.
type RecordUnreadableError struct {
	Path string
	Err  error
}

func (e *RecordUnreadableError) Error() string {
	return fmt.Sprintf("deployment record %s is unreadable (refusing to redeploy, resolve manually): %v", e.Path, e.Err)
}

func (e *RecordUnreadableError) Unwrap() error {
	return e.Err
}

// NetworkError attributes a failure to one side of the bridge.
type NetworkError struct {
	Network Network
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s network: %v", e.Network, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// InvariantViolationError signals a state that a correct node can never produce.
// It is a bug, not a transient failure, and must not be retried.
type InvariantViolationError struct {
	Network Network
	Message string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violated on %s network: %s", e.Network, e.Message)
}

// FailingNetwork returns the network a deployment error is attributed to, if any.
func FailingNetwork(err error) (Network, bool) {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Network, true
	}
	var invErr *InvariantViolationError
	if errors.As(err, &invErr) {
		return invErr.Network, true
	}
	return "", false
}
