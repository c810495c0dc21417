package urbansim

import (
	"github.com/pkg/errors"
)

/* Error kinds */

var (
	// ErrNetworkUnavailable is returned when road network can't be fetched or decoded
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrNoRoute marks routing task which origin and destination are not connected (or connected via blocked corridor only)
	ErrNoRoute = errors.New("no route")
	// ErrEmptyPopulation signals scenario which produced no routable agents at all
	ErrEmptyPopulation = errors.New("empty population")
	// ErrResourceExhaustion is returned when requested population exceeds configured capacity bound
	ErrResourceExhaustion = errors.New("resource exhaustion")
)

// kindError attaches error kind to underlying error keeping both messages
type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.err.Error()
}

func (e *kindError) Cause() error {
	return e.kind
}

func (e *kindError) Unwrap() error {
	return e.kind
}

// markKind makes underlying error recognizable as given kind
func markKind(kind, err error) error {
	if err == nil {
		return kind
	}
	return &kindError{kind: kind, err: err}
}

// IsNetworkUnavailable reports whether error is caused by unreachable or malformed network source
func IsNetworkUnavailable(err error) bool {
	return errors.Cause(err) == ErrNetworkUnavailable
}

// IsNoRoute reports whether error marks disconnected routing task
func IsNoRoute(err error) bool {
	return errors.Cause(err) == ErrNoRoute
}

// IsEmptyPopulation reports whether error signals scenario with no routable agents
func IsEmptyPopulation(err error) bool {
	return errors.Cause(err) == ErrEmptyPopulation
}

// IsResourceExhaustion reports whether error is caused by exceeded capacity bound
func IsResourceExhaustion(err error) bool {
	return errors.Cause(err) == ErrResourceExhaustion
}
