// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"errors"
	"fmt"
)

// Kind classifies a provider interaction failure. Each failure mode maps to
// exactly one kind so callers and tests can assert the precise variant
// rather than matching message text.
type Kind string

const (
	// KindConnection: the provider could not be reached.
	KindConnection Kind = "connection"
	// KindProvider: the provider returned a structured error envelope.
	KindProvider Kind = "provider"
	// KindMalformed: the payload was not valid JSON or not the expected shape.
	KindMalformed Kind = "malformed"
	// KindIncomplete: the payload parsed but required fields are missing.
	KindIncomplete Kind = "incomplete"
	// KindInvalidPercentages: percentages are present but do not sum to 100.
	KindInvalidPercentages Kind = "invalid_percentages"
)

// Error is a classified provider failure. Each is terminal for the call
// that produced it — there is no local retry.
type Error struct {
	Provider string // human-readable provider name, e.g. "OpenAI"
	Kind     Kind
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s API %s error", e.Provider, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a provider Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}
