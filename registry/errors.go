package registry

import "errors"

// Kind is a stable category for programmatic error handling.
//
// These categories are intended to remain stable across versions.
// Callers should branch on Kind/RuleID rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindValidation covers malformed caller input, raised before any
	// network call.
	KindValidation Kind = "Validation"
	// KindSignature covers entries whose signature does not verify.
	// Security-critical: never downgraded, never retried.
	KindSignature Kind = "Signature"
	// KindProof covers registry proof chains that fail validation.
	KindProof Kind = "Proof"
	// KindRevision covers exhausted revision counters. Terminal for the
	// data key.
	KindRevision Kind = "Revision"
	// KindPortal covers requests the portal rejected or answered
	// unexpectedly (e.g. a stale-revision write conflict).
	KindPortal Kind = "Portal"
	// KindDecode covers downloaded or fetched content that does not match
	// the expected shape.
	KindDecode Kind = "Decode"
	// KindInternal covers invariant violations inside the library.
	KindInternal Kind = "Internal"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g. SKY-VAL-001, SKY-SIG-401) that names
// the violated invariant or validation rule.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError returns a structured error with the given kind and rule.
func NewError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// WrapError is NewError with an underlying cause attached.
func WrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
