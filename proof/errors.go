package proof

import "fmt"

// Code identifies the kind of proof-level failure, the same stable
// string-code shape as consensus.Code adapted to proof structural
// invariants.
type Code string

const (
	ErrMissingRequired  Code = "PROOF_ERR_MISSING_REQUIRED"
	ErrExtraField       Code = "PROOF_ERR_EXTRA_FIELD"
	ErrUnparsedTrailing Code = "PROOF_ERR_UNPARSED_TRAILING"
	ErrSchemaUnresolved Code = "PROOF_ERR_SCHEMA_UNRESOLVED"
	ErrCodec            Code = "PROOF_ERR_CODEC"
)

// Error is the error type returned by this package.
type Error struct {
	Code    Code
	Field   string
	Context string
	Msg     string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s context=%s)", e.Code, e.Msg, e.Field, e.Context)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func proofErr(code Code, field, context, msg string) error {
	return &Error{Code: code, Field: field, Context: context, Msg: msg}
}

// CodeOf extracts the Code from err if it is a *Error.
func CodeOf(err error) (Code, bool) {
	pe, ok := err.(*Error)
	if !ok || pe == nil {
		return "", false
	}
	return pe.Code, true
}
