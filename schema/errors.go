package schema

import "fmt"

// Code identifies the kind of schema-level failure, the same stable
// string-code shape as consensus.Code adapted to resolution and
// validation concerns.
type Code string

const (
	ErrInternalReference Code = "SCHEMA_ERR_INTERNAL_REFERENCE"
	ErrValidation        Code = "SCHEMA_ERR_VALIDATION"
	ErrUnknownKind       Code = "SCHEMA_ERR_UNKNOWN_KIND"
	ErrNoAbsenceSentinel Code = "SCHEMA_ERR_NO_ABSENCE_SENTINEL"
	ErrReservedKind      Code = "SCHEMA_ERR_RESERVED_KIND"
	ErrCodec             Code = "SCHEMA_ERR_CODEC"
)

// Error is the error type returned by this package. Section and Name
// identify the offending reference when the error is an internal
// reference failure.
type Error struct {
	Code    Code
	Section string
	Name    string
	Msg     string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Section != "" && e.Name != "":
		return fmt.Sprintf("%s: %s (section=%s name=%s)", e.Code, e.Msg, e.Section, e.Name)
	case e.Section != "":
		return fmt.Sprintf("%s: %s (section=%s)", e.Code, e.Msg, e.Section)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	}
}

func schemaErr(code Code, section, name, msg string) error {
	return &Error{Code: code, Section: section, Name: name, Msg: msg}
}

// CodeOf extracts the Code from err if it is a *Error.
func CodeOf(err error) (Code, bool) {
	se, ok := err.(*Error)
	if !ok || se == nil {
		return "", false
	}
	return se.Code, true
}
