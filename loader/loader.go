// Package loader is the thin file-format front-end over the codec
// core: it turns a nested mapping (from a structured source such as
// YAML) into typed schema.Schema / proof.Proof values the core can
// canonically serialize or hash. The core packages (consensus,
// schema, proof) never import this package; it depends on them, never
// the other way around.
package loader

import (
	"fmt"

	"github.com/openseals/core/proof"
	"github.com/openseals/core/schema"
)

// Error reports a failure parsing a structured document, carrying the
// field path at which parsing was aborted.
type Error struct {
	Path string
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func loaderErr(path, format string, args ...any) error {
	return &Error{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// SchemaLoader parses a structured schema document into a
// schema.Schema. The returned schema is resolved
// (schema.Schema.Resolve already applied) but not yet validated;
// callers still run schema.Schema.Validate.
type SchemaLoader interface {
	LoadSchema(data []byte) (schema.Schema, error)
}

// ProofLoader parses a structured proof document into a proof.Proof.
// When sch is non-nil the returned proof is resolved against it
// (proof.Proof.Resolve already applied); when sch is nil, fields and
// seals are returned unresolved (TypeIndex -1) for later resolution.
type ProofLoader interface {
	LoadProof(data []byte, sch *schema.Schema) (proof.Proof, error)
}
