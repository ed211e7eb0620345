package loader

import (
	"strings"
	"testing"

	"github.com/openseals/core/proof"
	"github.com/openseals/core/schema"
)

// A minimal schema loaded from YAML resolves and validates, and its
// single ProofType's TypeRef triples carry the expected wire shape
// ((0,1,1) fields, (0,1,255) seals).
func TestYAMLLoader_LoadSchema_MinimalScenario(t *testing.T) {
	doc := `
name: minimal
schema_ver: "1.0.0"
field_types:
  title: str
seal_types:
  holder: balance
proof_types:
  issue:
    fields:
      title: single
    seals:
      holder: many
`
	sch, err := YAMLLoader{}.LoadSchema([]byte(doc))
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	if err := sch.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(sch.ProofTypes) != 1 || sch.ProofTypes[0].Name != "issue" {
		t.Fatalf("proof types = %+v", sch.ProofTypes)
	}
	fieldsRef := sch.ProofTypes[0].Fields[0]
	if fieldsRef.TypeIndex != 0 || fieldsRef.Bounds != schema.BoundsSingle {
		t.Fatalf("fields ref = %+v, want index 0 bounds single", fieldsRef)
	}
	min, max := fieldsRef.Bounds.MinMax()
	if min != 1 || max != 1 {
		t.Fatalf("fields bounds (%d,%d), want (1,1)", min, max)
	}
	sealsRef := sch.ProofTypes[0].Seals[0]
	if sealsRef.TypeIndex != 0 {
		t.Fatalf("seals ref = %+v, want index 0", sealsRef)
	}
	min, max = sealsRef.Bounds.MinMax()
	if min != 1 || max != 255 {
		t.Fatalf("seals bounds (%d,%d), want (1,255)", min, max)
	}
}

func TestYAMLLoader_LoadSchema_UnknownKindRejected(t *testing.T) {
	doc := `
name: bad
schema_ver: "1.0.0"
field_types:
  title: nonsense
seal_types: {}
proof_types:
  issue:
    fields: {}
    seals: {}
`
	if _, err := (YAMLLoader{}).LoadSchema([]byte(doc)); err == nil {
		t.Fatal("expected an error for an unknown field kind tag")
	}
}

func TestYAMLLoader_LoadSchema_PreservesFieldOrder(t *testing.T) {
	doc := `
name: ordered
schema_ver: "1.0.0"
field_types:
  zeta: str
  alpha: u8
  mid: vi
seal_types:
  holder: none
proof_types:
  issue:
    fields:
      zeta: optional
      alpha: optional
      mid: optional
    seals: {}
`
	sch, err := YAMLLoader{}.LoadSchema([]byte(doc))
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	wantOrder := []string{"zeta", "alpha", "mid"}
	for i, name := range wantOrder {
		if sch.FieldTypes[i].Name != name {
			t.Fatalf("field_types[%d] = %q, want %q (declaration order must survive)", i, sch.FieldTypes[i].Name, name)
		}
		if sch.ProofTypes[0].Fields[i].Name != name {
			t.Fatalf("proof_types.issue.fields[%d] = %q, want %q", i, sch.ProofTypes[0].Fields[i].Name, name)
		}
	}
}

func minimalSchemaForProof(t *testing.T) schema.Schema {
	t.Helper()
	doc := `
name: minimal
schema_ver: "1.0.0"
field_types:
  title: str
seal_types:
  holder: balance
proof_types:
  issue:
    fields:
      title: single
    seals:
      holder: many
`
	sch, err := YAMLLoader{}.LoadSchema([]byte(doc))
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	if err := sch.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return sch
}

// The root-proof case again, loaded from a YAML proof document
// instead of constructed in Go directly.
func TestYAMLLoader_LoadProof_RootScenario(t *testing.T) {
	sch := minimalSchemaForProof(t)
	schemaID, err := sch.ID()
	if err != nil {
		t.Fatalf("schema ID: %v", err)
	}

	doc := `
ver: 1
format: root
schema: ` + schemaID.Hex() + `
network: 1
root: "` + strings.Repeat("aa", 32) + `:0"
type_name: issue
fields:
  title: "X"
seals:
  - type_name: holder
    outpoint: "` + strings.Repeat("bb", 32) + `:1"
    amount: 1000
`
	p, err := YAMLLoader{}.LoadProof([]byte(doc), &sch)
	if err != nil {
		t.Fatalf("LoadProof: %v", err)
	}
	if p.Format != proof.FormatRoot {
		t.Fatalf("format = %v, want root", p.Format)
	}
	if p.TypeNo != 0 {
		t.Fatalf("type_no = %d, want 0 (issue resolved against schema)", p.TypeNo)
	}
	if len(p.Seals) != 1 || p.Seals[0].State != 1000 {
		t.Fatalf("seals = %+v, want one holder seal with amount 1000", p.Seals)
	}
	if len(p.Fields) != 1 || p.Fields[0].Value.Str != "X" {
		t.Fatalf("fields = %+v, want one title=X field", p.Fields)
	}

	enc, err := proof.AppendProof(nil, p, &sch)
	if err != nil {
		t.Fatalf("AppendProof: %v", err)
	}
	if enc[0] != 0x81 {
		t.Fatalf("header byte = %#x, want 0x81", enc[0])
	}
}

func TestYAMLLoader_LoadProof_UnknownFormatRejected(t *testing.T) {
	doc := `
ver: 1
format: sideways
type_name: issue
`
	if _, err := (YAMLLoader{}).LoadProof([]byte(doc), nil); err == nil {
		t.Fatal("expected an error for an unknown proof format")
	}
}
