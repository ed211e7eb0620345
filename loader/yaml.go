package loader

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openseals/core/bech32id"
	"github.com/openseals/core/consensus"
	"github.com/openseals/core/proof"
	"github.com/openseals/core/schema"
)

// YAMLLoader implements SchemaLoader and ProofLoader over the
// structured-input grammar, backed by gopkg.in/yaml.v3. Schema
// documents are walked key by key through yaml.Node, preserving
// declaration order; proof documents are decoded into a struct whose
// fields and seal states are Go maps, so their key order is not kept.
// Either path produces a typed result or a *Error naming the
// offending path.
type YAMLLoader struct{}

// --- schema document ---

// LoadSchema parses a YAML schema document into a resolved
// schema.Schema. field_types/seal_types/proof_types are YAML
// mappings; ordering-sensitive tables are decoded through yaml.Node
// to preserve declaration order, since the wire form's numeric type
// indices are positional.
func (YAMLLoader) LoadSchema(data []byte) (schema.Schema, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return schema.Schema{}, loaderErr("", "invalid yaml: %v", err)
	}
	if len(root.Content) == 0 {
		return schema.Schema{}, loaderErr("", "empty schema document")
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return schema.Schema{}, loaderErr("", "schema document must be a mapping")
	}

	var s schema.Schema
	var sawFieldTypes, sawProofTypes bool

	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		val := doc.Content[i+1]
		switch key {
		case "name":
			s.Name = val.Value
		case "schema_ver":
			ver, err := parseSemVer(val.Value)
			if err != nil {
				return schema.Schema{}, loaderErr("schema_ver", "%v", err)
			}
			s.Version = ver
		case "prev_schema":
			if val.Value != "" {
				h, err := hashIDFromString(val.Value)
				if err != nil {
					return schema.Schema{}, loaderErr("prev_schema", "%v", err)
				}
				s.PrevSchema = h
			}
		case "field_types":
			fts, err := parseFieldTypes(val)
			if err != nil {
				return schema.Schema{}, err
			}
			s.FieldTypes = fts
			sawFieldTypes = true
		case "seal_types":
			sts, err := parseSealTypes(val)
			if err != nil {
				return schema.Schema{}, err
			}
			s.SealTypes = sts
		case "proof_types":
			pts, err := parseProofTypes(val)
			if err != nil {
				return schema.Schema{}, err
			}
			s.ProofTypes = pts
			sawProofTypes = true
		default:
			return schema.Schema{}, loaderErr(key, "unknown schema document field")
		}
	}
	if s.Name == "" {
		return schema.Schema{}, loaderErr("name", "missing required field")
	}
	if !sawFieldTypes {
		return schema.Schema{}, loaderErr("field_types", "missing required field")
	}
	if !sawProofTypes {
		return schema.Schema{}, loaderErr("proof_types", "missing required field")
	}

	if err := s.Resolve(); err != nil {
		return schema.Schema{}, err
	}
	return s, nil
}

func parseFieldTypes(n *yaml.Node) ([]schema.FieldType, error) {
	if n.Kind != yaml.MappingNode {
		return nil, loaderErr("field_types", "must be a mapping")
	}
	out := make([]schema.FieldType, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		tag := n.Content[i+1].Value
		kind, ok := kindFromTag(tag)
		if !ok {
			return nil, loaderErr("field_types."+name, "unknown field kind %q", tag)
		}
		out = append(out, schema.FieldType{Name: name, Kind: kind})
	}
	return out, nil
}

func parseSealTypes(n *yaml.Node) ([]schema.SealType, error) {
	if n.Kind != yaml.MappingNode {
		return nil, loaderErr("seal_types", "must be a mapping")
	}
	out := make([]schema.SealType, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		tag := n.Content[i+1].Value
		kind, ok := sealKindFromTag(tag)
		if !ok {
			return nil, loaderErr("seal_types."+name, "unknown seal kind %q", tag)
		}
		out = append(out, schema.SealType{Name: name, Kind: kind})
	}
	return out, nil
}

// parseProofTypes walks each proof type body itself through yaml.Node
// rather than decoding into a plain Go map: the fields/seals/unseals
// lists become TypeRef slices whose declaration order IS the wire
// order, and Go map iteration order is randomized, so a map-keyed
// decode here would make the same document encode to different bytes
// on different runs.
func parseProofTypes(n *yaml.Node) ([]schema.ProofType, error) {
	if n.Kind != yaml.MappingNode {
		return nil, loaderErr("proof_types", "must be a mapping")
	}
	out := make([]schema.ProofType, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		body := n.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, loaderErr("proof_types."+name, "must be a mapping")
		}
		pt := schema.ProofType{Name: name}
		for j := 0; j+1 < len(body.Content); j += 2 {
			section := body.Content[j].Value
			list := body.Content[j+1]
			refs, err := parseTypeRefs("proof_types."+name+"."+section, list)
			if err != nil {
				return nil, err
			}
			switch section {
			case "fields":
				pt.Fields = refs
			case "seals":
				pt.Seals = refs
			case "unseals":
				pt.Unseals = refs
			default:
				return nil, loaderErr("proof_types."+name+"."+section, "unknown proof type section")
			}
		}
		out = append(out, pt)
	}
	return out, nil
}

func parseTypeRefs(path string, n *yaml.Node) ([]schema.TypeRef, error) {
	if n.Kind != yaml.MappingNode {
		return nil, loaderErr(path, "must be a mapping")
	}
	out := make([]schema.TypeRef, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		boundsStr := n.Content[i+1].Value
		bounds, ok := schema.BoundsFromString(boundsStr)
		if !ok {
			return nil, loaderErr(path+"."+name, "unknown bounds keyword %q", boundsStr)
		}
		out = append(out, schema.NewTypeRef(name, bounds))
	}
	return out, nil
}

// --- proof document ---

type proofDoc struct {
	Ver      uint32            `yaml:"ver"`
	Format   string            `yaml:"format"`
	Schema   string            `yaml:"schema"`
	Network  uint16            `yaml:"network"`
	Root     string            `yaml:"root"`
	TypeName string            `yaml:"type_name"`
	PubKey   string            `yaml:"pubkey"`
	Parents  []string          `yaml:"parents"`
	Txid     string            `yaml:"txid"`
	Fields   map[string]string `yaml:"fields"`
	Seals    []sealDoc         `yaml:"seals"`
}

type sealDoc struct {
	TypeName string         `yaml:"type_name"`
	OutPoint string         `yaml:"outpoint"`
	State    map[string]any `yaml:",inline"`
}

var formatTags = map[string]proof.Format{
	"root":     proof.FormatRoot,
	"upgrade":  proof.FormatUpgrade,
	"ordinary": proof.FormatOrdinary,
	"burn":     proof.FormatBurn,
}

// LoadProof parses a YAML proof document into a proof.Proof.
// type_name is resolved to a TypeNo against sch's proof_types table
// when sch is non-nil (the structured grammar names proof types by
// string, the wire form by positional index). When sch is nil,
// type_name is not kept anywhere in the result and TypeNo stays 0.
func (YAMLLoader) LoadProof(data []byte, sch *schema.Schema) (proof.Proof, error) {
	var doc proofDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return proof.Proof{}, loaderErr("", "invalid yaml: %v", err)
	}

	format, ok := formatTags[doc.Format]
	if !ok {
		return proof.Proof{}, loaderErr("format", "unknown proof format %q", doc.Format)
	}

	p := proof.Proof{Ver: doc.Ver, Format: format, Network: doc.Network}

	if doc.Schema != "" {
		h, err := hashIDFromString(doc.Schema)
		if err != nil {
			return proof.Proof{}, loaderErr("schema", "%v", err)
		}
		p.Schema = h
	}
	if doc.Root != "" {
		op, err := outPointFromString(doc.Root)
		if err != nil {
			return proof.Proof{}, loaderErr("root", "%v", err)
		}
		p.Root = op
	}
	if doc.PubKey != "" {
		b, err := hexBytes(doc.PubKey)
		if err != nil {
			return proof.Proof{}, loaderErr("pubkey", "%v", err)
		}
		pk, err := consensus.NewPubKey(b)
		if err != nil {
			return proof.Proof{}, loaderErr("pubkey", "%v", err)
		}
		p.PubKey = pk
	}
	if doc.Txid != "" {
		h, err := hashIDFromString(doc.Txid)
		if err != nil {
			return proof.Proof{}, loaderErr("txid", "%v", err)
		}
		p.Txid = &h
	}
	if doc.Parents != nil {
		parents := make([]consensus.HashId, 0, len(doc.Parents))
		for i, s := range doc.Parents {
			h, err := hashIDFromString(s)
			if err != nil {
				return proof.Proof{}, loaderErr(fmt.Sprintf("parents[%d]", i), "%v", err)
			}
			parents = append(parents, h)
		}
		p.Parents = parents
	}

	if sch != nil {
		typeNo := -1
		for i, pt := range sch.ProofTypes {
			if pt.Name == doc.TypeName {
				typeNo = i
				break
			}
		}
		if typeNo < 0 {
			return proof.Proof{}, loaderErr("type_name", "no proof type named %q in schema", doc.TypeName)
		}
		p.TypeNo = uint8(typeNo)
	}

	for name, valStr := range doc.Fields {
		p.Fields = append(p.Fields, proof.NewMetaField(name, valStr))
	}

	for i, sd := range doc.Seals {
		op, err := outPointFromString(sd.OutPoint)
		if err != nil {
			return proof.Proof{}, loaderErr(fmt.Sprintf("seals[%d].outpoint", i), "%v", err)
		}
		dict := sd.State
		delete(dict, "type_name")
		delete(dict, "outpoint")
		p.Seals = append(p.Seals, proof.NewSeal(sd.TypeName, op, dict))
	}

	if sch != nil {
		if err := p.Resolve(sch); err != nil {
			return proof.Proof{}, err
		}
	}
	return p, nil
}

// --- shared scalar parsing ---

func parseSemVer(s string) (consensus.SemVer, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return consensus.SemVer{}, fmt.Errorf("version %q must be major.minor.patch", s)
	}
	major, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return consensus.SemVer{}, fmt.Errorf("bad major version: %v", err)
	}
	minor, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return consensus.SemVer{}, fmt.Errorf("bad minor version: %v", err)
	}
	patch, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return consensus.SemVer{}, fmt.Errorf("bad patch version: %v", err)
	}
	return consensus.SemVer{Major: major, Minor: uint8(minor), Patch: uint8(patch)}, nil
}

// hashIDFromString accepts either hex or a bech32-encoded
// content-addressed id, trying hex first since it never collides with
// a valid bech32 string's charset-and-separator shape.
func hashIDFromString(s string) (consensus.HashId, error) {
	if h, err := consensus.HashIdFromHex(s); err == nil {
		return h, nil
	}
	_, _, payload, err := bech32id.BTCUtilEncoder{}.Decode(s)
	if err != nil {
		return consensus.HashId{}, fmt.Errorf("not valid hex or bech32: %q", s)
	}
	return consensus.NewHashId(payload)
}

func hexBytes(s string) ([]byte, error) {
	v, err := schema.FieldType{Kind: schema.KindBytes}.ValueFromString(s)
	if err != nil {
		return nil, err
	}
	return v.Bytes, nil
}

// outPointFromString parses the "hex:vout" form used for both a
// proof's root outpoint and a seal's outpoint.
func outPointFromString(s string) (consensus.OutPoint, error) {
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return consensus.OutPoint{}, fmt.Errorf("outpoint %q must be hex:vout", s)
	}
	txid, err := consensus.HashIdFromHex(s[:idx])
	if err != nil {
		return consensus.OutPoint{}, fmt.Errorf("outpoint txid: %v", err)
	}
	vout, err := strconv.ParseUint(s[idx+1:], 10, 64)
	if err != nil {
		return consensus.OutPoint{}, fmt.Errorf("outpoint vout: %v", err)
	}
	return consensus.OutPoint{Txid: txid, Vout: vout}, nil
}
