package proof

import (
	"bytes"
	"strings"
	"testing"

	"github.com/openseals/core/consensus"
	"github.com/openseals/core/schema"
)

func sampleSchemaForProof(t *testing.T) schema.Schema {
	t.Helper()
	s := schema.Schema{
		Name:    "minimal",
		Version: consensus.SemVer{Major: 1, Minor: 0, Patch: 0},
		FieldTypes: []schema.FieldType{
			{Name: "title", Kind: schema.KindStr},
		},
		SealTypes: []schema.SealType{
			{Name: "holder", Kind: schema.SealBalance},
		},
		ProofTypes: []schema.ProofType{
			{
				Name:   "issue",
				Fields: []schema.TypeRef{schema.NewTypeRef("title", schema.BoundsSingle)},
				Seals:  []schema.TypeRef{schema.NewTypeRef("holder", schema.BoundsMany)},
			},
		},
	}
	if err := s.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return s
}

func mustOutPoint(t *testing.T, hex string, vout uint64) consensus.OutPoint {
	t.Helper()
	txid, err := consensus.HashIdFromHex(hex)
	if err != nil {
		t.Fatalf("HashIdFromHex: %v", err)
	}
	return consensus.OutPoint{Txid: txid, Vout: vout}
}

// Root proof with one seal and one field.
func TestProof_RootProofScenario(t *testing.T) {
	sch := sampleSchemaForProof(t)
	schemaID, err := sch.ID()
	if err != nil {
		t.Fatalf("schema ID: %v", err)
	}

	p := Proof{
		Ver:     1,
		Format:  FormatRoot,
		Schema:  schemaID,
		Network: NetworkBitcoinMain,
		Root:    mustOutPoint(t, strings.Repeat("aa", 32), 0),
		TypeNo:  0,
		Seals: []Seal{
			NewSeal("holder", mustOutPoint(t, strings.Repeat("bb", 32), 1), map[string]any{"amount": 1000}),
		},
		Fields: []MetaField{NewMetaField("title", "X")},
	}
	if err := p.Resolve(&sch); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	enc, err := AppendProof(nil, p, &sch)
	if err != nil {
		t.Fatalf("AppendProof: %v", err)
	}
	if enc[0] != 0x81 {
		t.Fatalf("header byte = %#x, want 0x81 (FlagVarInt(1,true))", enc[0])
	}

	got, err := ReadProof(consensus.NewCursor(enc), &sch)
	if err != nil {
		t.Fatalf("ReadProof: %v", err)
	}
	if got.Format != FormatRoot {
		t.Fatalf("format = %v, want root", got.Format)
	}
	if got.Network != NetworkBitcoinMain {
		t.Fatalf("network = %v, want bitcoin mainnet", got.Network)
	}
	if len(got.Seals) != 1 || got.Seals[0].State != 1000 || got.Seals[0].TypeName != "holder" {
		t.Fatalf("seals = %+v, want one holder seal with amount 1000", got.Seals)
	}
	if len(got.Fields) != 1 || got.Fields[0].Value.Str != "X" {
		t.Fatalf("fields = %+v, want one title=X field", got.Fields)
	}

	reenc, err := AppendProof(nil, got, &sch)
	if err != nil {
		t.Fatalf("re-AppendProof: %v", err)
	}
	if !bytes.Equal(enc, reenc) {
		t.Fatalf("round-trip mismatch:\n got %x\nwant %x", reenc, enc)
	}
}

func noFieldsSchema(t *testing.T) schema.Schema {
	t.Helper()
	s := schema.Schema{
		Name:       "no-fields",
		Version:    consensus.SemVer{Major: 1, Minor: 0, Patch: 0},
		SealTypes:  []schema.SealType{{Name: "holder", Kind: schema.SealBalance}},
		ProofTypes: []schema.ProofType{{Name: "burn"}},
	}
	if err := s.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return s
}

// Burn proof, zero seals.
func TestProof_BurnProofScenario(t *testing.T) {
	sch := noFieldsSchema(t)
	p := Proof{Ver: 2, Format: FormatOrdinary, TypeNo: 0}
	enc, err := AppendProof(nil, p, &sch)
	if err != nil {
		t.Fatalf("AppendProof: %v", err)
	}
	want := []byte{0x02, 0x00, 0xff, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(enc, want) {
		t.Fatalf("burn encoding = %x, want %x", enc, want)
	}

	got, err := ReadProof(consensus.NewCursor(enc), &sch)
	if err != nil {
		t.Fatalf("ReadProof: %v", err)
	}
	if got.Format != FormatBurn {
		t.Fatalf("format = %v, want burn", got.Format)
	}
	if !got.IsBurn() {
		t.Fatal("IsBurn() should be true for a zero-seal proof")
	}
}

// EOL/EOF transitions in a seal sequence for seal types {0,0,2}.
func TestProof_SealSequenceEOLTransition(t *testing.T) {
	var dst []byte
	seals := []Seal{
		{SealTypeIndex: 0, OutPoint: consensus.OutPoint{Vout: 1, TxidOmitted: true}},
		{SealTypeIndex: 0, OutPoint: consensus.OutPoint{Vout: 2, TxidOmitted: true}},
		{SealTypeIndex: 2, OutPoint: consensus.OutPoint{Vout: 3, TxidOmitted: true}},
	}
	dst, err := appendSealSequence(dst, seals)
	if err != nil {
		t.Fatalf("appendSealSequence: %v", err)
	}

	got, err := readSealSequence(consensus.NewCursor(dst))
	if err != nil {
		t.Fatalf("readSealSequence: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d seals, want 3", len(got))
	}
	wantTypes := []int{0, 0, 2}
	for i, s := range got {
		if s.SealTypeIndex != wantTypes[i] {
			t.Fatalf("seal %d type_no = %d, want %d", i, s.SealTypeIndex, wantTypes[i])
		}
	}

	eolCount := 0
	for _, b := range dst {
		if b == 0x7f {
			eolCount++
		}
	}
	if eolCount != 2 {
		t.Fatalf("EOL byte count = %d, want 2", eolCount)
	}
}

// Pruned proof round-trip.
func TestProof_PrunedRoundtrip(t *testing.T) {
	sch := sampleSchemaForProof(t)
	p := Proof{
		Ver:    1,
		Format: FormatOrdinary,
		TypeNo: 0,
		Seals: []Seal{
			NewSeal("holder", consensus.OutPoint{Vout: 0, TxidOmitted: true}, map[string]any{"amount": 1}),
		},
		Fields: []MetaField{NewMetaField("title", "x")},
	}
	if err := p.Resolve(&sch); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	enc, err := AppendProof(nil, p, &sch)
	if err != nil {
		t.Fatalf("AppendProof: %v", err)
	}
	if enc[len(enc)-1] != 0x00 {
		t.Fatalf("prunable tail byte = %#x, want 0x00", enc[len(enc)-1])
	}
	got, err := ReadProof(consensus.NewCursor(enc), &sch)
	if err != nil {
		t.Fatalf("ReadProof: %v", err)
	}
	if !got.IsPruned() {
		t.Fatal("expected pruned proof to round-trip as pruned")
	}
}

// Optional pubkey absence round-trip.
func TestProof_AbsentPubKeyRoundtrip(t *testing.T) {
	sch := sampleSchemaForProof(t)
	p := Proof{
		Ver:    1,
		Format: FormatOrdinary,
		TypeNo: 0,
		PubKey: consensus.AbsentPubKey(),
		Seals: []Seal{
			NewSeal("holder", consensus.OutPoint{Vout: 0, TxidOmitted: true}, map[string]any{"amount": 1}),
		},
		Fields: []MetaField{NewMetaField("title", "x")},
	}
	if err := p.Resolve(&sch); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	enc, err := AppendProof(nil, p, &sch)
	if err != nil {
		t.Fatalf("AppendProof: %v", err)
	}
	got, err := ReadProof(consensus.NewCursor(enc), &sch)
	if err != nil {
		t.Fatalf("ReadProof: %v", err)
	}
	if !got.PubKey.IsAbsent() {
		t.Fatal("expected absent pubkey to round-trip as absent, not a 33-byte key")
	}
}

func TestProof_ValidateRejectsParentsWithoutTxid(t *testing.T) {
	p := Proof{Format: FormatBurn, Parents: []consensus.HashId{consensus.ZeroHashId(32)}}
	if err := p.Validate(); err == nil {
		t.Fatal("expected validation error for parents without txid")
	}
}

func TestProof_ValidateRejectsNonBurnWithZeroSeals(t *testing.T) {
	p := Proof{Format: FormatOrdinary}
	if err := p.Validate(); err == nil {
		t.Fatal("expected validation error for a zero-seal proof not tagged burn")
	}
}

func TestProof_RawBlobsRetainedWithoutSchema(t *testing.T) {
	sch := sampleSchemaForProof(t)
	p := Proof{
		Ver:    1,
		Format: FormatOrdinary,
		TypeNo: 0,
		Seals: []Seal{
			NewSeal("holder", consensus.OutPoint{Vout: 0, TxidOmitted: true}, map[string]any{"amount": 1}),
		},
		Fields: []MetaField{NewMetaField("title", "x")},
	}
	if err := p.Resolve(&sch); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	enc, err := AppendProof(nil, p, &sch)
	if err != nil {
		t.Fatalf("AppendProof: %v", err)
	}

	got, err := ReadProof(consensus.NewCursor(enc), nil)
	if err != nil {
		t.Fatalf("ReadProof without schema: %v", err)
	}
	if got.Fields != nil {
		t.Fatalf("expected no typed fields without a schema, got %+v", got.Fields)
	}
	if len(got.RawState) == 0 || len(got.RawMetadata) == 0 {
		t.Fatal("expected raw state/metadata blobs to be retained")
	}

	reenc, err := AppendProof(nil, got, nil)
	if err != nil {
		t.Fatalf("re-AppendProof without schema: %v", err)
	}
	if !bytes.Equal(enc, reenc) {
		t.Fatalf("raw round-trip mismatch:\n got %x\nwant %x", reenc, enc)
	}
}
