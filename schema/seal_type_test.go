package schema

import (
	"bytes"
	"testing"

	"github.com/openseals/core/consensus"
)

func TestSealType_SerializeRoundtrip(t *testing.T) {
	for _, st := range []SealType{
		{Name: "holder", Kind: SealBalance},
		{Name: "marker", Kind: SealNone},
	} {
		enc := AppendSealType(nil, st)
		got, err := ReadSealType(consensus.NewCursor(enc))
		if err != nil {
			t.Fatalf("%s: ReadSealType: %v", st.Name, err)
		}
		if got != st {
			t.Fatalf("got %+v, want %+v", got, st)
		}
	}
}

func TestSealType_UnknownTagRejected(t *testing.T) {
	enc := append([]byte{0x01, 'x'}, 0x09)
	if _, err := ReadSealType(consensus.NewCursor(enc)); err == nil {
		t.Fatal("expected error for unknown seal kind tag")
	}
}

func TestSealType_BalanceStateRoundtrip(t *testing.T) {
	st := SealType{Name: "holder", Kind: SealBalance}
	enc := st.AppendState(nil, 1000)
	if !bytes.Equal(enc, []byte{0xfd, 0xe8, 0x03}) {
		t.Fatalf("balance state encoding = %x, want varint(1000)", enc)
	}
	got, err := st.ReadState(consensus.NewCursor(enc))
	if err != nil || got != 1000 {
		t.Fatalf("ReadState = %d, %v; want 1000", got, err)
	}
}

func TestSealType_NoneStateWritesNothing(t *testing.T) {
	st := SealType{Name: "marker", Kind: SealNone}
	if enc := st.AppendState(nil, 99); len(enc) != 0 {
		t.Fatalf("none state must write zero bytes, got %x", enc)
	}
	cur := consensus.NewCursor(nil)
	got, err := st.ReadState(cur)
	if err != nil || got != 0 {
		t.Fatalf("ReadState = %d, %v; want 0 with no bytes consumed", got, err)
	}
}

func TestSealType_StateFromDict(t *testing.T) {
	balance := SealType{Name: "holder", Kind: SealBalance}
	amount, err := balance.StateFromDict(map[string]any{"amount": 42})
	if err != nil || amount != 42 {
		t.Fatalf("StateFromDict = %d, %v; want 42", amount, err)
	}
	if _, err := balance.StateFromDict(map[string]any{}); err == nil {
		t.Fatal("expected error for a balance seal missing amount")
	}
	if _, err := balance.StateFromDict(map[string]any{"amount": "lots"}); err == nil {
		t.Fatal("expected error for a non-numeric amount")
	}

	none := SealType{Name: "marker", Kind: SealNone}
	amount, err = none.StateFromDict(map[string]any{})
	if err != nil || amount != 0 {
		t.Fatalf("none StateFromDict = %d, %v; want 0", amount, err)
	}
}

func TestSealType_DictFromStateInverse(t *testing.T) {
	balance := SealType{Name: "holder", Kind: SealBalance}
	dict := balance.DictFromState(7)
	back, err := balance.StateFromDict(dict)
	if err != nil || back != 7 {
		t.Fatalf("dict-state inverse = %d, %v; want 7", back, err)
	}
	if d := (SealType{Name: "marker", Kind: SealNone}).DictFromState(0); len(d) != 0 {
		t.Fatalf("none DictFromState = %v, want empty", d)
	}
}
