package consensus

import "testing"

func TestSemVer_Roundtrip(t *testing.T) {
	cases := []SemVer{
		{Major: 0, Minor: 0, Patch: 0},
		{Major: 1, Minor: 2, Patch: 3},
		{Major: 300, Minor: 255, Patch: 1},
	}
	for _, v := range cases {
		buf := AppendSemVer(nil, v)
		cur := NewCursor(buf)
		got, err := cur.ReadSemVer()
		if err != nil {
			t.Fatalf("v=%v: read error: %v", v, err)
		}
		if got != v {
			t.Fatalf("v=%v: got=%v", v, got)
		}
	}
}

func TestSemVer_String(t *testing.T) {
	v := SemVer{Major: 1, Minor: 2, Patch: 3}
	if got := v.String(); got != "1.2.3" {
		t.Fatalf("String() = %q", got)
	}
}
