package consensus

import "fmt"

// SemVer is the three-part version number attached to schemas. On the
// wire, major is a VarInt (schema revisions can run arbitrarily high
// over a schema's lifetime), minor and patch are single bytes.
type SemVer struct {
	Major uint64
	Minor uint8
	Patch uint8
}

// String renders the version as "major.minor.patch".
func (v SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AppendSemVer appends v's wire encoding to dst.
func AppendSemVer(dst []byte, v SemVer) []byte {
	dst = AppendVarInt(dst, v.Major)
	return append(dst, v.Minor, v.Patch)
}

// ReadSemVer reads a SemVer from the cursor.
func (c *Cursor) ReadSemVer() (SemVer, error) {
	major, err := c.ReadVarInt()
	if err != nil {
		return SemVer{}, err
	}
	minor, err := c.ReadU8()
	if err != nil {
		return SemVer{}, err
	}
	patch, err := c.ReadU8()
	if err != nil {
		return SemVer{}, err
	}
	return SemVer{Major: major, Minor: minor, Patch: patch}, nil
}
