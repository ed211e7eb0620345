package loader

import "github.com/openseals/core/schema"

// kindTags is the structured-input grammar's kind-tag vocabulary, the
// loader's own mapping since the core's FieldType never needs to
// print or parse its own kind name.
var kindTags = map[string]schema.Kind{
	"u8":        schema.KindU8,
	"u16":       schema.KindU16,
	"u32":       schema.KindU32,
	"u64":       schema.KindU64,
	"i8":        schema.KindI8,
	"i16":       schema.KindI16,
	"i32":       schema.KindI32,
	"i64":       schema.KindI64,
	"vi":        schema.KindVarInt,
	"fvi":       schema.KindFlagVarInt,
	"str":       schema.KindStr,
	"bytes":     schema.KindBytes,
	"sha256":    schema.KindSha256,
	"sha256d":   schema.KindSha256d,
	"ripmd160":  schema.KindRipmd160,
	"hash160":   schema.KindHash160,
	"outpoint":  schema.KindOutPoint,
	"soutpoint": schema.KindSOutPoint,
	"pubkey":    schema.KindPubKey,
	"ecdsa":     schema.KindECDSA,
}

func kindFromTag(tag string) (schema.Kind, bool) {
	k, ok := kindTags[tag]
	return k, ok
}

var kindTagNames = reverseKindTags()

func reverseKindTags() map[schema.Kind]string {
	out := make(map[schema.Kind]string, len(kindTags))
	for tag, k := range kindTags {
		out[k] = tag
	}
	return out
}

func tagFromKind(k schema.Kind) (string, bool) {
	tag, ok := kindTagNames[k]
	return tag, ok
}

var sealKindTags = map[string]schema.SealKind{
	"none":    schema.SealNone,
	"balance": schema.SealBalance,
}

func sealKindFromTag(tag string) (schema.SealKind, bool) {
	k, ok := sealKindTags[tag]
	return k, ok
}

func tagFromSealKind(k schema.SealKind) string {
	if k == schema.SealBalance {
		return "balance"
	}
	return "none"
}

var boundsTagNames = map[schema.Bounds]string{
	schema.BoundsOptional: "optional",
	schema.BoundsSingle:   "single",
	schema.BoundsDouble:   "double",
	schema.BoundsAny:      "any",
	schema.BoundsMany:     "many",
}

func tagFromBounds(b schema.Bounds) string { return boundsTagNames[b] }
