package proof

import "github.com/openseals/core/schema"

// MetaField carries one proof metadata value alongside the string it
// was parsed from and a back-reference to the schema FieldType that
// defines its wire shape.
type MetaField struct {
	TypeName       string
	ValueStr       string
	Value          schema.Value
	FieldTypeIndex int // -1 until resolved
}

// NewMetaField builds an unresolved MetaField from structured-source
// fields (type name and its string-form value).
func NewMetaField(typeName, valueStr string) MetaField {
	return MetaField{TypeName: typeName, ValueStr: valueStr, FieldTypeIndex: -1}
}

// Resolved reports whether Resolve has bound this field to a schema
// FieldType.
func (f MetaField) Resolved() bool { return f.FieldTypeIndex >= 0 }

// Resolve binds f.TypeName to its index in fieldTypes and computes
// f.Value from f.ValueStr via that FieldType's ValueFromString.
func (f *MetaField) Resolve(fieldTypes []schema.FieldType) error {
	for i, ft := range fieldTypes {
		if ft.Name == f.TypeName {
			f.FieldTypeIndex = i
			v, err := ft.ValueFromString(f.ValueStr)
			if err != nil {
				return err
			}
			f.Value = v
			return nil
		}
	}
	return proofErr(ErrSchemaUnresolved, f.TypeName, "fields", "no field type with this name in schema")
}
