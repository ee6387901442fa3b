package entity

import "encoding/json"

// FieldState tells apart a column that was never found in the payload from one
// the payload explicitly set to null.
type FieldState uint8

const (
	FieldAbsent FieldState = iota
	FieldNull
	FieldText
)

// Field is a single record column. The zero value is an absent field.
type Field struct {
	State FieldState
	Value string
}

// Text returns a present field holding s.
func Text(s string) Field {
	return Field{State: FieldText, Value: s}
}

// Null returns a field the payload set to null.
func Null() Field {
	return Field{State: FieldNull}
}

func (f Field) IsAbsent() bool { return f.State == FieldAbsent }
func (f Field) IsNull() bool   { return f.State == FieldNull }

// String returns the text value, or "" for absent and null fields.
func (f Field) String() string {
	if f.State != FieldText {
		return ""
	}
	return f.Value
}

// Truthy mirrors a JavaScript truthiness check on the raw value.
func (f Field) Truthy() bool {
	return f.State == FieldText && f.Value != ""
}

// OrEmpty turns absent and null fields into an empty text field.
func (f Field) OrEmpty() Field {
	if f.Truthy() {
		return f
	}
	return Text("")
}

// MarshalJSON writes null for null and absent fields; callers that must keep
// absent fields out of a document skip them before encoding.
func (f Field) MarshalJSON() ([]byte, error) {
	if f.State != FieldText {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON reads a JSON string or null. A key that is missing from the
// enclosing object leaves the field absent.
func (f *Field) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Null()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = Text(s)
	return nil
}
