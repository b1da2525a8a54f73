// Package nullable tells an absent JSON field apart from an explicit null.
package nullable

import (
	"bytes"
	"encoding/json"
)

// String is a string field of a partial update. Set is false when the key was
// omitted; Set with a nil Value means the client sent null.
type String struct {
	Set   bool
	Value *string
}

// Of returns a String set to v.
func Of(v string) String {
	return String{Set: true, Value: &v}
}

// Null returns a String that clears the field.
func Null() String {
	return String{Set: true}
}

// UnmarshalJSON is only called for keys present in the payload, null included.
func (s *String) UnmarshalJSON(data []byte) error {
	s.Set = true
	if bytes.Equal(data, []byte("null")) {
		s.Value = nil
		return nil
	}

	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.Value = &v
	return nil
}

// MarshalJSON writes the value, or null when unset or cleared.
func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value)
}
