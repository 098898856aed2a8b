// Copyright (c) 2026 Folioworks. All rights reserved.

/*
Package optional provides a JSON-aware wrapper that distinguishes a field that
was absent from a request body from one that was explicitly set, including
being set to null.

# Why

encoding/json decodes both a missing key and an explicit null into a nil
pointer, which makes PATCH semantics ambiguous. Admin patches need three
states per field: "leave unchanged" (absent), "clear" (null or empty), and
"replace" (value). [Field] captures presence during unmarshalling so the
service layer can pattern-match on it.
*/
package optional

import "encoding/json"

// Field wraps a patch value together with a presence flag.
//
// The zero value means "absent": the caller did not mention the field and the
// stored value must be left unchanged.
type Field[T any] struct {
	value   T
	present bool
}

// Of returns a present Field holding v. Primarily used by tests and the
// backfill CLI to construct patches programmatically.
func Of[T any](v T) Field[T] {
	return Field[T]{value: v, present: true}
}

// IsSet reports whether the field appeared in the payload at all.
// An explicit null counts as set (with the zero value).
func (f Field[T]) IsSet() bool {
	return f.present
}

// Value returns the decoded value. For an absent field or an explicit null it
// returns the zero value of T.
func (f Field[T]) Value() T {
	return f.value
}

// UnmarshalJSON records presence and decodes the value. A JSON null leaves
// the zero value in place, which patch handling interprets as "clear".
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true

	if string(data) == "null" {
		var zero T
		f.value = zero
		return nil
	}

	return json.Unmarshal(data, &f.value)
}

// MarshalJSON round-trips the held value. Absent fields marshal as null;
// callers that need to omit them entirely should use pointer fields instead.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.value)
}
