package models

import (
	"encoding/json"
	"errors"
)

// ImageField accepts the imageUrl update field in either of the shapes
// clients send: a data-URI string carrying a new image, or the stored
// string array echoed back unchanged. Only the string form can carry a
// new image; the array form is accepted and ignored.
type ImageField struct {
	value    string
	isString bool
}

func (f *ImageField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.value = s
		f.isString = true
		return nil
	}
	var urls []string
	if err := json.Unmarshal(data, &urls); err == nil {
		return nil
	}
	return errors.New("imageUrl must be a string or an array of strings")
}

// Value returns the string form and whether one was supplied.
func (f *ImageField) Value() (string, bool) {
	return f.value, f.isString
}
