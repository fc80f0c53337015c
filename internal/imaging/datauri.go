package imaging

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidDataURI is returned when the input does not match
// data:<mime>;base64,<payload> or the payload is not valid base64.
var ErrInvalidDataURI = errors.New("invalid data-URI image")

var dataURIPattern = regexp.MustCompile(`^data:([A-Za-z0-9.+-]+/[A-Za-z0-9.+-]+);base64,(.+)$`)

// Image is a decoded data-URI image.
type Image struct {
	ContentType string
	Data        []byte
}

// DecodeDataURI decodes a data:<mime>;base64,<payload> string into its
// content type and raw bytes. No size limit is enforced here; the HTTP
// layer caps request body size.
func DecodeDataURI(s string) (*Image, error) {
	matches := dataURIPattern.FindStringSubmatch(s)
	if len(matches) != 3 {
		return nil, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return nil, ErrInvalidDataURI
	}
	return &Image{ContentType: matches[1], Data: data}, nil
}

// IsDataURIImage reports whether s looks like an embedded base64 image.
// Update paths use it to distinguish a fresh upload from an already
// stored URL echoed back by the client.
func IsDataURIImage(s string) bool {
	return strings.HasPrefix(s, "data:image")
}
