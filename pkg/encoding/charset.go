// Package encoding provides text encoding utilities for map files.
package encoding

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Charset names accepted by Decode and Encode.
const (
	UTF8        = "utf-8"
	Windows1252 = "windows-1252"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normalize returns the canonical charset name, or an error for unknown names.
func Normalize(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf8", UTF8:
		return UTF8, nil
	case "cp1252", "latin1", Windows1252:
		return Windows1252, nil
	default:
		return "", fmt.Errorf("unknown charset %q", name)
	}
}

// Decode converts file bytes in the given charset to UTF-8 and drops a
// leading byte order mark.
func Decode(data []byte, charset string) ([]byte, error) {
	cs, err := Normalize(charset)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if cs == UTF8 {
		return data, nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", cs, err)
	}
	return out, nil
}

// Encode converts UTF-8 text to the given charset.
func Encode(data []byte, charset string) ([]byte, error) {
	cs, err := Normalize(charset)
	if err != nil {
		return nil, err
	}
	if cs == UTF8 {
		return data, nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewEncoder(), data)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", cs, err)
	}
	return out, nil
}

// Detect guesses the charset of raw file bytes: valid UTF-8 (with or without
// a BOM) is UTF-8, anything else is treated as Windows-1252.
func Detect(data []byte) string {
	if utf8.Valid(bytes.TrimPrefix(data, utf8BOM)) {
		return UTF8
	}
	return Windows1252
}
