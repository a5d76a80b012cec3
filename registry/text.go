// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package registry

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Name is the fixed-width, NUL-padded form of a texture name.
type Name [NameLength]byte

// EncodeName converts s to the fixed-width form. Names longer than
// NameLength bytes are cut at the last complete UTF-8 sequence that fits.
func EncodeName(s string) Name {
	var n Name
	if len(s) > NameLength {
		s = s[:NameLength]
		for len(s) > 0 && !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	copy(n[:], s)
	return n
}

// String returns the name up to the first NUL.
func (n *Name) String() string {
	return decodeField(n[:])
}

// NameIs reports whether the slot name equals n. Comparison runs over the
// full field width with C string semantics: bytes must match up to and
// including the first NUL, and bytes past it are ignored.
func (d *Descriptor) NameIs(n *Name) bool {
	for i := 0; i < NameLength; i++ {
		if d.Name[i] != n[i] {
			return false
		}
		if n[i] == 0 {
			return true
		}
	}
	return true
}

// NameString returns the slot name as text.
func (d *Descriptor) NameString() string {
	return decodeField(d.Name[:])
}

// DescriptionString returns the slot description as text, "" if unset.
func (d *Descriptor) DescriptionString() string {
	return decodeField(d.Description[:])
}

// SetName writes s into the name field, NUL-padding the rest.
func (d *Descriptor) SetName(s string) {
	d.Name = EncodeName(s)
}

// SetDescription writes s into the description field, truncating to fit.
func (d *Descriptor) SetDescription(s string) {
	clear(d.Description[:])
	if len(s) > DescriptionLength {
		s = s[:DescriptionLength]
		for len(s) > 0 && !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	copy(d.Description[:], s)
}

// decodeField cuts b at the first NUL and decodes it as UTF-8. The producer
// may leave garbage in slots it never published; invalid sequences become
// U+FFFD rather than leaking raw bytes into host UI strings.
func decodeField(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte("�")))
	}
	return string(out)
}
