package ir

import (
	"github.com/cockroachdb/errors"
)

// Style is the JSON tagging convention of a data enum.
type Style int

const (
	// StyleExternal wraps the payload in an object keyed by the variant tag;
	// unit variants serialize as the bare tag string.
	StyleExternal Style = iota
)

func (s Style) String() string {
	switch s {
	case StyleExternal:
		return "external"
	}
	return "invalid"
}

func (s Style) MarshalText() ([]byte, error) {
	if str := s.String(); str != "invalid" {
		return []byte(str), nil
	}
	return nil, errors.Newf("ir: invalid style %d", int(s))
}

func (s *Style) UnmarshalText(text []byte) error {
	switch string(text) {
	case "external":
		*s = StyleExternal
		return nil
	}
	return errors.Newf("ir: unknown style %q", text)
}
