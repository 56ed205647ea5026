package model

import (
	"reflect"
	"strings"
	"unicode"
)

// JSONName returns the wire name for a field: the json tag name when present,
// otherwise the Go field name. skip reports a `json:"-"` tag.
func JSONName(fieldName string, tag reflect.StructTag) (wire string, skip bool) {
	v, ok := tag.Lookup("json")
	if !ok {
		return fieldName, false
	}
	if v == "-" {
		return "", true
	}
	n, _, _ := strings.Cut(v, ",")
	if n == "" {
		return fieldName, false
	}
	return n, false
}

// RDCTag returns the value of the `rdc` struct tag.
func RDCTag(tag reflect.StructTag) string {
	return strings.TrimSpace(tag.Get("rdc"))
}

// TrimOwnerPrefix strips owner from the front of name when the remainder is
// still an exported identifier. Generic arguments are dropped first:
// ("Shape", "ShapeCircle[int32]") is "Circle".
func TrimOwnerPrefix(owner, name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(owner, '['); i >= 0 {
		owner = owner[:i]
	}
	rest, ok := strings.CutPrefix(name, owner)
	if !ok || rest == "" {
		return name
	}
	if r := rune(rest[0]); !unicode.IsUpper(r) {
		return name
	}
	return rest
}
