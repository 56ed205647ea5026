// Package name converts identifiers between snake_case, camelCase, PascalCase
// and UPPER_SNAKE_CASE. Every Name is stored in snake case.
package name

import "strings"

// Name is an identifier held in canonical snake case.
type Name struct {
	snake string
}

// FromSnakeCase wraps an identifier that is already snake case.
func FromSnakeCase(s string) Name {
	return Name{snake: s}
}

// FromUpperSnakeCase lowercases an UPPER_SNAKE_CASE identifier.
func FromUpperSnakeCase(s string) Name {
	return Name{snake: strings.ToLower(s)}
}

// FromCamelCase splits s before every uppercase letter that follows a
// lowercase letter. The first character never starts a new segment.
func FromCamelCase(s string) Name {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i > 0 && isUpper(c) && isLower(s[i-1]) {
			b.WriteByte('_')
		}
		b.WriteByte(toLower(c))
	}
	return Name{snake: b.String()}
}

// FromPascalCase is FromCamelCase; the leading capital carries no boundary.
func FromPascalCase(s string) Name {
	return FromCamelCase(s)
}

func (n Name) SnakeCase() string {
	return n.snake
}

func (n Name) UpperSnakeCase() string {
	return strings.ToUpper(n.snake)
}

func (n Name) CamelCase() string {
	var b strings.Builder
	b.Grow(len(n.snake))
	upper := false
	for i := 0; i < len(n.snake); i++ {
		c := n.snake[i]
		if c == '_' && i+1 < len(n.snake) {
			upper = true
			continue
		}
		if upper {
			c = toUpper(c)
			upper = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (n Name) PascalCase() string {
	camel := n.CamelCase()
	if camel == "" {
		return camel
	}
	return string(toUpper(camel[0])) + camel[1:]
}

func (n Name) String() string {
	return n.snake
}

func (n Name) IsZero() bool {
	return n.snake == ""
}

// Equal reports whether both names share the same canonical form.
func (n Name) Equal(o Name) bool {
	return n.snake == o.snake
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func toLower(c byte) byte {
	if isUpper(c) {
		return c + ('a' - 'A')
	}
	return c
}

func toUpper(c byte) byte {
	if isLower(c) {
		return c - ('a' - 'A')
	}
	return c
}
