package source

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/rdcgen/pkg/model"
)

// splitGeneric splits "Pair[int32,example.com/m.User]" into "Pair" and the
// text of each type argument.
func splitGeneric(s string) (string, []string) {
	i := strings.IndexByte(s, '[')
	if i < 0 || !strings.HasSuffix(s, "]") {
		return s, nil
	}
	return s[:i], splitArgs(s[i+1 : len(s)-1])
}

func splitArgs(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// closing returns the index of the ']' matching the '[' at open.
func closing(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseTypeArg turns the text of one reflected type argument into a host
// type. resolve, when set, may replace a named argument with the host type
// of its underlying type; it returns nil to keep the name. Named arguments
// that stay named only carry what naming needs: package, name and their own
// arguments.
func parseTypeArg(s string, resolve func(string) (*model.HostType, error)) (*model.HostType, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, errors.Wrap(ErrUnsupportedType, "empty type argument")
	case strings.HasPrefix(s, "*"):
		elem, err := parseTypeArg(s[1:], resolve)
		if err != nil {
			return nil, err
		}
		return model.OptionalOf(elem), nil
	case strings.HasPrefix(s, "map["):
		end := closing(s, 3)
		if end < 0 {
			return nil, errors.Wrapf(ErrUnsupportedType, "malformed map type %q", s)
		}
		key, err := parseTypeArg(s[4:end], resolve)
		if err != nil {
			return nil, err
		}
		elem, err := parseTypeArg(s[end+1:], resolve)
		if err != nil {
			return nil, err
		}
		return model.MapOf(key, elem), nil
	case strings.HasPrefix(s, "["):
		end := closing(s, 0)
		if end < 0 {
			return nil, errors.Wrapf(ErrUnsupportedType, "malformed list type %q", s)
		}
		elem, err := parseTypeArg(s[end+1:], resolve)
		if err != nil {
			return nil, err
		}
		return model.ListOf(elem), nil
	}

	if p, ok := model.ParsePrimitive(s); ok {
		return model.PrimitiveOf(p), nil
	}
	if strings.ContainsAny(s, " {(") {
		return nil, errors.Wrapf(ErrUnsupportedType, "type argument %q", s)
	}
	if resolve != nil {
		if h, err := resolve(s); err != nil || h != nil {
			return h, err
		}
	}

	base, args := splitGeneric(s)
	h := &model.HostType{Name: base, Kind: model.KindStruct}
	if dot := strings.LastIndexByte(base, '.'); dot >= 0 {
		h.PkgPath, h.Name = base[:dot], base[dot+1:]
	}
	if h.PkgPath == "" && (strings.HasPrefix(h.Name, "uint") || strings.HasPrefix(h.Name, "complex")) {
		return nil, errors.Wrapf(ErrUnsupportedType, "type argument %q", s)
	}
	for _, a := range args {
		at, err := parseTypeArg(a, resolve)
		if err != nil {
			return nil, err
		}
		h.TypeArgs = append(h.TypeArgs, at)
	}
	return h, nil
}
