package golang

var reserved = map[string]struct{}{
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {}, "default": {},
	"defer": {}, "else": {}, "fallthrough": {}, "for": {}, "func": {}, "go": {},
	"goto": {}, "if": {}, "import": {}, "interface": {}, "map": {}, "package": {},
	"range": {}, "return": {}, "select": {}, "struct": {}, "switch": {}, "type": {},
	"var": {},
	// receiver of every generated method
	"x": {},
}

// ident makes a camelCase name safe to declare as a parameter.
func ident(s string) string {
	if _, ok := reserved[s]; ok || s == "" {
		return s + "_"
	}
	return s
}
