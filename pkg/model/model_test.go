package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	user := &HostType{Name: "User", PkgPath: "example.com/m", Kind: KindStruct}
	pair := func(args ...*HostType) *HostType {
		return &HostType{Name: "Pair", PkgPath: "example.com/m", Kind: KindStruct, TypeArgs: args}
	}

	tests := []struct {
		name string
		in   *HostType
		want string
	}{
		{name: "primitive", in: PrimitiveOf(Int32), want: "int32"},
		{name: "list", in: ListOf(PrimitiveOf(String)), want: "[]string"},
		{name: "optional", in: OptionalOf(user), want: "*example.com/m.User"},
		{name: "map", in: MapOf(PrimitiveOf(String), ListOf(user)), want: "map[string][]example.com/m.User"},
		{name: "generic", in: pair(PrimitiveOf(Int32), user), want: "example.com/m.Pair[int32,example.com/m.User]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.in.Identity())
		})
	}

	require.NotEqual(t,
		pair(PrimitiveOf(Int32), PrimitiveOf(String)).Identity(),
		pair(PrimitiveOf(Int32), PrimitiveOf(Bool)).Identity())
}

func TestParsePrimitive(t *testing.T) {
	p, ok := ParsePrimitive("int")
	require.True(t, ok)
	require.Equal(t, Int64, p)

	p, ok = ParsePrimitive("float32")
	require.True(t, ok)
	require.Equal(t, Float32, p)

	_, ok = ParsePrimitive("uint8")
	require.False(t, ok)
	_, ok = ParsePrimitive("invalid")
	require.False(t, ok)
}

func TestJSONName(t *testing.T) {
	tests := []struct {
		tag      reflect.StructTag
		wantName string
		wantSkip bool
	}{
		{tag: ``, wantName: "Field"},
		{tag: `json:"name"`, wantName: "name"},
		{tag: `json:"name,omitempty" yaml:"x"`, wantName: "name"},
		{tag: `json:",omitempty"`, wantName: "Field"},
		{tag: `json:"-"`, wantSkip: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			n, skip := JSONName("Field", tt.tag)
			require.Equal(t, tt.wantSkip, skip)
			require.Equal(t, tt.wantName, n)
		})
	}
}

func TestTrimOwnerPrefix(t *testing.T) {
	require.Equal(t, "Circle", TrimOwnerPrefix("Shape", "ShapeCircle"))
	require.Equal(t, "Ok", TrimOwnerPrefix("Result[int32]", "ResultOk[int32]"))
	require.Equal(t, "Circle", TrimOwnerPrefix("Shape", "Circle"))
	require.Equal(t, "Shape", TrimOwnerPrefix("Shape", "Shape"))
	require.Equal(t, "Shaped", TrimOwnerPrefix("Shape", "Shaped"))
}
