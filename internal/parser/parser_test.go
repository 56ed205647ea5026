package parser

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/rdcgen/internal/fixtures/canonical"
	"github.com/cmmoran/rdcgen/internal/fixtures/readings"
	"github.com/cmmoran/rdcgen/pkg/ir"
	"github.com/cmmoran/rdcgen/pkg/model"
	"github.com/cmmoran/rdcgen/pkg/options"
	"github.com/cmmoran/rdcgen/pkg/source"
	"github.com/cmmoran/rdcgen/pkg/targets/java"
)

const (
	inDir      = "../fixtures/canonical"
	fixturePkg = "github.com/cmmoran/rdcgen/internal/fixtures/canonical"
)

func parse(t *testing.T, opts ...options.Option) *Parser {
	t.Helper()
	p, err := New(append([]options.Option{options.WithInDir(inDir)}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	return p
}

func TestLookup(ttt *testing.T) {
	p := parse(ttt)
	tests := []struct {
		expr     string
		identity string
		kind     model.Kind
	}{
		{"TestWidget", fixturePkg + ".TestWidget", model.KindStruct},
		{"ExportType", fixturePkg + ".ExportType", model.KindEnum},
		{"TestEnum", fixturePkg + ".TestEnum", model.KindDataEnum},
		{"TestKeyed[int32, string]", fixturePkg + ".TestKeyed[int32,string]", model.KindStruct},
		{"TestResult[TestWidget]", fixturePkg + ".TestResult[" + fixturePkg + ".TestWidget]", model.KindDataEnum},
		{"canonical.TestPage[int]", fixturePkg + ".TestPage[int64]", model.KindStruct},
		{fixturePkg + ".TestWodget", fixturePkg + ".TestWodget", model.KindStruct},
		{"github.com/cmmoran/rdcgen/pkg/rdc.EnumMember", "github.com/cmmoran/rdcgen/pkg/rdc.EnumMember", model.KindStruct},
		{"TestWidgets", "[]*" + fixturePkg + ".TestWidget", model.KindList},
	}
	for _, tt := range tests {
		ttt.Run(tt.expr, func(t *testing.T) {
			h, err := p.Lookup(tt.expr)
			require.NoError(t, err)
			require.Equal(t, tt.identity, h.Identity())
			require.Equal(t, tt.kind, h.Kind)
		})
	}
}

func TestLookupErrors(ttt *testing.T) {
	p := parse(ttt)
	tests := []struct {
		expr string
		want error
	}{
		{"Missing", ErrTypeNotFound},
		{"nope.TestWidget", ErrTypeNotFound},
		{"ExportTypeCsv", ErrTypeNotFound},
		{"TestResult", source.ErrUnsupportedType},
		{"TestResult[uint8]", source.ErrUnsupportedType},
	}
	for _, tt := range tests {
		ttt.Run(tt.expr, func(t *testing.T) {
			_, err := p.Lookup(tt.expr)
			require.True(t, errors.Is(err, tt.want), "%v", err)
		})
	}
}

func TestStructAndEnum(t *testing.T) {
	p := parse(t)
	h, err := p.Lookup("TestWidget")
	require.NoError(t, err)

	require.Len(t, h.Fields, 3)
	require.Equal(t, "age", h.Fields[1].Tag)
	require.Equal(t, model.Int64, h.Fields[1].Type.Primitive)

	export := h.Fields[2].Type.Elem
	require.Equal(t, []*model.HostMember{
		{Name: "Csv", Tag: "CSV"},
		{Name: "Json", Tag: "Json"},
		{Name: "Xml", Tag: "XML"},
	}, export.Members)
}

func TestUnionVariants(t *testing.T) {
	p := parse(t)
	h, err := p.Lookup("TestEnum")
	require.NoError(t, err)

	type variant struct {
		Name, Tag string
		Shape     model.Shape
	}
	var got []variant
	for _, v := range h.Variants {
		got = append(got, variant{v.Name, v.Tag, v.Shape})
	}
	want := []variant{
		{"Csv", "Csv", model.ShapeTuple},
		{"Json", "JSON", model.ShapeTuple},
		{"Xml", "XML", model.ShapeTuple},
		{"Other", "Other", model.ShapeObject},
		{"Unit", "Unit", model.ShapeUnit},
		{"Nested", "Nested", model.ShapeTuple},
		{"Page", "Page", model.ShapeTuple},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("variants mismatch (-want +got):\n%s", diff)
	}

	require.Same(t, h, h.Variant("Nested").Slots[0])
	require.Equal(t, model.String, h.Variant("Csv").Slots[0].Primitive)
}

func TestGenericUnion(t *testing.T) {
	p := parse(t)
	h, err := p.Lookup("TestResult[int32]")
	require.NoError(t, err)
	require.Len(t, h.Variants, 2)
	require.Equal(t, "Ok", h.Variants[0].Name)
	require.Equal(t, model.Int32, h.Variants[0].Slots[0].Primitive)
	require.Equal(t, "Err", h.Variants[1].Name)
	require.Equal(t, "message", h.Variants[1].Fields[0].Tag)
}

func TestDefaultRoots(t *testing.T) {
	p := parse(t)
	roots, err := p.Roots()
	require.NoError(t, err)

	var names []string
	for _, r := range roots {
		names = append(names, r.Name)
	}
	require.Equal(t, []string{"ExportType", "TestWidget", "TestWodget", "TestEnum", "TestEnvelope"}, names)
}

func TestExplicitRoots(t *testing.T) {
	p := parse(t, options.WithTypes("TestKeyed[int32, bool]", "TestEnum"))
	roots, err := p.Roots()
	require.NoError(t, err)
	require.Len(t, roots, 2)
	require.Equal(t, fixturePkg+".TestKeyed[int32,bool]", roots[0].Identity())

	p = parse(t, options.WithTypes("Missing"))
	_, err = p.Roots()
	require.True(t, errors.Is(err, ErrTypeNotFound))
}

// The source extractor and the reflection extractor must agree on every
// entity they produce for the same declarations.
func TestMatchesReflection(t *testing.T) {
	reg, err := canonical.Registry()
	require.NoError(t, err)
	reflected, err := source.NewReflector(reg).HostType(reflect.TypeFor[canonical.TestEnvelope]())
	require.NoError(t, err)
	fromReflect := ir.New(java.Target{})
	fromReflect.Add(reflected)

	parsed, err := parse(t).Lookup("TestEnvelope")
	require.NoError(t, err)
	fromSource := ir.New(java.Target{})
	fromSource.Add(parsed)

	require.Equal(t, 9, fromSource.Len())
	if diff := cmp.Diff(fromReflect.Structs(), fromSource.Structs()); diff != "" {
		t.Errorf("structs mismatch (-reflect +source):\n%s", diff)
	}
	if diff := cmp.Diff(fromReflect.Enums(), fromSource.Enums()); diff != "" {
		t.Errorf("enums mismatch (-reflect +source):\n%s", diff)
	}
	if diff := cmp.Diff(fromReflect.DataEnums(), fromSource.DataEnums()); diff != "" {
		t.Errorf("data enums mismatch (-reflect +source):\n%s", diff)
	}
}

// Named primitives, slices and maps used as type arguments stand for their
// underlying type in both extractors.
func TestMatchesReflectionNamedArgs(t *testing.T) {
	reflected, err := source.NewReflector(nil).HostType(reflect.TypeFor[readings.Station]())
	require.NoError(t, err)
	fromReflect := ir.New(java.Target{})
	fromReflect.Add(reflected)

	parsed, err := parse(t, options.WithInDir("../fixtures/readings")).Lookup("Station")
	require.NoError(t, err)
	fromSource := ir.New(java.Target{})
	fromSource.Add(parsed)

	var names []ir.CustomType
	for _, s := range fromSource.Structs() {
		names = append(names, s.SelfType)
	}
	require.Equal(t, []ir.CustomType{"Station", "SampleStringDouble", "SampleIntegerDouble", "SampleStringsStringDoubleMap", "SampleStringStrings"}, names)
	if diff := cmp.Diff(fromReflect.Structs(), fromSource.Structs()); diff != "" {
		t.Errorf("structs mismatch (-reflect +source):\n%s", diff)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(options.WithTarget("cobol"))
	require.True(t, errors.Is(err, options.ErrInvalidOptions))
}
