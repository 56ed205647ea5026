package generate

import (
	"reflect"
	"sort"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/rdcgen/internal/fixtures/canonical"
	"github.com/cmmoran/rdcgen/pkg/model"
	"github.com/cmmoran/rdcgen/pkg/options"
	"github.com/cmmoran/rdcgen/pkg/source"
)

const inDir = "../../../internal/fixtures/canonical"

func TestGenerate(ttt *testing.T) {
	tests := []struct {
		name    string
		opts    []options.Option
		paths   []string
		file    string
		snippet string
	}{
		{
			name: "java default roots",
			opts: []options.Option{options.WithTarget("java"), options.WithPackage("com.example.api")},
			paths: []string{
				"/out/com/example/api/ExportType.java",
				"/out/com/example/api/TestEnum.java",
				"/out/com/example/api/TestEnvelope.java",
				"/out/com/example/api/TestKeyedIntegerDouble.java",
				"/out/com/example/api/TestPageInteger.java",
				"/out/com/example/api/TestResultInteger.java",
				"/out/com/example/api/TestResultTestWidget.java",
				"/out/com/example/api/TestWidget.java",
				"/out/com/example/api/TestWodget.java",
			},
			file:    "/out/com/example/api/TestEnvelope.java",
			snippet: "package com.example.api;\n\n",
		},
		{
			name:    "java explicit root",
			opts:    []options.Option{options.WithTarget("java"), options.WithTypes("TestWidget")},
			paths:   []string{"/out/ExportType.java", "/out/TestWidget.java"},
			file:    "/out/TestWidget.java",
			snippet: "public class TestWidget {",
		},
		{
			name: "go default package",
			opts: []options.Option{options.WithTarget("go"), options.WithTypes("TestEnum")},
			paths: []string{
				"/out/export_type_gen.go",
				"/out/test_enum_gen.go",
				"/out/test_keyed_int32float64_gen.go",
				"/out/test_page_int32_gen.go",
				"/out/test_widget_gen.go",
			},
			file:    "/out/test_enum_gen.go",
			snippet: "package out",
		},
	}

	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			opts := options.NewOptions().Apply(append([]options.Option{
				options.WithInDir(inDir),
				options.WithOutDir("/out"),
			}, tt.opts...)...)

			paths, err := Generate(fs, opts)
			require.NoError(t, err)
			sort.Strings(paths)
			require.Equal(t, tt.paths, paths)

			data, err := afero.ReadFile(fs, tt.file)
			require.NoError(t, err)
			require.Contains(t, string(data), tt.snippet)
		})
	}
}

func TestGenerateUnknownType(t *testing.T) {
	opts := options.NewOptions().Apply(
		options.WithInDir(inDir),
		options.WithOutDir("/out"),
		options.WithTypes("NoSuchType"),
	)
	_, err := Generate(afero.NewMemMapFs(), opts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "NoSuchType")
}

func reflected(t *testing.T, types ...reflect.Type) []*model.HostType {
	t.Helper()
	reg, err := canonical.Registry()
	require.NoError(t, err)
	x := source.NewReflector(reg)

	roots := make([]*model.HostType, 0, len(types))
	for _, typ := range types {
		h, err := x.HostType(typ)
		require.NoError(t, err)
		roots = append(roots, h)
	}
	return roots
}

func TestRender(t *testing.T) {
	fs := afero.NewMemMapFs()
	roots := reflected(t, reflect.TypeFor[canonical.TestEnvelope]())

	opts := &options.Options{Target: options.TargetGo, OutDir: "/gen/model", Package: "model"}
	paths, err := Render(fs, opts, roots...)
	require.NoError(t, err)
	require.Len(t, paths, 9)
	require.Equal(t, "/gen/model/test_envelope_gen.go", paths[0])

	opts = &options.Options{Target: options.TargetJava, OutDir: "/gen/java"}
	paths, err = Render(fs, opts, roots...)
	require.NoError(t, err)
	require.Len(t, paths, 9)
	require.Equal(t, "/gen/java/TestEnvelope.java", paths[0])
}

func TestRenderUnknownTarget(t *testing.T) {
	opts := &options.Options{Target: "cobol", OutDir: "/gen"}
	_, err := Render(afero.NewMemMapFs(), opts, reflected(t, reflect.TypeFor[canonical.TestWidget]())...)
	require.True(t, errors.Is(err, options.ErrInvalidOptions))
}
