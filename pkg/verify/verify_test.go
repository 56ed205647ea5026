package verify

import (
	"context"
	"os"
	"os/exec"
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/rdcgen/internal/fixtures/canonical"
	"github.com/cmmoran/rdcgen/pkg/rdc"
	"github.com/cmmoran/rdcgen/pkg/rdcgen"
	"github.com/cmmoran/rdcgen/pkg/targets/golang"
	"github.com/cmmoran/rdcgen/pkg/targets/java"
)

func TestJavaProjectLayout(t *testing.T) {
	p, err := JavaProject([]java.Class{{Name: "Point", Code: "public class Point {}\n"}}, JavaRoundTrip("Point"))
	require.NoError(t, err)
	require.Equal(t, "gradle -q run", p.Command)

	files, err := p.Files()
	require.NoError(t, err)
	require.Equal(t, []string{
		"build.gradle",
		"settings.gradle",
		"src/main/java/com/rdc/Main.java",
		"src/main/java/com/rdc/Point.java",
		"src/main/java/com/rdc/Utils.java",
	}, files)
}

func TestGoProjectLayout(t *testing.T) {
	p, err := GoProject([]golang.File{{Name: "point_gen.go", Code: "package model\n"}}, GoRoundTrip("Point"))
	require.NoError(t, err)

	files, err := p.Files()
	require.NoError(t, err)
	require.Equal(t, []string{"go.mod", "main.go", "model/point_gen.go"}, files)
}

func TestRunErrors(ttt *testing.T) {
	tests := []struct {
		name    string
		command string
		is      error
	}{
		{name: "unbalanced quote", command: `gradle "-q run`},
		{name: "empty", command: "  "},
		{name: "missing tool", command: "rdcgen-no-such-tool --version", is: ErrToolMissing},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.command).Run(context.Background(), "")
			require.Error(t, err)
			if tt.is != nil {
				require.True(t, errors.Is(err, tt.is))
			}
		})
	}
}

func TestRunPipesStdin(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	p := New(`sh -c 'cat input.txt -'`)
	require.NoError(t, p.AddFile("input.txt", "staged "))

	out, err := p.Run(context.Background(), "stdin")
	require.NoError(t, err)
	require.Equal(t, "staged stdin", out)

	p = New(`sh -c 'echo boom >&2; exit 3'`)
	_, err = p.Run(context.Background(), "")
	require.True(t, errors.Is(err, ErrCommandFailed))
	require.Contains(t, errors.FlattenDetails(err), "boom")
}

// scenarios are the TestEnum values round-tripped through generated code.
var scenarios = []struct {
	name  string
	value canonical.TestEnum
}{
	{"csv", canonical.TestEnumCsv("a,b")},
	{"json", canonical.TestEnumJson{Value: 42}},
	{"xml", canonical.TestEnumXml{Scale: 3.13467, Depth: 57}},
	{"other", canonical.TestEnumOther{Name: "test", Export: canonical.ExportTypeXml}},
	{"unit", canonical.TestEnumUnit{}},
	{"nested", canonical.TestEnumNested{Inner: canonical.TestEnumNested{Inner: canonical.TestEnumUnit{}}}},
	{"page", canonical.TestEnumPage{Page: canonical.TestPage[int32]{
		Items: []int32{1, 2},
		Keyed: canonical.TestKeyed[int32, float64]{Key: 7, Value: 0.5, Widget: canonical.TestWidget{Name: "w", Category: 3}},
	}}},
}

func roundTrip(t *testing.T, reg *rdc.Registry, p *Project) {
	t.Helper()
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			in := sc.value
			data, err := reg.Marshal(&in)
			require.NoError(t, err)

			out, err := p.Run(context.Background(), string(data))
			require.NoError(t, err, errors.FlattenDetails(err))

			var got canonical.TestEnum
			require.NoError(t, reg.Unmarshal([]byte(out), &got))
			require.Empty(t, cmp.Diff(sc.value, got, cmpopts.EquateEmpty()))
		})
	}
}

func registry(t *testing.T) *rdc.Registry {
	t.Helper()
	reg, err := canonical.Registry()
	require.NoError(t, err)
	return reg
}

func TestJavaRoundTrip(t *testing.T) {
	if os.Getenv("RDCGEN_VERIFY_JAVA") == "" {
		t.Skip("set RDCGEN_VERIFY_JAVA to build with gradle")
	}
	reg := registry(t)
	classes, err := rdcgen.Java(reg, reflect.TypeFor[canonical.TestEnum]())
	require.NoError(t, err)
	p, err := JavaProject(classes, JavaRoundTrip("TestEnum"))
	require.NoError(t, err)

	roundTrip(t, reg, p)
}

func TestGoRoundTrip(t *testing.T) {
	if os.Getenv("RDCGEN_VERIFY_GO") == "" {
		t.Skip("set RDCGEN_VERIFY_GO to build with the go command")
	}
	reg := registry(t)
	files, err := rdcgen.Go(reg, GoPackage, reflect.TypeFor[canonical.TestEnum]())
	require.NoError(t, err)
	p, err := GoProject(files, GoRoundTrip("TestEnum"))
	require.NoError(t, err)

	roundTrip(t, reg, p)
}
