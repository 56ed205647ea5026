// Package canonical declares the host types shared by the extractor,
// collector and target tests.
package canonical

import "github.com/cmmoran/rdcgen/pkg/rdc"

type ExportType string

const (
	ExportTypeCsv  ExportType = "CSV"
	ExportTypeJson ExportType = "Json"
	ExportTypeXml  ExportType = "XML"
)

func (ExportType) EnumMembers() []rdc.EnumMember {
	return []rdc.EnumMember{
		{Name: "Csv", Tag: string(ExportTypeCsv)},
		{Name: "Json", Tag: string(ExportTypeJson)},
		{Name: "Xml", Tag: string(ExportTypeXml)},
	}
}

type TestWidget struct {
	Name     string      `json:"name" yaml:"name" mapstructure:"name"`
	Category int         `json:"age" yaml:"age" mapstructure:"age"`
	Export   *ExportType `json:"export" yaml:"export" mapstructure:"export"`
	Internal string      `json:"-"`
}

type TestWidgets []*TestWidget

type TestWodget struct {
	Key     string           `json:"key"`
	Widgets TestWidgets      `json:"widgets"`
	Parent  *TestWodget      `json:"parent"`
	Tags    map[string]int32 `json:"tags"`
}

type TestKeyed[K any, V any] struct {
	Key    K          `json:"key"`
	Value  V          `json:"hello"`
	Widget TestWidget `json:"widget"`
}

type TestPage[T any] struct {
	Items []T                   `json:"items"`
	Keyed TestKeyed[T, float64] `json:"keyed"`
	Next  *string               `json:"next"`
}

// TestEnum covers every variant shape.
type TestEnum interface {
	isTestEnum()
}

type TestEnumCsv string

type TestEnumJson struct {
	rdc.Tuple `rdc:"JSON"`
	Value     int32
}

type TestEnumXml struct {
	rdc.Tuple `rdc:"XML"`
	Scale     float64
	Depth     int32
}

type TestEnumOther struct {
	Name   string     `json:"name"`
	Export ExportType `json:"export"`
}

type TestEnumUnit struct{}

type TestEnumNested struct {
	rdc.Tuple
	Inner TestEnum
}

type TestEnumPage struct {
	rdc.Tuple
	Page TestPage[int32]
}

func (TestEnumCsv) isTestEnum()    {}
func (TestEnumJson) isTestEnum()   {}
func (TestEnumXml) isTestEnum()    {}
func (TestEnumOther) isTestEnum()  {}
func (TestEnumUnit) isTestEnum()   {}
func (TestEnumNested) isTestEnum() {}
func (TestEnumPage) isTestEnum()   {}

type TestResult[T any] interface {
	isTestResult()
}

type TestResultOk[T any] struct {
	rdc.Tuple
	Value T
}

type TestResultErr[T any] struct {
	Message string `json:"message"`
}

func (TestResultOk[T]) isTestResult()  {}
func (TestResultErr[T]) isTestResult() {}

type TestEnvelope struct {
	Payload TestEnum               `json:"payload"`
	Widget  TestResult[TestWidget] `json:"widget"`
	Counts  []TestResult[int32]    `json:"counts"`
	Wodget  *TestWodget            `json:"wodget"`
}

// Registry registers the unions declared in this package, variants in
// declaration order.
func Registry() (*rdc.Registry, error) {
	r := rdc.NewRegistry()
	if err := rdc.Union[TestEnum](r,
		TestEnumCsv(""),
		TestEnumJson{},
		TestEnumXml{},
		TestEnumOther{},
		TestEnumUnit{},
		TestEnumNested{},
		TestEnumPage{},
	); err != nil {
		return nil, err
	}
	if err := rdc.Union[TestResult[TestWidget]](r, TestResultOk[TestWidget]{}, TestResultErr[TestWidget]{}); err != nil {
		return nil, err
	}
	if err := rdc.Union[TestResult[int32]](r, TestResultOk[int32]{}, TestResultErr[int32]{}); err != nil {
		return nil, err
	}
	return r, nil
}
