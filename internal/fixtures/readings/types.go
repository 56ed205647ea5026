// Package readings declares generic types instantiated with named
// primitives, slices and maps.
package readings

type Celsius float64

type Labels []string

type Limits map[string]Celsius

type Sample[K, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

type Station struct {
	Name        string                   `json:"name"`
	Temperature Sample[string, Celsius]  `json:"temperature"`
	Peak        Sample[int32, *Celsius]  `json:"peak"`
	Tags        Sample[Labels, Limits]   `json:"tags"`
	History     []Sample[string, Labels] `json:"history"`
}
