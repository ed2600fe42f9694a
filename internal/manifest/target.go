package manifest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// targetFields are the accepted spellings of the per-class target, in
// priority order. The same spellings apply to a repos entry and to the
// manifest document.
var targetFields = []string{"target_label_min", "labels_target_per_class"}

// Target sources reported in TargetResolution.Source.
const (
	SourceRepo     = "repo"
	SourceManifest = "manifest"
	SourceDefault  = "default"
)

// IgnoredTarget is a configured target value that could not be used.
type IgnoredTarget struct {
	Source string
	Field  string
	Value  any
}

func (i IgnoredTarget) String() string {
	return fmt.Sprintf("%s.%s=%v", i.Source, i.Field, i.Value)
}

// TargetResolution is the effective per-class target and where it came from.
type TargetResolution struct {
	Value  int
	Source string
	// Field is the field name the value was read from; empty for the
	// default.
	Field string
	// Ignored holds the set value that was not a positive integer, when
	// that value forced the default.
	Ignored []IgnoredTarget
}

type targetStep struct {
	source string
	field  string
	get    func() any
}

// ResolveTarget resolves the per-class target for entry. The first set
// value wins: entry fields, then document fields. When that value is not a
// positive integer it is reported in Ignored and def is used; later fields
// are not consulted. Resolution never fails.
func ResolveTarget(entry Entry, doc *Document, def int) TargetResolution {
	var fields map[string]any
	if doc != nil {
		fields = doc.Fields
	}

	steps := make([]targetStep, 0, 2*len(targetFields))
	for _, field := range targetFields {
		steps = append(steps, targetStep{source: SourceRepo, field: field, get: lookup(entry, field)})
	}
	for _, field := range targetFields {
		steps = append(steps, targetStep{source: SourceManifest, field: field, get: lookup(fields, field)})
	}

	for _, step := range steps {
		v := step.get()
		if !isSet(v) {
			continue
		}
		n, ok := CoerceTarget(v)
		if !ok {
			return TargetResolution{
				Value:   def,
				Source:  SourceDefault,
				Ignored: []IgnoredTarget{{Source: step.source, Field: step.field, Value: v}},
			}
		}
		return TargetResolution{Value: n, Source: step.source, Field: step.field}
	}
	return TargetResolution{Value: def, Source: SourceDefault}
}

func lookup(m map[string]any, field string) func() any {
	return func() any {
		if m == nil {
			return nil
		}
		return m[field]
	}
}

// CoerceTarget converts a YAML scalar into a positive target count.
// Floats truncate toward zero; strings must hold a base-10 integer.
func CoerceTarget(v any) (int, bool) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case uint64:
		if x > math.MaxInt32 {
			return 0, false
		}
		n = int64(x)
	case float64:
		if math.IsNaN(x) || math.Abs(x) > math.MaxInt32 {
			return 0, false
		}
		n = int64(math.Trunc(x))
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if n < 1 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}
