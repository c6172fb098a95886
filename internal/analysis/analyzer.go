// Package analysis infers the variable structure of a template from a sample
// JSON payload: which fields are plain variables, which drive conditionals,
// and which are arrays (including one level of nested arrays).
package analysis

import (
	"sort"
	"strings"

	"docgen-service/internal/common/logger"
)

// ContextualValue marks an array whose items bind directly to the loop's
// current value instead of through a named field.
const ContextualValue = "contextual-value"

// Boolean keys with these prefixes are treated as conditionals; booleans
// without them are reported as normal variables. This avoids misclassifying
// boolean business data (e.g. "approved") as display switches.
var conditionalPrefixes = []string{"show", "enable", "display"}

// Report is the client-facing description of a sample document's shape.
type Report struct {
	NormalVariables      []string          `json:"normalVariables"`
	ConditionalVariables []string          `json:"conditionalVariables"`
	ArrayInfo            []ArrayDescriptor `json:"arrayInfo"`
	Loops                []string          `json:"loops"`
	AllVariables         []string          `json:"allVariables"`
}

// ArrayDescriptor describes one array field, inferred from its first element
// only. Heterogeneous arrays are reported by their first item's shape.
type ArrayDescriptor struct {
	Name         string            `json:"name"`
	Variables    []string          `json:"variables"`
	NestedArrays []ArrayDescriptor `json:"nestedArrays"`
}

// Analyzer classifies sample document fields. It is pure apart from optional
// diagnostic logging and never fails: malformed input degrades to an empty
// report.
type Analyzer struct {
	logger logger.Logger
}

func NewAnalyzer(log logger.Logger) *Analyzer {
	return &Analyzer{logger: log}
}

// Analyze inspects an arbitrary JSON-shaped value. Nil or non-object input
// yields a report with every sequence empty.
func (a *Analyzer) Analyze(doc interface{}) *Report {
	report := emptyReport()

	obj, ok := doc.(map[string]interface{})
	if !ok || obj == nil {
		return report
	}

	// Go maps are unordered; iterating sorted keys keeps ArrayInfo and
	// Loops deterministic. Variable lists are sorted afterwards anyway.
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := obj[key]

		switch v := value.(type) {
		case []interface{}:
			report.ArrayInfo = append(report.ArrayInfo, a.analyzeArray(key, v))
			report.Loops = append(report.Loops, "each "+key)
		case bool:
			if isConditionalKey(key) {
				report.ConditionalVariables = append(report.ConditionalVariables, key)
			} else {
				report.NormalVariables = append(report.NormalVariables, key)
			}
		case map[string]interface{}:
			for nestedKey := range v {
				report.NormalVariables = append(report.NormalVariables, key+"."+nestedKey)
			}
			report.NormalVariables = append(report.NormalVariables, key)
		default:
			report.NormalVariables = append(report.NormalVariables, key)
		}
	}

	report.NormalVariables = dedupeSorted(report.NormalVariables)
	report.ConditionalVariables = dedupeSorted(report.ConditionalVariables)
	report.AllVariables = append(append([]string{}, report.NormalVariables...), report.ConditionalVariables...)

	if a.logger != nil {
		a.logger.Debug("structure analysis completed", map[string]interface{}{
			"arrays":    len(report.ArrayInfo),
			"variables": len(report.NormalVariables),
		})
	}

	return report
}

// analyzeArray inspects only the first element of the array.
func (a *Analyzer) analyzeArray(name string, items []interface{}) ArrayDescriptor {
	info := ArrayDescriptor{
		Name:         name,
		Variables:    []string{},
		NestedArrays: []ArrayDescriptor{},
	}

	if len(items) == 0 {
		return info
	}

	switch first := items[0].(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(first))
		for key := range first {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if nested, ok := first[key].([]interface{}); ok {
				info.NestedArrays = append(info.NestedArrays, a.analyzeNestedArray(key, nested))
			} else {
				info.Variables = append(info.Variables, key)
			}
		}
	default:
		// string, float64, bool, nil: items bind contextually
		info.Variables = []string{ContextualValue}
	}

	return info
}

// analyzeNestedArray records one level of recursion under an array item.
func (a *Analyzer) analyzeNestedArray(name string, items []interface{}) ArrayDescriptor {
	info := ArrayDescriptor{
		Name:         name,
		Variables:    []string{},
		NestedArrays: []ArrayDescriptor{},
	}

	if len(items) == 0 {
		return info
	}

	if first, ok := items[0].(map[string]interface{}); ok {
		keys := make([]string, 0, len(first))
		for key := range first {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		info.Variables = keys
	} else {
		info.Variables = []string{ContextualValue}
	}

	return info
}

func isConditionalKey(key string) bool {
	lower := strings.ToLower(key)
	for _, prefix := range conditionalPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func dedupeSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func emptyReport() *Report {
	return &Report{
		NormalVariables:      []string{},
		ConditionalVariables: []string{},
		ArrayInfo:            []ArrayDescriptor{},
		Loops:                []string{},
		AllVariables:         []string{},
	}
}
