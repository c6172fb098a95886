// internal/analysis/complexity.go
package analysis

// Tier is the coarse complexity classification reported to clients.
type Tier string

const (
	TierUnknown Tier = "unknown"
	TierSimple  Tier = "simple"
	TierMedium  Tier = "medium"
	TierComplex Tier = "complex"
)

// Classify derives a complexity tier from a structure report. Rules apply in
// order, first match wins. A nil or empty report classifies as unknown,
// which is distinct from simple.
func Classify(report *Report) Tier {
	if report == nil || isEmpty(report) {
		return TierUnknown
	}

	varCount := len(report.NormalVariables) + len(report.ConditionalVariables)

	if varCount > 20 || len(report.ArrayInfo) > 5 || hasDeepArrays(report) {
		return TierComplex
	}

	if varCount > 10 || len(report.ArrayInfo) > 2 {
		return TierMedium
	}

	return TierSimple
}

func isEmpty(report *Report) bool {
	return len(report.NormalVariables) == 0 &&
		len(report.ConditionalVariables) == 0 &&
		len(report.ArrayInfo) == 0
}

// hasDeepArrays reports nested arrays or primitive-item arrays, both of
// which require contextual binding in the template.
func hasDeepArrays(report *Report) bool {
	for _, arr := range report.ArrayInfo {
		if len(arr.NestedArrays) > 0 {
			return true
		}
		if len(arr.Variables) == 1 && arr.Variables[0] == ContextualValue {
			return true
		}
	}
	return false
}
