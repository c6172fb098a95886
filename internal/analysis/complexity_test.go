// internal/analysis/complexity_test.go
package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reportWithVariables(n int) *Report {
	r := &Report{
		NormalVariables:      []string{},
		ConditionalVariables: []string{},
		ArrayInfo:            []ArrayDescriptor{},
		Loops:                []string{},
	}
	for i := 0; i < n; i++ {
		r.NormalVariables = append(r.NormalVariables, fmt.Sprintf("var%02d", i))
	}
	return r
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		report   *Report
		expected Tier
	}{
		{"nil report", nil, TierUnknown},
		{"empty report", reportWithVariables(0), TierUnknown},
		{"few variables", reportWithVariables(3), TierSimple},
		{"eleven variables", reportWithVariables(11), TierMedium},
		{"twenty five variables", reportWithVariables(25), TierComplex},
		{
			name: "three arrays",
			report: &Report{
				ArrayInfo: []ArrayDescriptor{
					{Name: "a", Variables: []string{"x"}},
					{Name: "b", Variables: []string{"x"}},
					{Name: "c", Variables: []string{"x"}},
				},
			},
			expected: TierMedium,
		},
		{
			name: "six arrays",
			report: &Report{
				ArrayInfo: []ArrayDescriptor{
					{Name: "a", Variables: []string{"x"}}, {Name: "b", Variables: []string{"x"}},
					{Name: "c", Variables: []string{"x"}}, {Name: "d", Variables: []string{"x"}},
					{Name: "e", Variables: []string{"x"}}, {Name: "f", Variables: []string{"x"}},
				},
			},
			expected: TierComplex,
		},
		{
			name: "nested array forces complex",
			report: &Report{
				ArrayInfo: []ArrayDescriptor{
					{Name: "items", Variables: []string{"name"}, NestedArrays: []ArrayDescriptor{
						{Name: "tags", Variables: []string{ContextualValue}},
					}},
				},
			},
			expected: TierComplex,
		},
		{
			name: "primitive sentinel forces complex",
			report: &Report{
				ArrayInfo: []ArrayDescriptor{
					{Name: "values", Variables: []string{ContextualValue}},
				},
			},
			expected: TierComplex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.report))
		})
	}
}
