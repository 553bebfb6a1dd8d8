package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMealPlanStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"meals\":[{\"name\":\"Lunch\",\"calories\":600}],\"total_calories\":600}\n```"
	plan, err := ParseMealPlan(raw)
	require.NoError(t, err)
	assert.Equal(t, 600, plan.TotalCalories)
}

func TestParseMealPlanComputesMissingTotal(t *testing.T) {
	raw := `{"meals":[{"name":"Lunch","calories":600},{"name":"Dinner","calories":500}]}`
	plan, err := ParseMealPlan(raw)
	require.NoError(t, err)
	assert.Equal(t, 1100, plan.TotalCalories)
}

func TestParseMealPlanRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"not json":         "hello there",
		"no meals":         `{"meals":[]}`,
		"nameless meal":    `{"meals":[{"calories":500}]}`,
		"zero calories":    `{"meals":[{"name":"Lunch","calories":0}]}`,
		"negative protein": `{"meals":[{"name":"Lunch","calories":500,"protein_g":-1}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseMealPlan(raw)
			assert.Error(t, err)
		})
	}
}

func TestParseWeeklyPlanRejectsBadInput(t *testing.T) {
	_, err := ParseWeeklyPlan(`{"days":[]}`)
	assert.Error(t, err)

	_, err = ParseWeeklyPlan(`{"days":[{"duration_min":30}]}`)
	assert.Error(t, err)

	_, err = ParseWeeklyPlan(`{"days":[{"focus":"Cardio","intensity":"extreme"}]}`)
	assert.Error(t, err)
}

func TestParseAnalysis(t *testing.T) {
	a, err := ParseAnalysis(`{"description":"rice","calories":300,"protein_g":6}`)
	require.NoError(t, err)
	assert.Equal(t, 300, a.Calories)

	_, err = ParseAnalysis(`{"description":"air","calories":0}`)
	assert.Error(t, err)
}
