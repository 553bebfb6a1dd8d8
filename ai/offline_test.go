package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProfile = Profile{
	Age:      30,
	Gender:   "male",
	WeightKg: 75,
	HeightCm: 180,
	Goal:     "lose_weight",
}

func TestOfflineMealPlanIsValid(t *testing.T) {
	o := NewOffline(testProfile)

	raw, err := o.Generate(context.Background(), Request{Kind: KindMealPlan})
	require.NoError(t, err)

	plan, err := ParseMealPlan(raw)
	require.NoError(t, err)
	assert.Len(t, plan.Meals, 4)
	assert.Positive(t, plan.TotalCalories)
	for _, m := range plan.Meals {
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Foods)
		assert.Positive(t, m.Calories)
	}
}

func TestOfflineWeeklyPlanIsValid(t *testing.T) {
	o := NewOffline(testProfile)

	raw, err := o.Generate(context.Background(), Request{Kind: KindWellnessPlan})
	require.NoError(t, err)

	plan, err := ParseWeeklyPlan(raw)
	require.NoError(t, err)
	assert.Len(t, plan.Days, 7)
	for _, d := range plan.Days {
		assert.NotEmpty(t, d.Focus)
		assert.NotEmpty(t, d.Exercises)
	}
}

func TestOfflineAnalysisIsValid(t *testing.T) {
	o := NewOffline(testProfile)

	raw, err := o.Generate(context.Background(), Request{Kind: KindAnalysis, Prompt: "rice and beans"})
	require.NoError(t, err)

	a, err := ParseAnalysis(raw)
	require.NoError(t, err)
	assert.Positive(t, a.Calories)
}

func TestOfflineIsDeterministic(t *testing.T) {
	o := NewOffline(testProfile)

	first, err := o.Generate(context.Background(), Request{Kind: KindMealPlan})
	require.NoError(t, err)
	second, err := o.Generate(context.Background(), Request{Kind: KindMealPlan})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOfflineUnknownGoalFallsBackToMaintain(t *testing.T) {
	o := NewOffline(Profile{Goal: "something_else"})

	raw, err := o.Generate(context.Background(), Request{Kind: KindWellnessPlan})
	require.NoError(t, err)
	plan, err := ParseWeeklyPlan(raw)
	require.NoError(t, err)
	assert.Len(t, plan.Days, 7)
}

func TestOfflineChatAlwaysAnswers(t *testing.T) {
	o := NewOffline(testProfile)
	require.NoError(t, o.Available(context.Background()))

	reply, err := o.Generate(context.Background(), Request{Kind: KindChat, Prompt: "what should I eat?"})
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}
