package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitatrack/ai"
	"vitatrack/store"
)

func newReportFixture(t *testing.T, s *store.Store) (*ReportService, *PlanService, *WeightService) {
	t.Helper()
	settings := NewSettingsService(s, nil, nil)
	users := NewUserService(s, nil, nil)
	resolver := ai.NewResolver(nil)
	weights := NewWeightService(s, nil)
	plans := NewPlanService(s, resolver, settings, users, nil)
	return NewReportService(s, resolver, settings, users, weights, nil), plans, weights
}

func TestWeeklyReportAggregates(t *testing.T) {
	s := newTestStore(t)
	reports, plans, weights := newReportFixture(t, s)
	u := newTestUser(t, s, "alice")

	_, err := plans.GenerateWellnessPlan(context.Background(), u.ID)
	require.NoError(t, err)
	_, _, err = plans.CompleteWorkout(u.ID, 0)
	require.NoError(t, err)
	_, _, err = plans.CompleteWorkout(u.ID, 1)
	require.NoError(t, err)

	_, err = plans.GenerateMealPlan(context.Background(), u.ID)
	require.NoError(t, err)

	now := time.Now()
	_, err = weights.Upsert(u.ID, now.AddDate(0, 0, -6), 80)
	require.NoError(t, err)
	_, err = weights.Upsert(u.ID, now, 78.5)
	require.NoError(t, err)

	report, err := reports.Generate(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.WorkoutsCompleted)
	assert.Equal(t, 1, report.MealPlans)
	assert.Positive(t, report.AvgPlanCalories)
	assert.Equal(t, 80.0, report.WeightStartKg)
	assert.Equal(t, 78.5, report.WeightEndKg)
	assert.InDelta(t, -1.5, report.WeightDeltaKg, 0.001)
	assert.NotEmpty(t, report.Summary)
	assert.Equal(t, "offline", report.SummarySource)
}

func TestWeeklyReportLimit(t *testing.T) {
	s := newTestStore(t)
	reports, _, _ := newReportFixture(t, s)
	u := newTestUser(t, s, "alice")

	for i := 0; i < maxReportsPerWeek; i++ {
		_, err := reports.Generate(context.Background(), u.ID)
		require.NoError(t, err)
	}
	_, err := reports.Generate(context.Background(), u.ID)
	assert.ErrorIs(t, err, ErrLimitReached)
}
