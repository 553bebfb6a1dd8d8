package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBMI(t *testing.T) {
	bmi, err := CalculateBMI(180, 75)
	require.NoError(t, err)
	assert.InDelta(t, 23.15, bmi, 0.01)
	assert.Equal(t, "Normal weight", BMICategory(bmi))

	_, err = CalculateBMI(0, 75)
	assert.Error(t, err)
	_, err = CalculateBMI(180, 500)
	assert.Error(t, err)
}

func TestBMR(t *testing.T) {
	// Mifflin-St Jeor: 10*75 + 6.25*180 - 5*30 + 5 = 1730
	assert.InDelta(t, 1730, BMR(75, 180, 30, "male"), 0.01)
	// Female variant subtracts 161 instead of adding 5.
	assert.InDelta(t, 1564, BMR(75, 180, 30, "female"), 0.01)
	assert.Zero(t, BMR(0, 180, 30, "male"))
}

func TestDailyCalories(t *testing.T) {
	maintain := DailyCalories(75, 180, 30, "male", "maintain")
	lose := DailyCalories(75, 180, 30, "male", "lose_weight")
	gain := DailyCalories(75, 180, 30, "male", "gain_muscle")
	assert.Equal(t, maintain-400, lose)
	assert.Equal(t, maintain+300, gain)

	// Missing biometrics fall back to a generic target.
	assert.Equal(t, 2000, DailyCalories(0, 0, 0, "", "maintain"))

	// The floor keeps aggressive deficits sane.
	assert.GreaterOrEqual(t, DailyCalories(40, 150, 80, "female", "lose_weight"), 1200)
}

func TestMacroSplit(t *testing.T) {
	p, c, f := MacroSplit(2000, 0.30, 0.45, 0.25)
	assert.InDelta(t, 150, p, 0.01)
	assert.InDelta(t, 225, c, 0.01)
	assert.InDelta(t, 55.6, f, 0.1)
}
