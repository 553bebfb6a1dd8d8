package utils

import (
	"errors"
	"strings"
)

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCm / 100.0
	return weightKg / (h * h), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	default:
		return "Obesity"
	}
}

// BMR estimates basal metabolic rate (Mifflin-St Jeor).
func BMR(weightKg, heightCm float64, age int, gender string) float64 {
	if weightKg <= 0 || heightCm <= 0 || age <= 0 {
		return 0
	}
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if strings.EqualFold(gender, "female") || strings.EqualFold(gender, "f") {
		return base - 161
	}
	return base + 5
}

// DailyCalories is the goal-adjusted daily target, assuming light activity.
// Falls back to 2000 kcal when biometrics are missing.
func DailyCalories(weightKg, heightCm float64, age int, gender, goal string) int {
	bmr := BMR(weightKg, heightCm, age, gender)
	if bmr == 0 {
		return 2000
	}
	tdee := bmr * 1.375
	switch goal {
	case "lose_weight":
		tdee -= 400
	case "gain_muscle":
		tdee += 300
	}
	if tdee < 1200 {
		tdee = 1200
	}
	return int(tdee)
}

// MacroSplit converts a calorie amount into gram targets. Ratios are
// fractions of calories and should sum to 1.
func MacroSplit(calories int, proteinRatio, carbsRatio, fatRatio float64) (proteinG, carbsG, fatG float64) {
	c := float64(calories)
	return c * proteinRatio / 4.0, c * carbsRatio / 4.0, c * fatRatio / 9.0
}
