package utils

import "math"

type BMI struct {
	Value    float64 `json:"value"`
	Category string  `json:"category"`
}

// ComputeBMI expects height in centimeters and weight in kilograms. ok is
// false when either value is missing or outside a plausible human range.
func ComputeBMI(heightCm, weightKg float64) (bmi BMI, ok bool) {
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return BMI{}, false
	}
	h := heightCm / 100.0
	v := math.Round(weightKg/(h*h)*10) / 10
	return BMI{Value: v, Category: bmiCategory(v)}, true
}

func bmiCategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	default:
		return "Obese"
	}
}
