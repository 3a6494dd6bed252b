package service

import (
	"math"

	"CapybaraPetService/internal/models"
)

// BasalMetabolicRate считает BMR по пересмотренной формуле Харриса-Бенедикта.
// Вес в килограммах, рост в сантиметрах, возраст в годах.
func BasalMetabolicRate(gender string, weight, height float64, age int) float64 {
	a := float64(age)
	if gender == models.GenderFemale {
		return 447.593 + 9.247*weight + 3.098*height - 4.330*a
	}
	return 88.362 + 13.397*weight + 4.799*height - 5.677*a
}

// DailyCalorieGoal округляет BMR до целых калорий
func DailyCalorieGoal(gender string, weight, height float64, age int) int {
	return int(math.Round(BasalMetabolicRate(gender, weight, height, age)))
}

// waterPerKilogram миллилитров воды в сутки на килограмм веса
const waterPerKilogram = 35

// DefaultWaterGoal цель по воде, если пользователь ее не указал
func DefaultWaterGoal(weight float64) int {
	return int(math.Round(weight * waterPerKilogram))
}
