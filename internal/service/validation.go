package service

import (
	"regexp"
	"strings"

	"CapybaraPetService/internal/models"
	"CapybaraPetService/pkg/apperrors"
)

var (
	timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)
	emailPattern     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidTimeOfDay проверяет формат HH:MM или HH:MM:SS в 24-часовой записи
func ValidTimeOfDay(value string) bool {
	return timeOfDayPattern.MatchString(value)
}

// ValidGender проверяет допустимое значение пола
func ValidGender(value string) bool {
	return value == models.GenderMale || value == models.GenderFemale
}

// ValidEmail выполняет грубую проверку адреса
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// missingFields возвращает ошибку со списком незаполненных полей
func missingFields(fields map[string]string, order ...string) error {
	var missing []string
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperrors.BadRequest("Missing required fields: " + strings.Join(missing, ", "))
}

// positive проверяет числовое поле формы
func positive(name string, value *models.FlexFloat) (float64, error) {
	if value == nil || !value.Valid {
		return 0, apperrors.BadRequest("Invalid " + name + ": must be a number")
	}
	if value.Value <= 0 {
		return 0, apperrors.BadRequest("Invalid " + name + ": must be positive")
	}
	return value.Value, nil
}
