package service

import (
	"math"
	"strconv"
	"strings"

	"prokat/internal/models"
)

// ParseHours принимает целое число часов от 1 до models.MaxRentalHours.
func ParseHours(text string) (int, error) {
	hours, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || !validHours(hours) {
		return 0, ErrInvalidDuration
	}
	return hours, nil
}

func validHours(hours int) bool {
	return hours > 0 && hours <= models.MaxRentalHours
}

// ParsePrice принимает неотрицательное число, запятая допустима как разделитель.
func ParsePrice(text string) (float64, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validPrice(price) {
		return 0, ErrInvalidPrice
	}
	return price, nil
}

func validPrice(price float64) bool {
	return price >= 0 && !math.IsInf(price, 0) && !math.IsNaN(price)
}
