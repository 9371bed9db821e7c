package service

import (
	"strconv"
	"testing"
	"time"

	"prokat/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseHours(t *testing.T) {
	h, err := ParseHours(" 3 ")
	assert.NoError(t, err)
	assert.Equal(t, 3, h)

	h, err = ParseHours(strconv.Itoa(models.MaxRentalHours))
	assert.NoError(t, err)
	assert.Equal(t, models.MaxRentalHours, h)

	// 3000000 ч. уже не помещается в time.Duration
	for _, bad := range []string{"0", "-2", "abc", "1.5", "", strconv.Itoa(models.MaxRentalHours + 1), "3000000", "99999999999999999999"} {
		_, err := ParseHours(bad)
		assert.ErrorIs(t, err, ErrInvalidDuration, bad)
	}
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("150.0")
	assert.NoError(t, err)
	assert.Equal(t, 150.0, p)

	p, err = ParsePrice("99,5")
	assert.NoError(t, err)
	assert.Equal(t, 99.5, p)

	p, err = ParsePrice("0")
	assert.NoError(t, err)
	assert.Zero(t, p)

	for _, bad := range []string{"-1", "дорого", "NaN", "Inf", ""} {
		_, err := ParsePrice(bad)
		assert.ErrorIs(t, err, ErrInvalidPrice, bad)
	}
}

func TestMaxRentalHoursFitsDuration(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Duration(models.MaxRentalHours) * time.Hour)
	assert.True(t, end.After(start))
}
