package service

import (
	"errors"
	"fmt"

	"prokat/internal/database"
	"prokat/internal/models"
)

var (
	ErrInvalidDuration = fmt.Errorf("rental duration must be a whole number of hours between 1 and %d", models.MaxRentalHours)
	ErrInvalidPrice    = errors.New("price must be a non-negative number")
	ErrInvalidType     = errors.New("unknown inventory type")
	ErrInvalidRole     = errors.New("unknown role")
	ErrEmptyBrand      = errors.New("brand must not be empty")
	ErrInvalidStatus   = errors.New("unknown inventory status")
	ErrInvalidPeriod   = errors.New("report period end is before start")
)

// Ошибки хранилища, которые различает транспорт
var (
	ErrItemNotFound      = database.ErrItemNotFound
	ErrItemNotAvailable  = database.ErrItemNotAvailable
	ErrDuplicatePhone    = database.ErrDuplicatePhone
	ErrAlreadyRegistered = database.ErrAlreadyRegistered
)
