package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

var errDBUnavailable = fmt.Errorf("%w: db unavailable", domain.ErrUnavailable)

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}
