package database

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by repositories when a row does not exist in the requested scope.
var ErrNotFound = errors.New("record not found")

// NotFound converts gorm's sentinel into ErrNotFound and passes other errors through.
func NotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports a unique-constraint violation. The connection must be opened with
// TranslateError.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
