// Package dberr normalizes driver errors for the repositories.
package dberr

import (
	"errors"

	"gorm.io/gorm"
)

// Translate maps dialect specific errors (unique violations, foreign key
// violations) onto gorm's portable errors, whether or not the connection was
// opened with TranslateError.
func Translate(db *gorm.DB, err error) error {
	if err == nil {
		return nil
	}
	if t, ok := db.Dialector.(gorm.ErrorTranslator); ok {
		return t.Translate(err)
	}
	return err
}

// IsDuplicateKey reports a unique or primary key violation.
func IsDuplicateKey(db *gorm.DB, err error) bool {
	return errors.Is(Translate(db, err), gorm.ErrDuplicatedKey)
}
