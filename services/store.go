package services

import (
	stderrors "errors"
	"strings"

	"campusnest/errors"

	"gorm.io/gorm"
)

// isDuplicate recognises unique-index violations from either the translated
// gorm error or the raw driver message.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}

func isNotFound(err error) bool {
	return stderrors.Is(err, gorm.ErrRecordNotFound)
}

// translate maps store errors to the AppError kinds handlers render.
// AppErrors pass through untouched.
func translate(err error, resource, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.IsAppError(err):
		return err
	case isNotFound(err):
		return errors.NotFound(resource)
	case isDuplicate(err):
		return errors.Conflict(conflictMsg, err)
	}
	return errors.Internal("Database error", err)
}

// Page is a 1-based page request. Zero values fall back to the defaults.
type Page struct {
	Page  int
	Limit int
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}
