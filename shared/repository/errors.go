package repository

import (
	"errors"

	"parking/shared/constant"

	"github.com/lib/pq"
)

// UniqueViolation reports whether err is a postgres unique violation and,
// if so, the name of the violated constraint.
func UniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
		return pqErr.Constraint, true
	}

	return "", false
}
