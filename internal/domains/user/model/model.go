package model

import (
	"time"

	"parking/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID         = "id"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldLevel      = "level"
	FieldFullName   = "full_name"
	FieldIsVerified = "is_verified"
	FieldLastLogin  = "last_login"
	FieldActive     = "active"
)

type User struct {
	ID         string     `db:"id"`
	Email      string     `db:"email"`
	Password   string     `db:"password"`
	Level      string     `db:"level"`
	FullName   *string    `db:"full_name"`
	IsVerified bool       `db:"is_verified"`
	LastLogin  *time.Time `db:"last_login"`
	Active     bool       `db:"active"`
	model.Metadata
}
