package consts

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDBUniqueViolation = errors.New("unique violation")
)
