package service

import (
	"errors"

	"restaurante/internal/repositories"
	"restaurante/internal/session"
)

var (
	ErrNotFound      = repositories.ErrNotFound
	ErrDuplicate     = repositories.ErrDuplicate
	ErrInUse         = repositories.ErrInUse
	ErrEmptyOrder    = session.ErrEmptyOrder
	ErrMissingColumn = errors.New("missing required column")
	ErrInvalidInput  = errors.New("invalid input")
)
