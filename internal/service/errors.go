package service

import "errors"

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDeadlinePassed     = errors.New("deadline has passed for this assignment")
	ErrNoAttemptsLeft     = errors.New("no attempts left for this assignment")
	ErrForbidden          = errors.New("forbidden")
)
