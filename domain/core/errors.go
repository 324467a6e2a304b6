package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrFileNotFound = errors.New("input file not found")
	ErrEmptyInput   = errors.New("input has no header row")
	ErrRaggedRow    = errors.New("row has more cells than the header")

	// Column errors
	ErrColumnNotFound = errors.New("column not found")
	ErrColumnExists   = errors.New("column already exists")
	ErrColumnNotText  = errors.New("column is not a text column")

	// Ledger errors
	ErrRunNotFound = errors.New("run not found")
)

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
}

func NewColumnNotTextError(column, actual string) error {
	return fmt.Errorf("%w: %s has type %s", ErrColumnNotText, column, actual)
}

func NewRaggedRowError(line, cells, header int) error {
	return fmt.Errorf("%w: line %d has %d cells, header has %d", ErrRaggedRow, line, cells, header)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrRunNotFound)
}

func IsColumnError(err error) bool {
	return errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrColumnExists) ||
		errors.Is(err, ErrColumnNotText)
}
