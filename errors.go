package main

import (
	"errors"
	"fmt"
)

var (
	ErrNoEntries        = errors.New("no valid food entries found")
	ErrNoCalculationYet = errors.New("you must calculate first before saving")
	ErrUnknownFood      = errors.New("food is not in the catalog")
)

// ConfigError means the catalog could not be loaded. It is fatal at startup.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

type InvalidTargetError struct {
	Input string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid daily protein target %q", e.Input)
}

type InvalidAmountError struct {
	Food  string
	Input string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid weight %q for %q", e.Input, e.Food)
}

// turns an engine error into the status line shown to the user
func StatusMessage(err error) string {
	var (
		targetErr *InvalidTargetError
		amountErr *InvalidAmountError
	)

	switch {
	case errors.As(err, &targetErr):
		return "⚠️ Please enter a valid daily protein target."
	case errors.As(err, &amountErr):
		return fmt.Sprintf("⚠️ Invalid weight for '%s'.", amountErr.Food)
	case errors.Is(err, ErrNoEntries):
		return "⚠️ No valid food entries found."
	case errors.Is(err, ErrNoCalculationYet):
		return "⚠️ You must calculate first before saving."
	default:
		return fmt.Sprintf("⚠️ %v", err)
	}
}
