// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package bystander

// TypeError reports an invalid [Option] value supplied to [New]. Spec §7
// deliberately gives Run itself no fatal error path — a correctly
// constructed Simulator always eventually returns an Output — so the only
// errors this package produces are configuration mistakes caught at
// construction time, before any operation is ever run.
type TypeError struct {
	Cause   error
	Message string
}

// Error implements the error interface.
func (e TypeError) Error() string {
	if e.Message == "" {
		return "bystander: invalid option"
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e TypeError) Unwrap() error {
	return e.Cause
}
