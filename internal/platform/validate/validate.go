// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used exclusively in the service layer, never in handlers or
// storage. It ensures that business logic only operates on semantically valid data.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/filmorate/internal/platform/apperr"
	"github.com/taibuivan/filmorate/pkg/date"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "must not be blank")
	}
	return v
}

// MaxLen fails if the character count exceeds max.
//
// Characters are counted as code points of the NFC form, so "é" typed as
// e + combining acute counts once.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if CharCount(value) > max {
		v.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return v
}

// Positive fails if value is zero or negative.
func (v *Validator) Positive(field string, value int) *Validator {
	if value <= 0 {
		v.add(field, "must be positive")
	}
	return v
}

// Email fails unless the value is a single bare RFC 5322 address containing "@".
//
// Display-name forms such as "Bob <bob@example.com>" are rejected.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	if err != nil || address.Address != value || !strings.Contains(value, "@") {
		v.add(field, "must be a valid email address")
	}
	return v
}

// NoWhitespace fails if the value contains any Unicode whitespace.
func (v *Validator) NoWhitespace(field, value string) *Validator {
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		v.add(field, "must not contain whitespace")
	}
	return v
}

// DateRequired fails if the date is absent.
func (v *Validator) DateRequired(field string, value date.Date) *Validator {
	if value.IsZero() {
		v.add(field, "is required")
	}
	return v
}

// NotBefore fails if a present date is strictly earlier than limit.
func (v *Validator) NotBefore(field string, value, limit date.Date) *Validator {
	if !value.IsZero() && value.Before(limit) {
		v.add(field, "must not be before "+limit.String())
	}
	return v
}

// NotAfter fails if a present date is strictly later than limit.
func (v *Validator) NotAfter(field string, value, limit date.Date) *Validator {
	if !value.IsZero() && value.After(limit) {
		v.add(field, "must not be after "+limit.String())
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("friendId", userID == friendID, "must differ from the user id")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// The message lists every failed rule as "field: reason" so that a client that
// only reads the top-level error still learns what to fix.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(v.errs))
	for _, fieldError := range v.errs {
		parts = append(parts, fieldError.Field+": "+fieldError.Message)
	}

	return apperr.ValidationError(strings.Join(parts, "; "), v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(field+": "+message, apperr.FieldError{
		Field:   field,
		Message: message,
	})
}

// CharCount returns the number of code points in the NFC form of value.
func CharCount(value string) int {
	return utf8.RuneCountInString(norm.NFC.String(value))
}
