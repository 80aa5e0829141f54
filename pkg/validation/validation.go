// Package validation defines the input-validation capability consumed by the
// dispatch pipeline, plus a rule-based implementation for hosts that do not
// bring their own.
//
// The pipeline treats validation as opaque: it hands the validator a candidate
// of the form {"body": ..., "params": ..., "query": ...} and acts on the
// discriminated result. Failures are aggregated across all sections rather
// than stopping at the first failed group.
package validation

import (
	"fmt"
	"net/mail"

	"github.com/calder-io/dispatch/pkg/apperr"
)

// Result is the discriminated outcome of a validation run. Either Success is
// true and Data holds the accepted (possibly transformed) candidate, or
// Success is false and Errors lists every failed constraint.
type Result struct {
	Success bool
	Data    map[string]any
	Errors  []apperr.Issue
}

// Validator is the capability contract the dispatcher invokes for routes that
// declare an input shape.
type Validator interface {
	Validate(candidate map[string]any) Result
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func(candidate map[string]any) Result

// Validate implements Validator.
func (f ValidatorFunc) Validate(candidate map[string]any) Result {
	return f(candidate)
}

// Field declares the constraints for one input field.
type Field struct {
	Required  bool
	Email     bool
	MinLength int
	MaxLength int
	Enum      []string
}

// Schema is a rule-based Validator covering the three input sections. Keys of
// each map are field names within that section; reported field paths are
// prefixed with the section name (e.g. "body.email", "params.userId").
type Schema struct {
	Body   map[string]Field
	Params map[string]Field
	Query  map[string]Field
}

// Validate checks the candidate against the schema, aggregating issues across
// body, params, and query rather than stopping at the first failure group.
func (s *Schema) Validate(candidate map[string]any) Result {
	var issues []apperr.Issue
	issues = append(issues, validateSection("body", s.Body, section(candidate, "body"))...)
	issues = append(issues, validateSection("params", s.Params, section(candidate, "params"))...)
	issues = append(issues, validateSection("query", s.Query, section(candidate, "query"))...)

	if len(issues) > 0 {
		return Result{Success: false, Errors: issues}
	}
	return Result{Success: true, Data: candidate}
}

// section extracts a named sub-map from the candidate, tolerating both an
// absent key and a nil value.
func section(candidate map[string]any, name string) map[string]any {
	raw, ok := candidate[name]
	if !ok || raw == nil {
		return map[string]any{}
	}
	switch v := raw.(type) {
	case map[string]any:
		return v
	case map[string]string:
		converted := make(map[string]any, len(v))
		for key, value := range v {
			converted[key] = value
		}
		return converted
	}
	return map[string]any{}
}

func validateSection(prefix string, fields map[string]Field, values map[string]any) []apperr.Issue {
	var issues []apperr.Issue
	for name, field := range fields {
		path := prefix + "." + name
		raw, present := values[name]

		if !present || raw == nil || raw == "" {
			if field.Required {
				issues = append(issues, apperr.Issue{
					Field:   path,
					Message: fmt.Sprintf("%s is required", name),
					Code:    "required",
				})
			}
			continue
		}

		text, isString := raw.(string)
		if !isString {
			// Email/length/enum constraints are string-shaped; a present
			// non-string value fails them rather than slipping through.
			if field.Email || field.MinLength > 0 || field.MaxLength > 0 || len(field.Enum) > 0 {
				issues = append(issues, apperr.Issue{
					Field:   path,
					Message: fmt.Sprintf("%s must be a string", name),
					Code:    "invalid_type",
				})
			}
			continue
		}

		if field.Email {
			if _, err := mail.ParseAddress(text); err != nil {
				issues = append(issues, apperr.Issue{
					Field:   path,
					Message: fmt.Sprintf("%s must be a valid email address", name),
					Code:    "invalid_email",
				})
			}
		}
		if field.MinLength > 0 && len(text) < field.MinLength {
			issues = append(issues, apperr.Issue{
				Field:   path,
				Message: fmt.Sprintf("%s must be at least %d characters", name, field.MinLength),
				Code:    "too_short",
			})
		}
		if field.MaxLength > 0 && len(text) > field.MaxLength {
			issues = append(issues, apperr.Issue{
				Field:   path,
				Message: fmt.Sprintf("%s must be at most %d characters", name, field.MaxLength),
				Code:    "too_long",
			})
		}
		if len(field.Enum) > 0 && !contains(field.Enum, text) {
			issues = append(issues, apperr.Issue{
				Field:   path,
				Message: fmt.Sprintf("%s must be one of the allowed values", name),
				Code:    "invalid_enum",
			})
		}
	}
	return issues
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
