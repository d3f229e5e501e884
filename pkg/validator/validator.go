package validator

import "strings"

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var msgs []string
	for _, e := range v {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any errors
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Add adds a validation error
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// ValidateTitle checks a session title
func ValidateTitle(title string) ValidationErrors {
	var errors ValidationErrors
	title = strings.TrimSpace(title)
	if len(title) < 2 {
		errors.Add("title", "must be at least 2 characters")
	}
	if len(title) > 200 {
		errors.Add("title", "must be at most 200 characters")
	}
	return errors
}

// ValidateConnectionType accepts "friend" or "family"
func ValidateConnectionType(t string) bool {
	return t == "friend" || t == "family"
}

// ValidateWeight bounds a vote weight to [1, max]
func ValidateWeight(weight, max int) bool {
	return weight >= 1 && weight <= max
}

// ValidateMessage bounds an optional free-text field
func ValidateMessage(msg string, maxLen int) bool {
	return len(msg) <= maxLen
}

// SanitizeString trims whitespace and limits length
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
