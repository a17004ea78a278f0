// Package errors provides classified errors for docgen.
//
// A ClassifiedError carries a category (which subsystem failed), a severity
// (how much of the batch it affects) and structured context. The batch runner
// uses the severity to decide between failing a single unit and aborting.
package errors

import (
	"fmt"
	"maps"
)

// Category represents the broad category of an error for classification and routing.
type Category string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig   Category = "config"
	CategoryTemplate Category = "template"

	// CategoryParse represents source parsing errors (recoverable per file).
	CategoryParse    Category = "parse"
	CategoryMetadata Category = "metadata"

	// CategoryDocument represents errors in existing generated documents.
	CategoryDocument Category = "document"
	CategoryMarker   Category = "marker"

	// CategoryFileSystem represents disk I/O errors.
	CategoryFileSystem Category = "filesystem"

	CategoryInternal Category = "internal"
)

// Severity indicates the blast radius of an error.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Aborts the whole batch
	SeverityError   Severity = "error"   // Fails the current unit only
	SeverityWarning Severity = "warning" // Recorded in the unit result, processing continues
)

// Context provides structured context for errors.
type Context map[string]any

// Set adds or updates a context value.
func (c Context) Set(key string, value any) Context {
	if c == nil {
		c = make(Context)
	}
	c[key] = value
	return c
}

// Merge combines two contexts, with other taking precedence.
func (c Context) Merge(other Context) Context {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(Context)
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}

// ClassifiedError is a structured error with category, severity, and context.
type ClassifiedError struct {
	category Category
	severity Severity
	message  string
	cause    error
	context  Context
}

// Error implements the standard error interface.
func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
}

// Unwrap implements Go 1.13+ error unwrapping.
func (e *ClassifiedError) Unwrap() error { return e.cause }

// Category returns the error category.
func (e *ClassifiedError) Category() Category { return e.category }

// Severity returns the error severity.
func (e *ClassifiedError) Severity() Severity { return e.severity }

// Message returns the error message without category prefix or cause.
func (e *ClassifiedError) Message() string { return e.message }

// Context returns the error context.
func (e *ClassifiedError) Context() Context { return e.context }

// IsCategory checks if the error belongs to a specific category.
func (e *ClassifiedError) IsCategory(category Category) bool { return e.category == category }

// IsFatal checks if the error should abort the whole batch.
func (e *ClassifiedError) IsFatal() bool { return e.severity == SeverityFatal }

// Is implements error comparison for errors.Is.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.category == other.category && e.message == other.message
	}
	return false
}

// AsClassified attempts to convert an error to a ClassifiedError.
func AsClassified(err error) (*ClassifiedError, bool) {
	if classified, ok := err.(*ClassifiedError); ok {
		return classified, true
	}
	return nil, false
}

// GetCategory extracts the category from an error, or returns CategoryInternal.
func GetCategory(err error) Category {
	if classified, ok := AsClassified(err); ok {
		return classified.Category()
	}
	return CategoryInternal
}

// GetSeverity extracts the severity from an error, or returns SeverityError.
func GetSeverity(err error) Severity {
	if classified, ok := AsClassified(err); ok {
		return classified.Severity()
	}
	return SeverityError
}
