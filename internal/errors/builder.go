package errors

// Builder provides a fluent API for creating ClassifiedError instances.
type Builder struct {
	category Category
	severity Severity
	message  string
	cause    error
	context  Context
}

// NewError creates a new Builder with the specified category and message.
func NewError(category Category, message string) *Builder {
	return &Builder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(Context),
	}
}

// WrapError creates a new Builder that wraps an existing error.
func WrapError(err error, category Category, message string) *Builder {
	return &Builder{
		category: category,
		severity: SeverityError,
		message:  message,
		cause:    err,
		context:  make(Context),
	}
}

// WithSeverity sets the error severity.
func (b *Builder) WithSeverity(severity Severity) *Builder {
	b.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *Builder) WithContext(key string, value any) *Builder {
	b.context = b.context.Set(key, value)
	return b
}

// Fatal sets the severity to fatal.
func (b *Builder) Fatal() *Builder { return b.WithSeverity(SeverityFatal) }

// Warning sets the severity to warning.
func (b *Builder) Warning() *Builder { return b.WithSeverity(SeverityWarning) }

// Build creates the final ClassifiedError.
func (b *Builder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for common error patterns.

// ConfigError creates a configuration error (fatal: the batch cannot start).
func ConfigError(message string) *Builder {
	return NewError(CategoryConfig, message).Fatal()
}

// TemplateError creates a template definition error (fatal: every unit uses it).
func TemplateError(message string) *Builder {
	return NewError(CategoryTemplate, message).Fatal()
}

// ParseError creates a source parsing error (recoverable per file).
func ParseError(message string) *Builder {
	return NewError(CategoryParse, message).Warning()
}

// MetadataError creates a metadata extraction error (recoverable per unit).
func MetadataError(message string) *Builder {
	return NewError(CategoryMetadata, message).Warning()
}

// MarkerError creates a section marker grammar error.
func MarkerError(message string) *Builder {
	return NewError(CategoryMarker, message).Warning()
}

// FileSystemError creates a filesystem error (fails the unit).
func FileSystemError(message string) *Builder {
	return NewError(CategoryFileSystem, message)
}

// InternalError creates an internal error.
func InternalError(message string) *Builder {
	return NewError(CategoryInternal, message)
}
