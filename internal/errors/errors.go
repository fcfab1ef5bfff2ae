package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/julianstephens/lifelog/internal/logger"
)

var (
	// ErrNotFound is returned when a record key does not exist in a collection.
	ErrNotFound = stderrors.New("record not found")
	// ErrMirror wraps every remote mirror failure. The local write has
	// already been committed when a caller sees it.
	ErrMirror = stderrors.New("remote mirror failed")
	// ErrNotInitialized is returned when the local store has not been created yet.
	ErrNotInitialized = stderrors.New("storage not initialized, run 'lifelog init' first")
)

// ValidationError reports which fields of a record failed which rule.
type ValidationError struct {
	Kind   string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s (%s)", name, e.Fields[name]))
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(parts, ", "))
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}

// Mirror wraps err so errors.Is(err, ErrMirror) holds.
func Mirror(op, table string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrMirror, op, table, err)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
