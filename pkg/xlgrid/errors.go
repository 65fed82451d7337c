package xlgrid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHeaderNotFound indicates required header titles were not found.
var ErrHeaderNotFound = errors.New("header not found")

// ErrSheetExists indicates a sheet name is already taken.
var ErrSheetExists = errors.New("sheet already exists")

// ErrSheetNotFound indicates the requested sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrNoSheet indicates a read was attempted before a sheet was selected.
var ErrNoSheet = errors.New("no sheet selected")

// ErrInvalidConfig indicates a configuration value was rejected.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigurationError reports bad input rejected at the call that received it.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	return []error{ErrInvalidConfig, e.Err}
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(field string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Err: err}
}

// HeaderResolutionError reports required titles missing from every scanned row.
type HeaderResolutionError struct {
	SheetName string
	Missing   []string
}

func (e *HeaderResolutionError) Error() string {
	return fmt.Sprintf("header not found in sheet %q: %s", e.SheetName, strings.Join(e.Missing, ","))
}

func (e *HeaderResolutionError) Unwrap() error {
	return ErrHeaderNotFound
}

// NewHeaderResolutionError creates a new HeaderResolutionError.
func NewHeaderResolutionError(sheetName string, missing []string) *HeaderResolutionError {
	return &HeaderResolutionError{SheetName: sheetName, Missing: missing}
}

// NameCollisionError reports a rename to a name already in use.
type NameCollisionError struct {
	Name string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("sheet with name [%s] already exists", e.Name)
}

func (e *NameCollisionError) Unwrap() error {
	return ErrSheetExists
}

// NewNameCollisionError creates a new NameCollisionError.
func NewNameCollisionError(name string) *NameCollisionError {
	return &NameCollisionError{Name: name}
}
