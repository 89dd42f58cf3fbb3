package model

import (
	"errors"
	"fmt"
)

// Error kinds shared by the import, export and network paths.
// All of them are recoverable.
var (
	ErrInvalidFormat      = errors.New("invalid format")
	ErrEmptyOrMissingFile = errors.New("empty or missing file")
	ErrNoDataToExport     = errors.New("no data to export")
	ErrNetwork            = errors.New("network error")
)

// ImportError reports why an import was rejected. Kind is
// ErrInvalidFormat or ErrEmptyOrMissingFile.
type ImportError struct {
	Kind error
	Err  error
}

func (e *ImportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("import: %v", e.Kind)
	}
	return fmt.Sprintf("import: %v: %v", e.Kind, e.Err)
}

func (e *ImportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// InvalidFormat wraps a parse failure.
func InvalidFormat(err error) error {
	return &ImportError{Kind: ErrInvalidFormat, Err: err}
}

// EmptyOrMissing wraps a missing or empty import source.
func EmptyOrMissing(err error) error {
	return &ImportError{Kind: ErrEmptyOrMissingFile, Err: err}
}

// ExportError reports an export attempted without data.
type ExportError struct {
	Kind error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export: %v", e.Kind)
}

func (e *ExportError) Unwrap() error {
	return e.Kind
}

// NoDataToExport is returned when nothing has been loaded yet.
func NoDataToExport() error {
	return &ExportError{Kind: ErrNoDataToExport}
}

// NetworkError is surfaced by remote collaborators.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetwork}
	}
	return []error{ErrNetwork, e.Err}
}
