package wlserial

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every typed error below matches exactly one.
var (
	ErrUnsupportedVersion = errors.New("wlserial: unsupported serial version")
	ErrUnsupportedSchema  = errors.New("wlserial: unsupported schema version")
	ErrChecksumMismatch   = errors.New("wlserial: checksum mismatch")
	ErrUnexpectedData     = errors.New("wlserial: unexpected data")
	ErrSymbolResolution   = errors.New("wlserial: unresolved symbol")
	ErrUnderflow          = errors.New("wlserial: truncated serial")
	ErrFieldRange         = errors.New("wlserial: field out of range")
	ErrMalformedText      = errors.New("wlserial: malformed serial text")
)

type UnsupportedVersionError struct {
	Version byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("wlserial: unsupported serial version %d", e.Version)
}

func (e *UnsupportedVersionError) Is(target error) bool { return target == ErrUnsupportedVersion }

type UnsupportedSchemaError struct {
	Schema uint32
	Max    uint32
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("wlserial: schema version %d exceeds newest known %d", e.Schema, e.Max)
}

func (e *UnsupportedSchemaError) Is(target error) bool { return target == ErrUnsupportedSchema }

// ChecksumMismatchError carries the rejected serial for diagnostics.
type ChecksumMismatchError struct {
	Raw      []byte
	Expected uint16 // stored in the serial
	Computed uint16
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("wlserial: checksum mismatch: stored %04x, computed %04x", e.Expected, e.Computed)
}

func (e *ChecksumMismatchError) Is(target error) bool { return target == ErrChecksumMismatch }

// UnexpectedDataError reports structure the codec does not know how to parse.
type UnexpectedDataError struct {
	Field string
	Value uint32
}

func (e *UnexpectedDataError) Error() string {
	return fmt.Sprintf("wlserial: unexpected %s %d (expected 0)", e.Field, e.Value)
}

func (e *UnexpectedDataError) Is(target error) bool { return target == ErrUnexpectedData }

// SymbolResolutionError is returned by encode when the table has no index
// for a symbol.
type SymbolResolutionError struct {
	Category string
	Symbol   string
}

func (e *SymbolResolutionError) Error() string {
	return fmt.Sprintf("wlserial: cannot index %q in %s", e.Symbol, e.Category)
}

func (e *SymbolResolutionError) Is(target error) bool { return target == ErrSymbolResolution }

// BitStreamUnderflowError is returned when a serial ends before Field.
type BitStreamUnderflowError struct {
	Field string
	Err   error
}

func (e *BitStreamUnderflowError) Error() string {
	return fmt.Sprintf("wlserial: truncated serial reading %s", e.Field)
}

func (e *BitStreamUnderflowError) Is(target error) bool { return target == ErrUnderflow }
func (e *BitStreamUnderflowError) Unwrap() error        { return e.Err }

// FieldRangeError is returned by encode when a value does not fit its wire width.
type FieldRangeError struct {
	Field string
	Value uint64
	Max   uint64
}

func (e *FieldRangeError) Error() string {
	return fmt.Sprintf("wlserial: %s %d exceeds %d", e.Field, e.Value, e.Max)
}

func (e *FieldRangeError) Is(target error) bool { return target == ErrFieldRange }

// MalformedTextError is returned for text that is not a recognized TAG(base64) serial.
type MalformedTextError struct {
	Text   string
	Reason string
	Err    error
}

func (e *MalformedTextError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wlserial: malformed serial text: %s: %v", e.Reason, e.Err)
	}
	return "wlserial: malformed serial text: " + e.Reason
}

func (e *MalformedTextError) Is(target error) bool { return target == ErrMalformedText }
func (e *MalformedTextError) Unwrap() error        { return e.Err }
