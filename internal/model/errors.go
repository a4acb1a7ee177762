package model

import "errors"

// Pipeline errors. Every one of them is fatal: the run stops and the
// message is shown to the user as is.
var (
	// ErrToolNotFound indicates the external converter is not installed or not on PATH.
	ErrToolNotFound = errors.New("converter not found")

	// ErrInputNotFound indicates the markup or document input file does not exist.
	ErrInputNotFound = errors.New("input not found")

	// ErrToolFailed indicates the external converter exited non-zero.
	ErrToolFailed = errors.New("converter failed")

	// ErrStyleMissing indicates a style the formatting rules depend on is
	// not defined in the document's style part.
	ErrStyleMissing = errors.New("style definition missing")

	// ErrInvalidDocument indicates the input is not a usable word-processor package.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidRules indicates a rule set that cannot drive formatting.
	ErrInvalidRules = errors.New("invalid rule set")
)

// Diagnostic is an error whose message is written to the terminal as is.
// It matches its sentinel with errors.Is.
type Diagnostic struct {
	Msg string
	Err error
}

// NewDiagnostic creates a diagnostic for a sentinel error.
func NewDiagnostic(sentinel error, msg string) *Diagnostic {
	return &Diagnostic{Msg: msg, Err: sentinel}
}

func (d *Diagnostic) Error() string { return d.Msg }

func (d *Diagnostic) Unwrap() error { return d.Err }
