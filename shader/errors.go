package shader

import (
	"errors"
	"fmt"
)

// package errors
var (
	ErrEmptySource = errors.New("shader source is empty")
	ErrUnknownKind = errors.New("unknown shader kind")
	ErrStageSet    = errors.New("a program needs one compute stage or one vertex and one fragment stage")
)

// CompileError is returned when a stage fails to compile.
// Log is the driver's diagnostic text, unmodified.
type CompileError struct {
	Kind Kind
	Name string
	Log  string
}

func (e *CompileError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s shader %q failed to compile: %s", e.Kind, e.Name, e.Log)
	}
	return fmt.Sprintf("%s shader failed to compile: %s", e.Kind, e.Log)
}

// LinkError is returned when all stages compiled but the program
// failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "program failed to link: " + e.Log
}

// ValidateError is returned by Builder.Validate.
type ValidateError struct {
	Handle uint32
	Log    string
}

func (e *ValidateError) Error() string {
	return fmt.Sprintf("program %d failed validation: %s", e.Handle, e.Log)
}
