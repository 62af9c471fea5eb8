package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Violation is a single broken rule for a field
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErr carries all violations collected for an entity
type ValidationErr struct {
	violations []Violation
	notFound   bool
}

// NewValidationErr builds ValidationErr from violations
func NewValidationErr(violations ...Violation) *ValidationErr {
	return &ValidationErr{violations: violations}
}

// NewEntryNotFoundErr builds ValidationErr reporting missing entry
func NewEntryNotFoundErr(field string, msg string) *ValidationErr {
	return &ValidationErr{
		violations: []Violation{{Field: field, Message: msg}},
		notFound:   true,
	}
}

// ValidationErrFromMap rebuilds ValidationErr from its JSON representation, fields are sorted
func ValidationErrFromMap(m map[string][]string) *ValidationErr {
	fields := make([]string, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	e := &ValidationErr{violations: make([]Violation, 0, len(m))}
	for _, f := range fields {
		for _, msg := range m[f] {
			e.violations = append(e.violations, Violation{Field: f, Message: msg})
		}
	}
	return e
}

func (e *ValidationErr) Error() string {
	buff := bytes.NewBufferString("")

	for i, v := range e.violations {
		if i > 0 {
			buff.WriteString("\n")
		}
		buff.WriteString(v.Message)
	}

	return buff.String()
}

// Violations returns violations in the order they were collected
func (e *ValidationErr) Violations() []Violation {
	return e.violations
}

// Messages returns all violation messages
func (e *ValidationErr) Messages() []string {
	msgs := make([]string, 0, len(e.violations))
	for _, v := range e.violations {
		msgs = append(msgs, v.Message)
	}
	return msgs
}

// Fields groups messages by field
func (e *ValidationErr) Fields() map[string][]string {
	m := make(map[string][]string)
	for _, v := range e.violations {
		m[v.Field] = append(m[v.Field], v.Message)
	}
	return m
}

// IsNotFound reports whether error describes missing entry
func (e *ValidationErr) IsNotFound() bool {
	return e.notFound
}

func (e *ValidationErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Fields())
}

// StorageErr wraps any failure raised by storage engine
type StorageErr struct {
	Op       string
	Conflict string
	Err      error
}

// NewStorageErr wraps err raised during op
func NewStorageErr(op string, err error) *StorageErr {
	return &StorageErr{Op: op, Err: err}
}

// NewConflictErr wraps unique constraint violation on field
func NewConflictErr(op string, field string, err error) *StorageErr {
	return &StorageErr{Op: op, Conflict: field, Err: err}
}

func (e *StorageErr) Error() string {
	return fmt.Sprintf("storage failed to %s - %v", e.Op, e.Err)
}

func (e *StorageErr) Unwrap() error {
	return e.Err
}
