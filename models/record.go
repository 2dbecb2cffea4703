package models

import (
	"fmt"
	"strings"
	"time"
)

// Record is implemented by the pointer of every stored entity.
type Record interface {
	RecordID() string
	Created() time.Time
	Validate() error
	Assign(id string, createdAt time.Time)
	// SetSeq records the insertion sequence, which orders records created
	// at the same instant.
	SetSeq(n int64)
}

// ValidationError lists the required fields that were missing or blank.
type ValidationError struct {
	Entity string
	Fields []string
}

func (e *ValidationError) Error() string {
	if e.Entity == "contact form" {
		return "All contact form fields are required."
	}
	return fmt.Sprintf("All %s fields are required.", e.Entity)
}

type field struct {
	name  string
	value *string
}

// requireFields trims every value in place and reports the blank ones.
func requireFields(entity string, fields ...field) error {
	var missing []string
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Entity: entity, Fields: missing}
	}
	return nil
}
