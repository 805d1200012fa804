package db

import "errors"

var (
	// ErrNotFound reports a lookup for a student id that does not exist.
	ErrNotFound = errors.New("student not found")

	// ErrDuplicateRoll reports an insert with a roll number already on file.
	ErrDuplicateRoll = errors.New("roll number already exists")

	// ErrSchemaMissing reports an operation against a database whose
	// schema was never initialized. This is a caller bug, not a data
	// integrity failure.
	ErrSchemaMissing = errors.New("schema not initialized")

	// ErrSeedIntegrity reports a sample row that violated a constraint;
	// the seed transaction was rolled back whole.
	ErrSeedIntegrity = errors.New("sample data violates constraint")
)
