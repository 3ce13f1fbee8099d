package test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// ForeignKeys makes SQLite enforce the category of a transaction.
const ForeignKeys = "?_pragma=foreign_keys(1)"

// MemoryDSN is a private in-memory database.
const MemoryDSN = ":memory:" + ForeignKeys

// TmpFile returns the path to a unique file to be used in tests
func TmpFile(t *testing.T) string {
	dir := t.TempDir()
	return filepath.Join(dir, uuid.New().String())
}

// DSN returns the DSN of a new database file that is removed with the test.
func DSN(t *testing.T) string {
	return TmpFile(t) + ForeignKeys
}
