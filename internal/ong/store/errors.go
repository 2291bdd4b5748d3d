package store

import (
	"fmt"
	"strings"

	"github.com/mtzamorim/apoia/pkg/platform/sentinel"
)

// ErrNotFound keeps store-level 404s consistent across the in-memory and
// postgres implementations.
var ErrNotFound = sentinel.ErrNotFound

// UniqueViolationError is the stable conflict signal both store
// implementations emit when a uniqueness constraint fails at write time.
// Fields carries the human-readable offending column names so the service
// can surface which identifying data collided.
type UniqueViolationError struct {
	Fields []string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique constraint violated on field(s): %s", strings.Join(e.Fields, ", "))
}
