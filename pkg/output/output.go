package output

import (
	"errors"

	"github.com/mkarlsson/telltemp/pkg/sensor"
)

// Output is a sink for accepted sensor readings.
type Output interface {
	Publish(sensor.Data) error
	Close() error
}

// ErrNotImplemented is returned when the SQLite log type is selected.
// The message is part of the CLI contract.
var ErrNotImplemented = errors.New("SQLite support not yet implemented, sorry.")

// Null discards everything; used when no sink is configured.
type Null struct{}

func (Null) Publish(sensor.Data) error { return nil }

func (Null) Close() error { return nil }

// NewSQLite always fails: database logging is named in the CLI surface but
// not built. Selecting it must fail loudly instead of silently substituting
// another backend.
func NewSQLite(path string, overwrite bool) (Output, error) {
	return nil, ErrNotImplemented
}
