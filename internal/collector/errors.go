package collector

import (
	"errors"
	"fmt"
)

var (
	// ErrDisabled means the source has no credentials configured.
	ErrDisabled = errors.New("source disabled")
	// ErrNoData means the upstream answered without a usable value.
	ErrNoData = errors.New("no data")
)

// StatusError is a non-200 upstream answer.
type StatusError struct {
	Source string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d, body: %s", e.Source, e.Status, e.Body)
}
