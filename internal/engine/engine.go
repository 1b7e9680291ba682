// Package engine provides the asynchronous query engines behind the query
// job runner: Amazon Athena, an in-process DuckDB for local use, and an
// unconfigured stand-in used when neither can start.
package engine

import (
	"errors"
	"fmt"
)

// ErrJobNotFound is returned for a job ID the engine does not know.
var ErrJobNotFound = errors.New("query job not found")

func jobNotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrJobNotFound, id)
}
