// Package poll runs bounded status-polling loops.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned when the probe never reported completion within
// the allowed number of attempts.
var ErrExhausted = errors.New("poll attempts exhausted")

// Policy bounds a polling loop.
type Policy struct {
	Interval    time.Duration
	MaxAttempts int
}

// Until calls probe until done reports true for its result, the attempts run
// out, or ctx is cancelled. The first probe runs immediately and the loop
// sleeps Interval between probes. It returns the last probed value and the
// number of probes made. Probe errors end the loop at once.
func Until[T any](ctx context.Context, p Policy, probe func(context.Context) (T, error), done func(T) bool) (T, int, error) {
	var last T
	if p.MaxAttempts <= 0 {
		return last, 0, fmt.Errorf("poll: max attempts must be positive, got %d", p.MaxAttempts)
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for attempt := 1; ; attempt++ {
		v, err := probe(ctx)
		if err != nil {
			return v, attempt, err
		}
		last = v
		if done(v) {
			return v, attempt, nil
		}
		if attempt >= p.MaxAttempts {
			return last, attempt, ErrExhausted
		}

		timer.Reset(p.Interval)
		select {
		case <-ctx.Done():
			return last, attempt, ctx.Err()
		case <-timer.C:
		}
	}
}
