// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"math/rand/v2"
	"time"
)

// Pacer decides how long to wait before the next page fetch.
type Pacer interface {
	NextDelay() time.Duration
}

// RandomPacer returns a delay drawn uniformly from [Min, Max].
type RandomPacer struct {
	Min time.Duration
	Max time.Duration
}

// NextDelay returns a random delay in [Min, Max]. When Max is not above
// Min it returns Min.
func (p RandomPacer) NextDelay() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + rand.N(p.Max-p.Min+1)
}

// NoDelay never waits.
type NoDelay struct{}

// NextDelay returns zero.
func (NoDelay) NextDelay() time.Duration { return 0 }
