package bystander

import (
	"time"

	catrate "github.com/joeycumines/go-catrate"
)

// diagnosticCategory distinguishes the handful of conditions this package
// ever logs about, for catrate's per-category sliding windows.
type diagnosticCategory string

const (
	diagEscalation diagnosticCategory = "escalation"
	diagHelpRound  diagnosticCategory = "help_round"
)

// diagnostics rate-limits the simulator's own diagnostic logging. Under
// sustained contention, a naive "log every escalation" policy would itself
// become a throughput bottleneck (and a log-volume incident) at exactly the
// moment the diagnostics are most needed — the classic pathology catrate
// exists to cut off. Escalation and help-round diagnostics are each allowed
// a handful of log lines per second, independent of how many goroutines are
// actually escalating.
type diagnostics struct {
	logger  Logger
	limiter *catrate.Limiter
}

func newDiagnostics(logger Logger) *diagnostics {
	return &diagnostics{
		logger: logger,
		limiter: catrate.NewLimiter(map[time.Duration]int{
			time.Second: 5,
			time.Minute: 60,
		}),
	}
}

// escalation reports that a Run call left its fast path without an output
// (retry budget exhausted, or contention over threshold) and is falling
// back to the help queue.
func (d *diagnostics) escalation(owner uint64, contention int) {
	if d == nil || d.logger == nil {
		return
	}
	if _, ok := d.limiter.Allow(diagEscalation); !ok {
		return
	}
	d.logger.Notice().
		Uint64("owner", owner).
		Int("contention", contention).
		Log("escalating to help queue")
}

// helpRound reports one iteration of the slow-path spin-and-help loop.
func (d *diagnostics) helpRound(owner uint64, rounds int) {
	if d == nil || d.logger == nil {
		return
	}
	if _, ok := d.limiter.Allow(diagHelpRound); !ok {
		return
	}
	d.logger.Debug().
		Uint64("owner", owner).
		Int("rounds", rounds).
		Log("help round")
}
