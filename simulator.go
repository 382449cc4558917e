package bystander

import (
	"sync"
	"sync/atomic"
)

// Simulator turns a [NormalizedLockFree] algorithm into a wait-free one.
// Construct with [New]; the zero value is not usable.
type Simulator[Input any, Output any] struct {
	algo NormalizedLockFree[Input, Output]
	help *helpQueue[Input, Output]
	opts *simulatorOptions
	diag *diagnostics

	ownerSeq atomic.Uint64
	pool     sync.Pool
	metrics  simulatorMetrics
}

// New constructs a [Simulator] for algo. The only error path is a
// misconfigured [Option] — once constructed, a Simulator's [Simulator.Run]
// never fails (spec §7).
func New[Input any, Output any](algo NormalizedLockFree[Input, Output], opts ...Option) (*Simulator[Input, Output], error) {
	cfg, err := resolveSimulatorOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &Simulator[Input, Output]{
		algo: algo,
		help: newHelpQueue[Input, Output](cfg.helperSlots),
		opts: cfg,
		diag: newDiagnostics(cfg.logger),
	}
	s.pool.New = func() any {
		return new(OperationRecordBox[Input, Output])
	}
	return s, nil
}

// acquireBox recycles a pooled box when the reclaimer has one ready,
// otherwise allocates. Either way the returned box is freshly initialized
// at PreCas for input, with a new owner id.
func (s *Simulator[Input, Output]) acquireBox(input Input) *OperationRecordBox[Input, Output] {
	box := s.pool.Get().(*OperationRecordBox[Input, Output])
	*box = OperationRecordBox[Input, Output]{owner: s.ownerSeq.Add(1)}
	box.rec.Store(preCas[Input, Output](input))
	return box
}

// releaseBox returns box to the pool once the reclaimer judges it safe —
// i.e. no goroutine can still be mid-helpOp holding a reference predating
// its removal from the queue.
func (s *Simulator[Input, Output]) releaseBox(box *OperationRecordBox[Input, Output]) {
	s.pool.Put(box)
}

// Run executes op against the simulated algorithm and returns its output.
// Safe to call from any goroutine, concurrently, any number of times.
//
// Every call first helps the queue's current front once (this is what
// amortizes the cost of helping across every caller, rather than loading
// it entirely onto whoever is stuck). It then attempts up to
// [WithRetryThreshold] fast-path attempts of its own: generate a CAS list,
// execute it, and let the algorithm's WrapUp decide the output or demand a
// retry. If the fast path is exhausted, Run escalates: it publishes its
// own [OperationRecordBox] to the help queue and spins, helping the
// queue's front — which may be its own operation or another caller's —
// until its own record reaches Completed.
func (s *Simulator[Input, Output]) Run(op Input) Output {
	pin(s.opts.reclaimer, func() {
		if front := s.help.peek(); front != nil {
			helpOp(s.algo, s.help, front)
		}
	})

	// At most retryThreshold generate->execute->wrap-up passes total, each
	// with its own fresh ContentionMeasure (spec §4.1/§4.5): the fast path
	// must stay bounded regardless of how persistently WrapUp asks for a
	// retry, and a pass that trips the contention threshold escalates
	// immediately rather than waiting out the remaining attempts.
	for attempt := 0; attempt < s.opts.retryThreshold; attempt++ {
		var contention ContentionMeasure
		list := s.algo.Generator(op, &contention)
		outcome := casExecute(list, &contention)
		output, retry := s.algo.WrapUp(outcome, list, &contention)
		if !retry {
			if s.opts.metricsEnabled {
				s.metrics.fastPathCompletions.Add(1)
			}
			return output
		}
		if contention.UseSlowPath(s.opts.contentionThreshold) {
			break
		}
	}

	return s.runSlowPath(op)
}

// runSlowPath is the escalation path: publish op to the help queue and
// keep helping the front until this goroutine's own record completes.
func (s *Simulator[Input, Output]) runSlowPath(op Input) Output {
	if s.opts.metricsEnabled {
		s.metrics.slowPathEscalations.Add(1)
		s.metrics.queueDepth.Add(1)
	}

	box := s.acquireBox(op)
	s.diag.escalation(box.Owner(), 0)
	s.help.enqueue(box)

	rounds := 0
	var output Output
	pin(s.opts.reclaimer, func() {
		for {
			if out, ok := box.completedOutput(); ok {
				output = out
				return
			}

			front := s.help.peek()
			if front == nil {
				front = box
			}
			helpOp(s.algo, s.help, front)
			rounds++
			if s.opts.metricsEnabled {
				s.metrics.helpRounds.Add(1)
			}
		}
	})
	s.diag.helpRound(box.Owner(), rounds)

	s.help.tryRemoveFront(box)
	if s.opts.metricsEnabled {
		s.metrics.queueDepth.Add(-1)
	}
	s.opts.reclaimer.Retire(func() {
		s.releaseBox(box)
	})

	return output
}

// Stats returns a point-in-time snapshot of this Simulator's activity.
// Populated only when constructed with [WithMetrics](true); otherwise
// every field is zero.
func (s *Simulator[Input, Output]) Stats() Stats {
	return Stats{
		FastPathCompletions: s.metrics.fastPathCompletions.Load(),
		SlowPathEscalations: s.metrics.slowPathEscalations.Load(),
		HelpRounds:          s.metrics.helpRounds.Load(),
		QueueDepth:          s.metrics.queueDepth.Load(),
	}
}
