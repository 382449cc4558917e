// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package bystander

// simulatorOptions holds configuration resolved from Option values at
// [New] time.
type simulatorOptions struct {
	contentionThreshold int
	retryThreshold      int
	helperSlots         int
	reclaimer           Reclaimer
	logger              Logger
	metricsEnabled      bool
}

// --- Simulator Options ---

// Option configures a [Simulator] at construction time.
type Option interface {
	applySimulator(*simulatorOptions) error
}

// simulatorOptionImpl implements Option.
type simulatorOptionImpl struct {
	applyFunc func(*simulatorOptions) error
}

func (o *simulatorOptionImpl) applySimulator(opts *simulatorOptions) error {
	return o.applyFunc(opts)
}

// WithContentionThreshold sets how many CAS failures a single fast-path
// attempt tolerates before [Simulator.Run] escalates to the help queue.
// Must be >= 1; without this option, [New] uses
// [DefaultContentionThreshold].
func WithContentionThreshold(threshold int) Option {
	return &simulatorOptionImpl{func(opts *simulatorOptions) error {
		if threshold < 1 {
			return TypeError{Message: "bystander: WithContentionThreshold requires threshold >= 1"}
		}
		opts.contentionThreshold = threshold
		return nil
	}}
}

// WithRetryThreshold sets how many fast-path attempts (each exactly one
// Generator→execute→WrapUp pass) Run makes in total before escalating to
// the help queue, independent of the contention observed within any single
// attempt. Zero forces every call straight to the slow
// path, which is useful for stress-testing the help queue in isolation.
func WithRetryThreshold(threshold int) Option {
	return &simulatorOptionImpl{func(opts *simulatorOptions) error {
		if threshold < 0 {
			return TypeError{Message: "bystander: WithRetryThreshold requires threshold >= 0"}
		}
		opts.retryThreshold = threshold
		return nil
	}}
}

// WithHelperSlots sets the size of the help queue's announcement table
// (see queue.go), i.e. the bound on concurrently outstanding escalations.
// The queue rounds slots up to the next power of two. Must be >= 1.
func WithHelperSlots(slots int) Option {
	return &simulatorOptionImpl{func(opts *simulatorOptions) error {
		if slots < 1 {
			return TypeError{Message: "bystander: WithHelperSlots requires slots >= 1"}
		}
		opts.helperSlots = slots
		return nil
	}}
}

// WithReclaimer overrides the default [EpochReclaimer] used to govern safe
// reuse of pooled [OperationRecordBox] allocations.
func WithReclaimer(r Reclaimer) Option {
	return &simulatorOptionImpl{func(opts *simulatorOptions) error {
		if r == nil {
			return TypeError{Message: "bystander: WithReclaimer requires a non-nil Reclaimer"}
		}
		opts.reclaimer = r
		return nil
	}}
}

// WithLogger overrides the default structured logger (see logging.go).
// Pass a nil Logger to silence logging entirely.
func WithLogger(l Logger) Option {
	return &simulatorOptionImpl{func(opts *simulatorOptions) error {
		opts.logger = l
		return nil
	}}
}

// WithMetrics enables atomic counters for fast-path completions, slow-path
// escalations, help rounds performed, and current queue depth, retrievable via
// [Simulator.Stats]. Disabled by default: the counters add a handful of
// additional atomic increments per Run call, avoidable when unused.
func WithMetrics(enabled bool) Option {
	return &simulatorOptionImpl{func(opts *simulatorOptions) error {
		opts.metricsEnabled = enabled
		return nil
	}}
}

// resolveSimulatorOptions applies Option instances over the defaults.
func resolveSimulatorOptions(opts []Option) (*simulatorOptions, error) {
	cfg := &simulatorOptions{
		contentionThreshold: DefaultContentionThreshold,
		retryThreshold:      DefaultRetryThreshold,
		helperSlots:         DefaultHelperSlots,
		reclaimer:           NewEpochReclaimer(),
		logger:              defaultLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applySimulator(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
