package bystander

// casExecute iterates a [CasList] in order, invoking each descriptor's
// Execute. On the first failure it increments contention and returns
// Outcome{Ok: false, Index: i}; if every descriptor succeeds it returns
// Outcome{Ok: true} (spec §9 resolves the source skeleton's todo!() this
// way).
//
// Order is preserved and every descriptor is attempted — there is no
// early-success short-circuit, because Execute is itself the
// linearization point, not a pre-check against already-matching state
// (spec §4.2).
func casExecute(list CasList, contention *ContentionMeasure) Outcome {
	for i, d := range list {
		if !d.Execute() {
			contention.Detected()
			return Outcome{Ok: false, Index: i}
		}
	}
	return Outcome{Ok: true}
}
