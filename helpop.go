package bystander

// helpOp drives box through one step of the state machine from spec §4.3,
// given the algorithm that knows how to generate CAS lists and interpret
// their outcomes. It is idempotent and safe to call concurrently with any
// number of other goroutines calling helpOp on the same box — only one
// candidate record per phase ever wins the CAS install; everyone else's
// candidate is simply discarded and the loser returns, so its caller's next
// helpOp call re-loads and continues from whatever phase did win.
//
// Every phase transition funnels through [OperationRecordBox.tryAdvance],
// so the "propose a successor, CAS it in, and if that fails just retry
// from the newly-observed state" shape repeats across all three live
// phases — this is the same compare-and-install idiom [helpQueue] uses one
// layer down for its own linked list.
func helpOp[Input any, Output any](algo NormalizedLockFree[Input, Output], q *helpQueue[Input, Output], box *OperationRecordBox[Input, Output]) {
	cur := box.load()

	switch cur.phase {
	case phasePreCas:
		var contention ContentionMeasure
		list := algo.Generator(cur.input, &contention)
		next := executeCas[Input, Output](cur.input, list)
		box.tryAdvance(cur, next)

	case phaseExecuteCas:
		var contention ContentionMeasure
		outcome := casExecute(cur.list, &contention)
		next := postCas[Input, Output](cur.input, cur.list, outcome)
		box.tryAdvance(cur, next)

	case phasePostCas:
		var contention ContentionMeasure
		output, retry := algo.WrapUp(cur.outcome, cur.list, &contention)
		var next *operationRecord[Input, Output]
		if retry {
			next = preCas[Input, Output](cur.input)
		} else {
			next = completed[Input, Output](output)
		}
		box.tryAdvance(cur, next)

	case phaseCompleted:
		q.tryRemoveFront(box)
	}
}
