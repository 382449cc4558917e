package bystander

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCas always resolves the same way; used to drive helpOp through
// its phases deterministically in isolation from any real algorithm.
type scriptedCas struct{ ok bool }

func (c scriptedCas) Execute() bool { return c.ok }

// scriptedAlgo lets a test control exactly what Generator/WrapUp decide,
// and counts how many times each is invoked.
type scriptedAlgo struct {
	generatorCalls int
	wrapUpCalls    int
	list           CasList
	retryOnce      bool
	output         string
}

func (a *scriptedAlgo) Generator(_ int, _ *ContentionMeasure) CasList {
	a.generatorCalls++
	return a.list
}

func (a *scriptedAlgo) WrapUp(outcome Outcome, _ CasList, _ *ContentionMeasure) (string, bool) {
	a.wrapUpCalls++
	if a.retryOnce {
		a.retryOnce = false
		return "", true
	}
	if !outcome.Ok {
		return "", true
	}
	return a.output, false
}

func TestHelpOp_DrivesPreCasToExecuteCas(t *testing.T) {
	algo := &scriptedAlgo{list: CasList{scriptedCas{ok: true}}, output: "done"}
	box := newOperationRecordBox[int, string](1, 0)
	q := newHelpQueue[int, string](4)

	helpOp[int, string](algo, q, box)

	assert.Equal(t, phaseExecuteCas, box.load().phase)
	assert.Equal(t, 1, algo.generatorCalls)
}

func TestHelpOp_DrivesExecuteCasToPostCas(t *testing.T) {
	algo := &scriptedAlgo{list: CasList{scriptedCas{ok: true}}, output: "done"}
	box := newOperationRecordBox[int, string](1, 0)
	q := newHelpQueue[int, string](4)

	helpOp[int, string](algo, q, box) // PreCas -> ExecuteCas
	helpOp[int, string](algo, q, box) // ExecuteCas -> PostCas

	rec := box.load()
	assert.Equal(t, phasePostCas, rec.phase)
	assert.True(t, rec.outcome.Ok)
}

func TestHelpOp_DrivesPostCasToCompleted(t *testing.T) {
	algo := &scriptedAlgo{list: CasList{scriptedCas{ok: true}}, output: "done"}
	box := newOperationRecordBox[int, string](1, 0)
	q := newHelpQueue[int, string](4)

	helpOp[int, string](algo, q, box) // PreCas -> ExecuteCas
	helpOp[int, string](algo, q, box) // ExecuteCas -> PostCas
	helpOp[int, string](algo, q, box) // PostCas -> Completed

	out, ok := box.completedOutput()
	require.True(t, ok)
	assert.Equal(t, "done", out)
}

func TestHelpOp_PostCasRetryRegressesToPreCas(t *testing.T) {
	algo := &scriptedAlgo{list: CasList{scriptedCas{ok: true}}, output: "done", retryOnce: true}
	box := newOperationRecordBox[int, string](1, 0)
	q := newHelpQueue[int, string](4)

	helpOp[int, string](algo, q, box) // PreCas -> ExecuteCas
	helpOp[int, string](algo, q, box) // ExecuteCas -> PostCas
	helpOp[int, string](algo, q, box) // PostCas -> PreCas (retry)

	assert.Equal(t, phasePreCas, box.load().phase)

	helpOp[int, string](algo, q, box) // PreCas -> ExecuteCas (fresh attempt)
	helpOp[int, string](algo, q, box) // ExecuteCas -> PostCas
	helpOp[int, string](algo, q, box) // PostCas -> Completed

	out, ok := box.completedOutput()
	require.True(t, ok)
	assert.Equal(t, "done", out)
	assert.Equal(t, 2, algo.generatorCalls, "retry must re-invoke Generator fresh, with no memory of the discarded list")
}

func TestHelpOp_CompletedRemovesFromQueueFront(t *testing.T) {
	algo := &scriptedAlgo{list: CasList{scriptedCas{ok: true}}, output: "done"}
	box := newOperationRecordBox[int, string](1, 0)
	q := newHelpQueue[int, string](4)
	q.enqueue(box)

	helpOp[int, string](algo, q, box) // PreCas -> ExecuteCas
	helpOp[int, string](algo, q, box) // ExecuteCas -> PostCas
	helpOp[int, string](algo, q, box) // PostCas -> Completed

	require.Equal(t, phaseCompleted, box.load().phase)
	assert.NotNil(t, q.peek(), "box is still linked until a Completed help_op call removes it")

	helpOp[int, string](algo, q, box) // Completed -> try_remove_front

	assert.Nil(t, q.peek())
}

func TestHelpOp_IsIdempotentOnAlreadyResolvedPhase(t *testing.T) {
	algo := &scriptedAlgo{list: CasList{scriptedCas{ok: true}}, output: "done"}
	box := newOperationRecordBox[int, string](1, 0)
	q := newHelpQueue[int, string](4)

	staleView := box.load() // PreCas, as seen before any help_op call
	helpOp[int, string](algo, q, box)
	require.Equal(t, phaseExecuteCas, box.load().phase)

	// a second helper racing on the now-superseded PreCas view must not
	// be able to install a candidate built against it.
	stale := executeCas[int, string](1, CasList{})
	assert.False(t, box.tryAdvance(staleView, stale))
	assert.Equal(t, phaseExecuteCas, box.load().phase)
}
