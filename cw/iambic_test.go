package cw_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n1qm/gocw/cw"
	"github.com/n1qm/gocw/sinks/null"
)

func newKeyerTestGenerator(t *testing.T) *cw.Generator {
	t.Helper()
	sink := null.New(8000, 64)
	gen, err := cw.NewGenerator(sink, "", nil)
	require.NoError(t, err)
	require.NoError(t, gen.SetSpeed(60)) // fast timing keeps the test quick
	return gen
}

func TestIambicKeyerSingleDotPaddle(t *testing.T) {
	gen := newKeyerTestGenerator(t)
	keyer := cw.NewIambicKeyer(gen, false)
	defer keyer.Close()

	require.NoError(t, keyer.NotifyPaddleEvent(true, false))
	assert.Equal(t, cw.KSInDotA, keyer.State())
	assert.Equal(t, 2, gen.QueueLength()) // dot tone + mark-space

	require.NoError(t, keyer.NotifyPaddleEvent(false, false))

	require.Eventually(t, func() bool {
		return keyer.State() == cw.KSIdle
	}, 2*time.Second, 5*time.Millisecond)
}

func TestIambicKeyerSqueezeAlternatesStartingWithDot(t *testing.T) {
	gen := newKeyerTestGenerator(t)
	keyer := cw.NewIambicKeyer(gen, false)
	defer keyer.Close()

	require.NoError(t, keyer.NotifyPaddleEvent(true, true))
	assert.Equal(t, cw.KSInDotA, keyer.State())

	require.Eventually(t, func() bool {
		return keyer.State() == cw.KSInDashA
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, keyer.NotifyPaddleEvent(false, false))
	require.Eventually(t, func() bool {
		return keyer.State() == cw.KSIdle
	}, 2*time.Second, 5*time.Millisecond)
}

func TestIambicKeyerCurtisModeBSendsTrailingOpposite(t *testing.T) {
	gen := newKeyerTestGenerator(t)
	keyer := cw.NewIambicKeyer(gen, true)
	defer keyer.Close()

	require.NoError(t, keyer.NotifyPaddleEvent(true, true))
	assert.Equal(t, cw.KSInDotB, keyer.State())

	// Release both paddles mid-dot; mode B's trailing-opposite latch
	// should still queue one more element (a dash) before going Idle.
	require.NoError(t, keyer.NotifyPaddleEvent(false, false))

	require.Eventually(t, func() bool {
		return keyer.State() == cw.KSInDashB
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return keyer.State() == cw.KSIdle
	}, 2*time.Second, 5*time.Millisecond)
}

func TestIambicKeyerModeASkipsTrailingOpposite(t *testing.T) {
	gen := newKeyerTestGenerator(t)
	keyer := cw.NewIambicKeyer(gen, false)
	defer keyer.Close()

	require.NoError(t, keyer.NotifyPaddleEvent(true, true))
	require.NoError(t, keyer.NotifyPaddleEvent(false, false))

	require.Eventually(t, func() bool {
		return keyer.State() == cw.KSIdle
	}, 2*time.Second, 5*time.Millisecond)

	// Mode A never latches a trailing opposite element once both paddles
	// release, unlike mode B: only the dot and its mark-space were queued.
	assert.Equal(t, 2, gen.QueueLength())
}

func TestIambicKeyerSetCurtisModeB(t *testing.T) {
	gen := newKeyerTestGenerator(t)
	keyer := cw.NewIambicKeyer(gen, false)
	defer keyer.Close()

	keyer.SetCurtisModeB(true)
	require.NoError(t, keyer.NotifyPaddleEvent(true, true))
	assert.Equal(t, cw.KSInDotB, keyer.State())
}
