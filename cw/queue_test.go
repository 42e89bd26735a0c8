package cw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FIFO order is preserved across a run of enqueues and dequeues, and
// dequeuing past the tail returns ok=false without touching length.
func TestToneQueueFIFOAndEmptyReturns(t *testing.T) {
	q := newToneQueue(CapacityMax)

	for i := 0; i < 30; i++ {
		err := q.enqueue(Tone{FrequencyHz: i, DurationUs: 20_000, Slope: SlopeStandard})
		require.NoError(t, err)
	}

	for i := 0; i < 30; i++ {
		res := q.dequeue()
		require.True(t, res.ok)
		assert.Equal(t, i, res.tone.FrequencyHz)
	}

	res := q.dequeue()
	assert.False(t, res.ok)

	res = q.dequeue()
	assert.False(t, res.ok)
	assert.Equal(t, 0, q.length())
}

// A forever tone stays at the head and keeps returning the same value on
// every dequeue until something else is enqueued behind it.
func TestToneQueueForeverToneRepeatsUntilSuperseded(t *testing.T) {
	q := newToneQueue(CapacityMax)

	t1 := Tone{FrequencyHz: 800, DurationUs: 100_000, IsForever: true}
	require.NoError(t, q.enqueue(t1))

	for i := 0; i < 5; i++ {
		res := q.dequeue()
		require.True(t, res.ok)
		assert.Equal(t, t1, res.tone)
		assert.Equal(t, 1, q.length())
	}

	t2 := Tone{FrequencyHz: 0, DurationUs: 50_000}
	require.NoError(t, q.enqueue(t2))

	res := q.dequeue()
	require.True(t, res.ok)
	assert.Equal(t, t1, res.tone)

	res = q.dequeue()
	require.True(t, res.ok)
	assert.Equal(t, t2, res.tone)

	res = q.dequeue()
	assert.False(t, res.ok)
}

// backspace cuts back to the most recent IsFirst-marked tone and reports
// false once nothing further back carries that marker.
func TestToneQueueBackspaceBoundary(t *testing.T) {
	q := newToneQueue(CapacityMax)

	enqueueA := func() {
		require.NoError(t, q.enqueue(Tone{FrequencyHz: 800, DurationUs: 60_000, Slope: SlopeStandard, IsFirst: true}))
		require.NoError(t, q.enqueue(Tone{FrequencyHz: 0, DurationUs: 20_000}))
		require.NoError(t, q.enqueue(Tone{FrequencyHz: 800, DurationUs: 180_000, Slope: SlopeStandard}))
		require.NoError(t, q.enqueue(Tone{FrequencyHz: 0, DurationUs: 20_000}))
	}

	enqueueA()
	assert.Equal(t, 4, q.length())

	assert.True(t, q.backspace())
	assert.Equal(t, 0, q.length())

	enqueueA()
	assert.Equal(t, 4, q.length())

	res := q.dequeue()
	require.True(t, res.ok)
	assert.Equal(t, 3, q.length())

	assert.False(t, q.backspace())
	assert.Equal(t, 3, q.length())
}

// The low-water callback fires exactly once, at the crossing from above
// the mark to at-or-below it, not on every dequeue below the mark.
func TestToneQueueLowWaterCallback(t *testing.T) {
	q := newToneQueue(30)
	q.setLowWaterMark(5)

	for i := 0; i < 20; i++ {
		require.NoError(t, q.enqueue(Tone{FrequencyHz: 800, DurationUs: 40_000, Slope: SlopeStandard}))
	}

	fired := 0
	var firedAtLen int
	for {
		res := q.dequeue()
		if !res.ok {
			break
		}
		if res.fireLowWater {
			fired++
			firedAtLen = q.length()
		}
	}

	assert.Equal(t, 1, fired)
	assert.Contains(t, []int{4, 5}, firedAtLen)
}

// A zero-duration tone is accepted and dropped, leaving len unchanged.
func TestToneQueueZeroDurationDropped(t *testing.T) {
	q := newToneQueue(CapacityMax)
	require.NoError(t, q.enqueue(Tone{FrequencyHz: 800, DurationUs: 0}))
	assert.Equal(t, 0, q.length())
}

func TestToneQueueInvalidFrequency(t *testing.T) {
	q := newToneQueue(CapacityMax)
	err := q.enqueue(Tone{FrequencyHz: FreqMax + 1, DurationUs: 1000})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestToneQueueFull(t *testing.T) {
	q := newToneQueue(2)
	require.NoError(t, q.enqueue(Tone{FrequencyHz: 800, DurationUs: 1000}))
	require.NoError(t, q.enqueue(Tone{FrequencyHz: 800, DurationUs: 1000}))
	err := q.enqueue(Tone{FrequencyHz: 800, DurationUs: 1000})
	assert.ErrorIs(t, err, ErrFull)
}

func TestToneQueueFlush(t *testing.T) {
	q := newToneQueue(CapacityMax)
	for i := 0; i < 5; i++ {
		require.NoError(t, q.enqueue(Tone{FrequencyHz: 800, DurationUs: 1000}))
	}
	q.flush()
	assert.Equal(t, 0, q.length())
}
