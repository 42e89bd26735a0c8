package cw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A representation decoded from timestamped edges at 60 WPM / 35%
// tolerance, "--.-" == 'Q'. The durations alternate mark, inter-element
// space, mark, ..., ending in the trailing end-of-character gap.
func TestReceiverDecodesRepresentationQAtSixtyWPM(t *testing.T) {
	r := NewReceiver(60, false)
	require.NoError(t, r.SetTolerance(35))

	durations := []int64{63456, 20111, 63456, 20111, 23456, 20111, 63456, 60111}

	var ts int64
	for i, d := range durations {
		if i%2 == 0 {
			require.NoError(t, r.MarkBegin(ts))
			ts += d
			require.NoError(t, r.MarkEnd(ts))
		} else {
			ts += d
		}
	}

	res, err := r.PollRepresentation(ts)
	require.NoError(t, err)
	assert.Equal(t, "--.-", res.Representation)
	assert.False(t, res.IsError)
	assert.False(t, res.EndOfWord)
}

func TestReceiverPollCharacterLooksUpTable(t *testing.T) {
	r := NewReceiver(20, false)

	// 'E' is a single dot.
	require.NoError(t, r.MarkBegin(0))
	require.NoError(t, r.MarkEnd(60_000))

	res, err := r.PollCharacter(60_000 + int64(r.eocThresholdUs()) + 1000)
	require.NoError(t, err)
	assert.True(t, res.CharOK)
	assert.Equal(t, 'E', res.Char)
}

func TestReceiverPollBeforeThresholdReturnsNotReady(t *testing.T) {
	r := NewReceiver(20, false)
	require.NoError(t, r.MarkBegin(0))
	require.NoError(t, r.MarkEnd(60_000))

	_, err := r.PollRepresentation(60_000 + 1000)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestReceiverMarkBeginTwiceIsBusy(t *testing.T) {
	r := NewReceiver(20, false)
	require.NoError(t, r.MarkBegin(0))
	err := r.MarkBegin(1000)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestReceiverNoiseSpikeDiscarded(t *testing.T) {
	r := NewReceiver(20, false)
	r.SetNoiseSpikeThreshold(5000)

	require.NoError(t, r.MarkBegin(0))
	require.NoError(t, r.MarkEnd(500)) // well under the noise threshold

	assert.Empty(t, r.repr)
}

func TestReceiverAdaptiveSpeedTracksFasterSending(t *testing.T) {
	r := NewReceiver(20, true)

	// Feed several dots at 40 WPM (30_000us unit) and expect the speed
	// estimate to climb toward 40.
	for i := 0; i < 5; i++ {
		base := int64(i * 100_000)
		require.NoError(t, r.MarkBegin(base))
		require.NoError(t, r.MarkEnd(base+30_000))
	}

	assert.Greater(t, r.SpeedEstimate(), 20)
}

func TestReceiverToleranceValidation(t *testing.T) {
	r := NewReceiver(20, false)
	assert.ErrorIs(t, r.SetTolerance(TolMin-1), ErrInvalid)
	assert.ErrorIs(t, r.SetTolerance(TolMax+1), ErrInvalid)
	assert.NoError(t, r.SetTolerance(TolMin))
	assert.NoError(t, r.SetTolerance(TolMax))
}
