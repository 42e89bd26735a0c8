package cw_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n1qm/gocw/cw"
	"github.com/n1qm/gocw/sinks/null"
)

func newTestGenerator(t *testing.T) (*cw.Generator, *null.Sink) {
	t.Helper()
	sink := null.New(8000, 64)
	gen, err := cw.NewGenerator(sink, "", nil)
	require.NoError(t, err)
	return gen, sink
}

// Timing derivation at the Generator level, 20 WPM / gap 0 / weighting 50.
func TestTimingDerivation(t *testing.T) {
	gen, _ := newTestGenerator(t)
	require.NoError(t, gen.SetSpeed(20))
	require.NoError(t, gen.SetWeighting(50))
	require.NoError(t, gen.SetGap(0))

	require.NoError(t, gen.Start())
	defer gen.Stop() //nolint:errcheck

	require.NoError(t, gen.EnqueueMark(cw.Dot, true))
	gen.WaitForQueueLevel(0)

	dot, dash, eoc, eow := gen.DerivedTiming()
	assert.InDelta(t, 60_000, dot, 1)
	assert.InDelta(t, 180_000, dash, 1)
	assert.InDelta(t, 120_000, eoc, 1)
	assert.InDelta(t, 300_000, eow, 1)
}

func TestParameterValidation(t *testing.T) {
	gen, _ := newTestGenerator(t)

	assert.ErrorIs(t, gen.SetSpeed(cw.SpeedMin-1), cw.ErrInvalid)
	assert.ErrorIs(t, gen.SetSpeed(cw.SpeedMax+1), cw.ErrInvalid)
	assert.NoError(t, gen.SetSpeed(cw.SpeedMin))
	assert.NoError(t, gen.SetSpeed(cw.SpeedMax))

	assert.ErrorIs(t, gen.SetFrequency(cw.FreqMax+1), cw.ErrInvalid)
	assert.ErrorIs(t, gen.SetVolume(-1), cw.ErrInvalid)
	assert.ErrorIs(t, gen.SetGap(cw.GapMax+1), cw.ErrInvalid)
	assert.ErrorIs(t, gen.SetWeighting(cw.WeightMin-1), cw.ErrInvalid)
}

func TestEnqueueCharacterAndBackspace(t *testing.T) {
	gen, _ := newTestGenerator(t)
	require.NoError(t, gen.SetSpeed(20))

	require.NoError(t, gen.EnqueueCharacter('A'))
	assert.Equal(t, 4+3, gen.QueueLength()) // dot,space,dash,space + 3-tone eoc space

	assert.True(t, gen.Backspace())
	assert.Equal(t, 0, gen.QueueLength())
}

func TestEnqueueCharacterInvalid(t *testing.T) {
	gen, _ := newTestGenerator(t)
	err := gen.EnqueueCharacter('#')
	assert.ErrorIs(t, err, cw.ErrInvalid)
	assert.Equal(t, 0, gen.QueueLength())
}

func TestEnqueueStringStopsOnFailure(t *testing.T) {
	gen, _ := newTestGenerator(t)
	err := gen.EnqueueString("HI#THERE")
	assert.ErrorIs(t, err, cw.ErrInvalid)
	assert.Greater(t, gen.QueueLength(), 0)
}

func TestStartStopDrains(t *testing.T) {
	gen, sink := newTestGenerator(t)
	require.NoError(t, gen.SetSpeed(60))
	require.NoError(t, gen.Start())

	require.NoError(t, gen.EnqueueString("E"))
	gen.WaitForQueueLevel(0)
	require.NoError(t, gen.Stop())

	assert.Greater(t, sink.BlocksWritten(), 0)
}

// Slope rules, the Generator-facing contract.
func TestSlopeRules(t *testing.T) {
	gen, _ := newTestGenerator(t)

	err := gen.SetSlope(int(cw.ShapeRectangular), 10)
	assert.ErrorIs(t, err, cw.ErrInvalid)

	require.NoError(t, gen.SetSlope(int(cw.ShapeLinear), 0))
	require.NoError(t, gen.SetSlope(-1, -1))
	require.NoError(t, gen.SetSlope(int(cw.ShapeRectangular), -1))
}

func TestKeyingStateCallback(t *testing.T) {
	gen, _ := newTestGenerator(t)
	require.NoError(t, gen.SetSpeed(60))

	var transitions []bool
	gen.SetKeyingStateCallback(func(isMark bool) {
		transitions = append(transitions, isMark)
	})

	require.NoError(t, gen.Start())
	require.NoError(t, gen.EnqueueCharacter('E'))
	gen.WaitForQueueLevel(0)
	require.NoError(t, gen.Stop())

	require.NotEmpty(t, transitions)
	assert.True(t, transitions[0])
}

func TestLowWaterCallbackFiresOnDrain(t *testing.T) {
	gen, _ := newTestGenerator(t)
	require.NoError(t, gen.SetSpeed(60))
	gen.SetLowWaterMark(2)

	done := make(chan struct{}, 1)
	gen.SetLowWaterCallback(func(any) {
		select {
		case done <- struct{}{}:
		default:
		}
	}, nil)

	require.NoError(t, gen.Start())
	require.NoError(t, gen.EnqueueString("HELLO"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("low water callback never fired")
	}
	require.NoError(t, gen.Stop())
}
