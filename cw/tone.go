package cw

import "fmt"

// Package cw is a Morse code signal engine: it turns characters, prosigns
// and raw dot/dash representations into precisely timed audio tones
// rendered through a Sink, and classifies timestamped keying edges back
// into characters by way of Receiver.

// Public parameter limits. Part of the wire contract: callers rely on
// these, so they are exported constants rather than internal defaults.
const (
	SpeedMin     = 4
	SpeedMax     = 60
	SpeedInitial = 12

	FreqMin     = 0
	FreqMax     = 4000
	FreqInitial = 800

	VolMin     = 0
	VolMax     = 100
	VolInitial = 70

	GapMin = 0
	GapMax = 60

	WeightMin     = 20
	WeightMax     = 80
	WeightInitial = 50

	TolMin     = 0
	TolMax     = 90
	TolInitial = 50
)

// CapacityMax is the default fixed capacity of a tone queue.
const CapacityMax = 3000

// Forever is the sentinel duration meaning "the consumer shall keep
// redelivering this tone until another tone is enqueued behind it".
const Forever = -1

// SlopeMode selects which edge of a tone's envelope, if any, ramps rather
// than steps.
type SlopeMode int

const (
	SlopeNone SlopeMode = iota
	SlopeRising
	SlopeFalling
	SlopeStandard // both rising and falling
)

// Tone is an immutable description of one tone to be synthesized. Once
// enqueued it is never mutated; it lives only inside the queue and by
// value on the consumer's stack.
type Tone struct {
	FrequencyHz int
	DurationUs  int32
	Slope       SlopeMode
	IsFirst     bool // marks the first tone of a character, for Backspace
	IsForever   bool
}

// validate checks frequency and duration are in range. duration == 0 is
// valid on its own; the queue drops it silently on enqueue rather than
// treating it as an error.
func (t Tone) validate() error {
	if t.FrequencyHz < FreqMin || t.FrequencyHz > FreqMax {
		return fmt.Errorf("%w: frequency %d outside [%d,%d]", ErrInvalid, t.FrequencyHz, FreqMin, FreqMax)
	}
	if t.DurationUs < 0 && !t.IsForever {
		return fmt.Errorf("%w: negative duration %d", ErrInvalid, t.DurationUs)
	}
	return nil
}
