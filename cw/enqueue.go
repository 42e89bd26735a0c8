package cw

import (
	"fmt"

	"github.com/n1qm/gocw/table"
)

// EnqueueMark enqueues one audible tone (dot or dash length, standard
// slopes) followed by the mandatory inter-element silence. first marks
// the audible tone IsFirst, for later Backspace.
func (g *Generator) EnqueueMark(kind MarkKind, first bool) error {
	freq := g.Frequency()
	timing := g.timingSnapshot()

	var dur int32
	switch kind {
	case Dot:
		dur = timing.dotLen
	case Dash:
		dur = timing.dashLen
	default:
		return fmt.Errorf("%w: unknown mark kind %d", ErrInvalid, kind)
	}

	if err := g.queue.enqueue(Tone{FrequencyHz: freq, DurationUs: dur, Slope: SlopeStandard, IsFirst: first}); err != nil {
		return err
	}
	return g.queue.enqueue(Tone{FrequencyHz: 0, DurationUs: timing.markSpace, Slope: SlopeNone})
}

// EnqueueEOCSpace enqueues three silent tones summing to the additional
// end-of-character gap. Splitting the logical space into three tones
// (rather than one) guarantees a consumer polling at sub-tone intervals
// can observe a low-water-mark-eligible length change partway through the
// gap, rather than only at its very end.
func (g *Generator) EnqueueEOCSpace() error {
	timing := g.timingSnapshot()
	return g.enqueueSplitSpace(timing.eocAdditional + timing.additionalSpaceLen)
}

// EnqueueEOWSpace enqueues three silent tones summing to the additional
// end-of-word gap, for the same reason as EnqueueEOCSpace.
func (g *Generator) EnqueueEOWSpace() error {
	timing := g.timingSnapshot()
	return g.enqueueSplitSpace(timing.eowAdditional + timing.adjustmentSpaceLen)
}

func (g *Generator) enqueueSplitSpace(totalUs int32) error {
	third := totalUs / 3
	remainder := totalUs - 2*third
	for _, d := range [3]int32{third, third, remainder} {
		if err := g.queue.enqueue(Tone{FrequencyHz: 0, DurationUs: d, Slope: SlopeNone}); err != nil {
			return err
		}
	}
	return nil
}

// EnqueueRepresentation enqueues one tone sequence per '.'/'-' rune in
// repr, interleaving the mandatory mark-space that EnqueueMark already
// appends. The first dot/dash is marked IsFirst so a subsequent
// Backspace can remove the whole character.
func (g *Generator) EnqueueRepresentation(repr string) error {
	if repr == "" {
		return fmt.Errorf("%w: empty representation", ErrInvalid)
	}
	for i, r := range repr {
		var kind MarkKind
		switch r {
		case '.':
			kind = Dot
		case '-':
			kind = Dash
		default:
			return fmt.Errorf("%w: representation character %q", ErrInvalid, r)
		}
		if err := g.EnqueueMark(kind, i == 0); err != nil {
			return err
		}
	}
	return nil
}

// EnqueueCharacter looks up c's representation through the character
// table and enqueues it followed by an end-of-character space. ' '
// enqueues only an end-of-word space. '\b' performs Backspace on the
// tone queue. Unrecognised characters return ErrInvalid without
// modifying the queue.
func (g *Generator) EnqueueCharacter(c rune) error {
	switch c {
	case ' ':
		return g.EnqueueEOWSpace()
	case '\b':
		g.queue.backspace()
		return nil
	}

	repr, ok := table.RepresentationOf(c)
	if !ok {
		return fmt.Errorf("%w: character %q has no Morse representation", ErrInvalid, c)
	}
	if err := g.EnqueueRepresentation(repr); err != nil {
		return err
	}
	return g.EnqueueEOCSpace()
}

// EnqueueString enqueues each rune of s via EnqueueCharacter, stopping at
// the first failure. Tones already enqueued before the failing character
// are left intact.
func (g *Generator) EnqueueString(s string) error {
	for _, c := range s {
		if err := g.EnqueueCharacter(c); err != nil {
			return err
		}
	}
	return nil
}

// EnqueueBeginMark enqueues a "forever" carrier-on tone, held until a
// successor tone is enqueued. Used by a straight key while the contact is
// closed.
func (g *Generator) EnqueueBeginMark() error {
	return g.queue.enqueue(Tone{FrequencyHz: g.Frequency(), DurationUs: Forever, Slope: SlopeRising, IsForever: true})
}

// EnqueueBeginSpace enqueues a "forever" silence, held until a successor
// tone is enqueued. Used by a straight key while the contact is open (and
// to terminate a previous EnqueueBeginMark).
func (g *Generator) EnqueueBeginSpace() error {
	return g.queue.enqueue(Tone{FrequencyHz: 0, DurationUs: Forever, Slope: SlopeNone, IsForever: true})
}

// QueueLength reports the tone queue's current length, mostly useful in
// tests and for a producer deciding whether to back off before Full.
func (g *Generator) QueueLength() int { return g.queue.length() }

// WaitForQueueLevel blocks the calling goroutine until the tone queue's
// length is at or below level.
func (g *Generator) WaitForQueueLevel(level int) { g.queue.waitForLevel(level) }

// Flush empties the tone queue immediately.
func (g *Generator) Flush() { g.queue.flush() }

// Backspace removes the most recently enqueued character, provided its
// first tone has not yet been dequeued. Reports whether anything was
// removed.
func (g *Generator) Backspace() bool { return g.queue.backspace() }
