package cw

import (
	"testing"

	"pgregory.net/rapid"
)

// TestToneQueueFIFOProperty checks FIFO order, length bookkeeping, and
// backspace's cut-point selection against randomized sequences of
// enqueue/dequeue/backspace/flush calls, rather than a single hand-traced
// scenario.
func TestToneQueueFIFOProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 64).Draw(rt, "capacity")
		q := newToneQueue(capacity)

		var model []Tone
		ops := rapid.IntRange(1, 200).Draw(rt, "numOps")

		for i := 0; i < ops; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0: // enqueue
				tone := Tone{
					FrequencyHz: rapid.IntRange(0, FreqMax).Draw(rt, "freq"),
					DurationUs:  rapid.Int32Range(1, 1_000_000).Draw(rt, "dur"),
					Slope:       SlopeStandard,
					IsFirst:     rapid.Bool().Draw(rt, "first"),
				}
				err := q.enqueue(tone)
				if err == nil {
					model = append(model, tone)
				} else if err != ErrFull {
					rt.Fatalf("unexpected enqueue error: %v", err)
				}

			case 1: // dequeue
				res := q.dequeue()
				if len(model) == 0 {
					if res.ok {
						rt.Fatalf("dequeue succeeded on an empty model queue")
					}
					continue
				}
				if !res.ok {
					rt.Fatalf("dequeue failed on a nonempty model queue")
				}
				if res.tone != model[0] {
					rt.Fatalf("dequeue returned %+v, model head is %+v", res.tone, model[0])
				}
				model = model[1:]

			case 2: // backspace
				cut := -1
				for i := len(model) - 1; i >= 0; i-- {
					if model[i].IsFirst {
						cut = i
						break
					}
				}
				ok := q.backspace()
				if cut < 0 {
					if ok {
						rt.Fatalf("backspace succeeded with no IsFirst tone in the model")
					}
				} else {
					if !ok {
						rt.Fatalf("backspace failed with an IsFirst tone present")
					}
					model = model[:cut]
				}

			case 3: // flush
				q.flush()
				model = nil
			}

			if q.length() != len(model) {
				rt.Fatalf("length mismatch: queue=%d model=%d", q.length(), len(model))
			}
		}
	})
}
