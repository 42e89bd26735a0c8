package cw

import (
	"fmt"
	"math"
)

// synthesizer renders one dequeued Tone into signed-16 PCM samples,
// writing fixed-size blocks to a Sink as they fill. Phase is carried
// continuously across tones of identical frequency so consecutive tones
// join without a click; a change to frequency 0 (silence) resets phase.
//
// Phase advances in floating-point radians rather than a fixed-point tick
// counter, since the envelope shapes need float precision a table lookup
// can't offer.
type synthesizer struct {
	sampleRate      int
	bufferNSamples  int
	volumeAbs       float64 // 0..32767 scale derived from volumePercent
	phaseOffset     float64
	lastFrequencyHz int

	block    []int16
	subStart int

	sink Sink
}

func newSynthesizer(sampleRate, bufferNSamples int, sink Sink) *synthesizer {
	return &synthesizer{
		sampleRate:     sampleRate,
		bufferNSamples: bufferNSamples,
		block:          make([]int16, bufferNSamples),
		sink:           sink,
	}
}

func (s *synthesizer) setVolumePercent(pct int) {
	s.volumeAbs = 32767.0 * float64(pct) / 100.0
}

// quantumLenUs is the fragment size used to synthesize a "forever" tone,
// letting a freshly enqueued tone preempt it promptly rather than waiting
// out some large fixed duration.
const quantumLenUs = 100

// renderTone synthesizes one tone and writes completed blocks to the sink.
// A "forever" tone is rendered one quantumLenUs quantum per call. slopes
// supplies the envelope for the tone's Slope mode; silent tones are
// written as zeros without an envelope.
func (s *synthesizer) renderTone(t Tone, slopes *slopeTable) error {
	durationUs := t.DurationUs
	if t.IsForever {
		durationUs = quantumLenUs
	}

	nSamples := int(int64(durationUs) * int64(s.sampleRate) / 1_000_000)
	if t.IsForever && nSamples < 1 {
		// At low sample rates a quantum this short can round to zero
		// samples; floor it at one so a held key still advances phase and
		// reaches the sink instead of stalling silently.
		nSamples = 1
	}
	if nSamples <= 0 {
		return nil
	}

	if t.FrequencyHz != s.lastFrequencyHz {
		if t.FrequencyHz == 0 {
			s.phaseOffset = 0
		}
		s.lastFrequencyHz = t.FrequencyHz
	}

	omega := 2 * math.Pi * float64(t.FrequencyHz) / float64(s.sampleRate)

	for k := 0; k < nSamples; k++ {
		envelope := float32(1.0)
		if t.FrequencyHz != 0 {
			envelope = slopes.envelopeAt(k, nSamples, t.Slope)
		}

		var sample int16
		if t.FrequencyHz != 0 {
			v := s.volumeAbs * float64(envelope) * math.Sin(s.phaseOffset)
			sample = clip16(math.Round(v))
		}

		s.block[s.subStart] = sample
		s.subStart++

		if t.FrequencyHz != 0 {
			s.phaseOffset += omega
			if s.phaseOffset >= 2*math.Pi {
				s.phaseOffset -= 2 * math.Pi
			}
		}

		if s.subStart == s.bufferNSamples {
			if err := s.sink.WriteBlock(s.block); err != nil {
				return fmt.Errorf("%w: %v", ErrSink, err)
			}
			s.subStart = 0
		}
	}
	return nil
}

// flushPartialBlock drains any partially-filled block (zero-padding the
// remainder) to the sink. Used on stop so the engine never silently drops
// samples already committed to the current buffer.
func (s *synthesizer) flushPartialBlock() error {
	if s.subStart == 0 {
		return nil
	}
	for i := s.subStart; i < s.bufferNSamples; i++ {
		s.block[i] = 0
	}
	err := s.sink.WriteBlock(s.block)
	s.subStart = 0
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSink, err)
	}
	return nil
}

func clip16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
