// Package null implements a cw.Sink that discards every block. It exists
// so the generator's consumer goroutine can run in tests and headless
// tools without real audio hardware -- a drop-in backend used purely to
// exercise the pipeline.
package null

import "github.com/n1qm/gocw/cw"

// Sink discards all written samples.
type Sink struct {
	SampleRate     int
	BufferNSamples int

	written int
}

// New returns a null sink with the given negotiated parameters. Typical
// values mirror a consumer sound card: 44100 Hz, 256-sample blocks.
func New(sampleRate, bufferNSamples int) *Sink {
	return &Sink{SampleRate: sampleRate, BufferNSamples: bufferNSamples}
}

func (s *Sink) Open(string) (cw.SinkConfig, error) {
	return cw.SinkConfig{SampleRate: s.SampleRate, BufferNSamples: s.BufferNSamples}, nil
}

func (s *Sink) WriteBlock(samples []int16) error {
	s.written += len(samples)
	return nil
}

func (s *Sink) Close() error { return nil }

func (s *Sink) IsPossible(string) bool { return true }

// BlocksWritten reports how many blocks WriteBlock has accepted, useful
// in tests asserting the consumer thread actually ran.
func (s *Sink) BlocksWritten() int {
	if s.BufferNSamples == 0 {
		return 0
	}
	return s.written / s.BufferNSamples
}
