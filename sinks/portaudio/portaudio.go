// Package portaudio implements a cw.Sink over a real-time PortAudio output
// stream, for sounding tones through the default system audio device.
package portaudio

import (
	"fmt"
	"sync"

	pa "github.com/gordonklaus/portaudio"

	"github.com/n1qm/gocw/cw"
)

const (
	sampleRate     = 44100
	bufferNSamples = 256
)

var initOnce sync.Once
var initErr error

// Sink writes blocks to the default output device's default output
// stream. Device is accepted for interface conformance but PortAudio's
// device selection by name is left to a future DeviceIndex field; "" and
// any other value both select the host default.
type Sink struct {
	stream *pa.Stream
	buf    []int16
}

// New returns a PortAudio-backed sink. Call Open before use.
func New() *Sink { return &Sink{} }

func (s *Sink) Open(device string) (cw.SinkConfig, error) {
	initOnce.Do(func() { initErr = pa.Initialize() })
	if initErr != nil {
		return cw.SinkConfig{}, fmt.Errorf("%w: portaudio init: %v", cw.ErrSink, initErr)
	}

	s.buf = make([]int16, bufferNSamples)
	stream, err := pa.OpenDefaultStream(0, 1, float64(sampleRate), len(s.buf), &s.buf)
	if err != nil {
		return cw.SinkConfig{}, fmt.Errorf("%w: opening default stream: %v", cw.ErrSink, err)
	}
	if err := stream.Start(); err != nil {
		return cw.SinkConfig{}, fmt.Errorf("%w: starting stream: %v", cw.ErrSink, err)
	}
	s.stream = stream

	return cw.SinkConfig{SampleRate: sampleRate, BufferNSamples: bufferNSamples}, nil
}

func (s *Sink) WriteBlock(samples []int16) error {
	if len(samples) != len(s.buf) {
		return fmt.Errorf("%w: portaudio: block size %d != negotiated %d", cw.ErrInvalid, len(samples), len(s.buf))
	}
	copy(s.buf, samples)
	if err := s.stream.Write(); err != nil {
		return fmt.Errorf("%w: stream write: %v", cw.ErrSink, err)
	}
	return nil
}

func (s *Sink) Close() error {
	if s.stream == nil {
		return nil
	}
	if err := s.stream.Stop(); err != nil {
		return fmt.Errorf("%w: stopping stream: %v", cw.ErrSink, err)
	}
	return s.stream.Close()
}

// IsPossible reports whether PortAudio can be initialized at all; it does
// not guarantee a later Open will succeed (the device may vanish between
// the probe and the open).
func (s *Sink) IsPossible(device string) bool {
	initOnce.Do(func() { initErr = pa.Initialize() })
	return initErr == nil
}
