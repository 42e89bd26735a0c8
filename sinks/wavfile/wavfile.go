// Package wavfile implements a cw.Sink that renders to a standard 16-bit
// PCM mono WAV file, letting a generated Morse session be captured for
// offline playback or analysis.
package wavfile

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/n1qm/gocw/cw"
)

const (
	sampleRate     = 44100
	bufferNSamples = 256
	bitsPerSample  = 16
	numChannels    = 1
)

// Sink writes frames to a WAV file at Path, filling in the RIFF/data
// chunk sizes on Close once the final sample count is known.
type Sink struct {
	Path string

	f            *os.File
	dataBytes    uint32
	headerLength int64
}

// New returns a wavfile sink that will write to path on Open.
func New(path string) *Sink {
	return &Sink{Path: path}
}

func (s *Sink) Open(device string) (cw.SinkConfig, error) {
	path := s.Path
	if device != "" {
		path = device
	}
	f, err := os.Create(path)
	if err != nil {
		return cw.SinkConfig{}, fmt.Errorf("cw/wavfile: creating %s: %w", path, err)
	}
	s.f = f
	s.Path = path

	if err := s.writeHeader(0); err != nil {
		f.Close()
		return cw.SinkConfig{}, err
	}
	pos, err := f.Seek(0, os.SEEK_CUR)
	if err != nil {
		return cw.SinkConfig{}, fmt.Errorf("%w: %v", cw.ErrSink, err)
	}
	s.headerLength = pos

	return cw.SinkConfig{SampleRate: sampleRate, BufferNSamples: bufferNSamples}, nil
}

func (s *Sink) writeHeader(dataBytes uint32) error {
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	write := func(v any) error { return binary.Write(s.f, binary.LittleEndian, v) }

	if _, err := s.f.WriteString("RIFF"); err != nil {
		return fmt.Errorf("%w: %v", cw.ErrSink, err)
	}
	if err := write(uint32(36 + dataBytes)); err != nil {
		return fmt.Errorf("%w: %v", cw.ErrSink, err)
	}
	if _, err := s.f.WriteString("WAVE"); err != nil {
		return fmt.Errorf("%w: %v", cw.ErrSink, err)
	}
	if _, err := s.f.WriteString("fmt "); err != nil {
		return fmt.Errorf("%w: %v", cw.ErrSink, err)
	}
	for _, v := range []any{
		uint32(16), uint16(1), uint16(numChannels), uint32(sampleRate),
		uint32(byteRate), uint16(blockAlign), uint16(bitsPerSample),
	} {
		if err := write(v); err != nil {
			return fmt.Errorf("%w: %v", cw.ErrSink, err)
		}
	}
	if _, err := s.f.WriteString("data"); err != nil {
		return fmt.Errorf("%w: %v", cw.ErrSink, err)
	}
	return write(dataBytes)
}

func (s *Sink) WriteBlock(samples []int16) error {
	if err := binary.Write(s.f, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("%w: %v", cw.ErrSink, err)
	}
	s.dataBytes += uint32(len(samples) * 2)
	return nil
}

// Close rewrites the header with the final byte counts and closes the
// file.
func (s *Sink) Close() error {
	if _, err := s.f.Seek(0, os.SEEK_SET); err != nil {
		return fmt.Errorf("%w: %v", cw.ErrSink, err)
	}
	if err := s.writeHeader(s.dataBytes); err != nil {
		return err
	}
	return s.f.Close()
}

func (s *Sink) IsPossible(device string) bool {
	path := s.Path
	if device != "" {
		path = device
	}
	return path != ""
}
