// Package hamlib implements a cw.Sink that keys a transceiver's CW line
// through rigctld instead of rendering audio, for operators sending into
// a real radio rather than a sidetone speaker.
//
// A rig's keying line only has two states, on or off -- there is no
// audio waveform to render -- so WriteBlock collapses each tone's whole
// duration into a single PTT/keying transition rather than writing
// per-sample frames the way sinks/wavfile and sinks/portaudio do.
package hamlib

import (
	"fmt"

	hl "github.com/xylo04/goHamlib"

	"github.com/n1qm/gocw/cw"
)

// Sink keys rig's CW line via rigctld at Address. Model selects the
// Hamlib rig backend (e.g. hl.RIG_MODEL_NETRIGCTL for a rigctld proxy).
type Sink struct {
	Model   int
	Address string

	rig    *hl.Rig
	keyed  bool
	device string
}

// New returns a hamlib-backed sink targeting model at address (host:port
// for rigctld, or a serial device path for a direct model).
func New(model int, address string) *Sink {
	return &Sink{Model: model, Address: address}
}

func (s *Sink) Open(device string) (cw.SinkConfig, error) {
	addr := s.Address
	if device != "" {
		addr = device
	}
	s.device = addr

	rig, err := hl.RigOpen(s.Model, addr)
	if err != nil {
		return cw.SinkConfig{}, fmt.Errorf("%w: opening rig at %s: %v", cw.ErrSink, addr, err)
	}
	s.rig = rig

	// With a single-sample "block", WriteBlock sees every rendered sample
	// and only touches the rig when the on/off state changes; this sink
	// cares about the edge, not the waveform.
	return cw.SinkConfig{SampleRate: 8000, BufferNSamples: 1}, nil
}

func (s *Sink) WriteBlock(samples []int16) error {
	isMark := false
	for _, v := range samples {
		if v != 0 {
			isMark = true
			break
		}
	}
	if isMark == s.keyed {
		return nil
	}
	s.keyed = isMark
	if err := s.rig.SetPTT(hl.VFOCurr, s.keyed); err != nil {
		return fmt.Errorf("%w: keying rig: %v", cw.ErrSink, err)
	}
	return nil
}

func (s *Sink) Close() error {
	if s.rig == nil {
		return nil
	}
	_ = s.rig.SetPTT(hl.VFOCurr, false)
	return s.rig.Close()
}

// IsPossible probes whether address answers at all, without keying
// anything.
func (s *Sink) IsPossible(device string) bool {
	addr := s.Address
	if device != "" {
		addr = device
	}
	rig, err := hl.RigOpen(s.Model, addr)
	if err != nil {
		return false
	}
	rig.Close()
	return true
}
