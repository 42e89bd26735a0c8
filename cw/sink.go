package cw

// SinkConfig is the negotiated result of opening a Sink: the sample rate
// and block size the generator must render to.
type SinkConfig struct {
	SampleRate     int
	BufferNSamples int
}

// Sink is the generator's only view of audio output. Concrete backends
// (PortAudio, a WAV file, a rig's keying line over Hamlib, or a "null"
// sink for tests) live outside this package and are selected by the
// caller at Generator construction time; the core never chooses or
// enumerates them.
type Sink interface {
	// Open negotiates a configuration with the backend. device is
	// backend-specific (a path, a host API name, "" for the default).
	Open(device string) (SinkConfig, error)

	// WriteBlock writes exactly one buffer of BufferNSamples signed-16 PCM
	// samples. It blocks until accepted and returns an error on underrun.
	WriteBlock(samples []int16) error

	// Close releases the backend.
	Close() error

	// IsPossible is a pre-flight probe: can this backend plausibly open
	// device without actually opening it.
	IsPossible(device string) bool
}
