package cw

// StraightKey models a simple two-state telegraph key: closed (tone on)
// or open (silence). It holds a non-owning reference to a Generator;
// destroying the generator while a key still references it is a caller
// error the key cannot itself detect.
type StraightKey struct {
	gen    *Generator
	closed bool
}

// NewStraightKey returns a key driving gen.
func NewStraightKey(gen *Generator) *StraightKey {
	return &StraightKey{gen: gen}
}

// SetKeyDown transitions the key. down == true closes the contact and
// enqueues a forever carrier tone; down == false opens it and enqueues a
// forever silence. Calling with the key's current state is a no-op.
func (k *StraightKey) SetKeyDown(down bool) error {
	if down == k.closed {
		return nil
	}
	k.closed = down
	if down {
		return k.gen.EnqueueBeginMark()
	}
	return k.gen.EnqueueBeginSpace()
}

// IsKeyDown reports the key's last commanded state.
func (k *StraightKey) IsKeyDown() bool { return k.closed }
