package cw

import (
	"sync"
	"time"
)

// KeyerState is one state of the iambic keyer's 9-state graph.
type KeyerState int

const (
	KSIdle KeyerState = iota
	KSInDotA
	KSInDashA
	KSAfterDotA
	KSAfterDashA
	KSInDotB
	KSInDashB
	KSAfterDotB
	KSAfterDashB
)

// IambicKeyer is a dual-paddle keyer state machine that enqueues
// alternating dot/dash tones onto a Generator from two paddle booleans,
// honoring Curtis mode A/B latching semantics.
//
// A dedicated goroutine receives paddle-timer expiries over a channel and
// feeds them back into the same mutex-guarded state the paddle-edge
// notifications use, rather than a signal-handler driven timer -- a
// channel can't be torn down mid-delivery the way a condvar broadcast
// racing a handler's own destruction can.
type IambicKeyer struct {
	gen *Generator

	mu           sync.Mutex
	state        KeyerState
	dotPaddle    bool
	dashPaddle   bool
	dotLatch     bool
	dashLatch    bool
	curtisModeB  bool
	curtisBLatch bool
	lastSent     MarkKind
	hasSent      bool
	lastErr      error

	timer       *time.Timer
	timerExpiry chan struct{}
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewIambicKeyer returns a keyer driving gen. curtisModeB selects Curtis
// mode B latching (a simultaneous squeeze queues the opposite element
// even after both paddles release); false selects mode A.
func NewIambicKeyer(gen *Generator, curtisModeB bool) *IambicKeyer {
	k := &IambicKeyer{
		gen:         gen,
		curtisModeB: curtisModeB,
		timerExpiry: make(chan struct{}, 1),
		stop:        make(chan struct{}),
	}
	go k.timerLoop()
	return k
}

// Close stops the keyer's internal timer goroutine. Safe to call more
// than once.
func (k *IambicKeyer) Close() {
	k.stopOnce.Do(func() { close(k.stop) })
}

// State returns the keyer's current graph state.
func (k *IambicKeyer) State() KeyerState {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.state
}

// SetCurtisModeB toggles Curtis mode B latching.
func (k *IambicKeyer) SetCurtisModeB(on bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.curtisModeB = on
}

// LastError returns the most recent error encountered enqueuing a tone
// (e.g. ErrFull), or nil.
func (k *IambicKeyer) LastError() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lastErr
}

// NotifyPaddleEvent reports the current level of both paddles. It is
// edge-sensitive: a false->true transition on either paddle sets that
// paddle's latch, and a transition where both paddles read true sets the
// Curtis-B latch when mode B is enabled. If the machine is Idle, it
// advances immediately.
func (k *IambicKeyer) NotifyPaddleEvent(dot, dash bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if dot && !k.dotPaddle {
		k.dotLatch = true
	}
	if dash && !k.dashPaddle {
		k.dashLatch = true
	}
	if dot && dash && k.curtisModeB {
		k.curtisBLatch = true
	}
	k.dotPaddle = dot
	k.dashPaddle = dash

	if k.state == KSIdle {
		return k.advance()
	}
	return nil
}

func (k *IambicKeyer) timerLoop() {
	for {
		select {
		case <-k.timerExpiry:
			k.mu.Lock()
			k.onTimerExpiry()
			k.mu.Unlock()
		case <-k.stop:
			return
		}
	}
}

func (k *IambicKeyer) scheduleTimer(d time.Duration) {
	if k.timer != nil {
		k.timer.Stop()
	}
	k.timer = time.AfterFunc(d, func() {
		select {
		case k.timerExpiry <- struct{}{}:
		default:
		}
	})
}

// onTimerExpiry fires once the element currently being sent (plus its
// trailing mark-space) has fully elapsed. It transiently occupies the
// corresponding After* state while advance() decides what comes next;
// After* states have no duration of their own, they exist only to pick
// the next transition.
func (k *IambicKeyer) onTimerExpiry() {
	switch k.state {
	case KSInDotA:
		k.state = KSAfterDotA
	case KSInDashA:
		k.state = KSAfterDashA
	case KSInDotB:
		k.state = KSAfterDotB
	case KSInDashB:
		k.state = KSAfterDashB
	default:
		return
	}
	if err := k.advance(); err != nil {
		k.lastErr = err
	}
}

func oppositeOf(kind MarkKind) MarkKind {
	if kind == Dot {
		return Dash
	}
	return Dot
}

func (k *IambicKeyer) latchFor(kind MarkKind) *bool {
	if kind == Dot {
		return &k.dotLatch
	}
	return &k.dashLatch
}

func (k *IambicKeyer) inStateFor(kind MarkKind) KeyerState {
	if k.curtisModeB {
		if kind == Dot {
			return KSInDotB
		}
		return KSInDashB
	}
	if kind == Dot {
		return KSInDotA
	}
	return KSInDashA
}

// send enqueues kind's tone, transitions into its In* state, and
// schedules the timer that will fire onTimerExpiry once the element and
// its trailing mark-space have played out. Called with mu held.
func (k *IambicKeyer) send(kind MarkKind) error {
	k.lastSent = kind
	k.hasSent = true
	k.state = k.inStateFor(kind)

	timing := k.gen.timingSnapshot()
	var elementLen int32
	if kind == Dot {
		elementLen = timing.dotLen
	} else {
		elementLen = timing.dashLen
	}

	if err := k.gen.EnqueueMark(kind, false); err != nil {
		k.lastErr = err
		return err
	}

	total := elementLen + timing.markSpace
	k.scheduleTimer(time.Duration(total) * time.Microsecond)
	return nil
}

// advance picks the next element to send from the current latches and
// paddle levels, preferring the opposite of whatever was just sent if its
// latch is set (the alternating iambic behaviour), then Curtis-B's
// stand-alone opposite-element latch, then whichever paddle is still
// held, and otherwise returns the machine to Idle. Called with mu held.
func (k *IambicKeyer) advance() error {
	if k.state != KSIdle {
		opp := oppositeOf(k.lastSent)
		if *k.latchFor(opp) {
			*k.latchFor(opp) = false
			return k.send(opp)
		}
	}

	// hasSent guards against a fresh squeeze from Idle: both paddles going
	// down together also sets curtisBLatch, but the very first element of
	// a squeeze is chosen by nextOnSqueeze below, not by this latch.
	if k.hasSent && k.curtisBLatch {
		k.curtisBLatch = false
		opp := oppositeOf(k.lastSent)
		*k.latchFor(opp) = false
		return k.send(opp)
	}

	switch {
	case k.dotPaddle && k.dashPaddle:
		k.dotLatch, k.dashLatch = false, false
		return k.send(k.nextOnSqueeze())
	case k.dotPaddle:
		k.dotLatch = false
		return k.send(Dot)
	case k.dashPaddle:
		k.dashLatch = false
		return k.send(Dash)
	default:
		k.state = KSIdle
		k.dotLatch, k.dashLatch = false, false
		return nil
	}
}

// nextOnSqueeze picks which element a fresh squeeze (both paddles held
// simultaneously, with no latch already deciding the next element)
// sends: a dot to start, or the element alternating from whatever was
// last sent.
func (k *IambicKeyer) nextOnSqueeze() MarkKind {
	if !k.hasSent {
		return Dot
	}
	return oppositeOf(k.lastSent)
}
