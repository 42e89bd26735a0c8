package cw

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// LifecycleState is the Generator's coarse lifecycle.
type LifecycleState int

const (
	StateCreated LifecycleState = iota
	StateRunning
	StateStopped
	StateDeleted
)

// MarkKind distinguishes a dot from a dash for EnqueueMark.
type MarkKind int

const (
	Dot MarkKind = iota
	Dash
)

// LowWaterCallback is invoked on the consumer thread, with every queue
// lock released, when the tone queue's length crosses from above the
// low-water mark to at or below it. It is never invoked for a "forever"
// tone's repeated dequeues, since the length never changes across them.
type LowWaterCallback func(arg any)

// KeyingStateCallback is invoked on the consumer thread whenever the
// engine starts or stops producing an audible tone, so external hardware
// (a PTT line, an oscilloscope trace) can track mark/space transitions.
type KeyingStateCallback func(isMark bool)

// Generator owns a tone queue, timing table, slope table, sample
// synthesizer and audio Sink, and drives a single long-lived consumer
// goroutine that drains the queue and renders audio. It exclusively owns
// everything reachable from it; nothing else may mutate its state
// directly.
type Generator struct {
	queue *toneQueue

	// timingMu guards timing: resync() (called both synchronously from
	// parameter setters and lazily by the consumer loop at a tone
	// boundary) writes it, EnqueueMark and friends read it to stamp new
	// Tone values. Real contention is rare -- parameters change far less
	// often than tones are enqueued -- so a simple mutex, not the
	// producer/consumer condition variables, is enough.
	timingMu sync.RWMutex
	timing   timingTable

	slopes *slopeTable
	synth  *synthesizer
	sink   Sink
	logger *log.Logger

	// Parameters are atomically writable ints so the consumer thread may
	// read them at tone boundaries without taking a lock.
	speedWPM       atomic.Int32
	frequencyHz    atomic.Int32
	volumePercent  atomic.Int32
	gap            atomic.Int32
	weighting      atomic.Int32
	parametersDirty atomic.Bool

	lifecycleMu sync.Mutex
	lifecycle   LifecycleState
	running     atomic.Bool
	degraded    atomic.Bool

	consumerDone chan struct{}

	lowWaterCallback LowWaterCallback
	lowWaterArg      any

	keyingStateCallback KeyingStateCallback
}

// NewGenerator opens sink and constructs a Generator in StateCreated.
// Parameters start at their *_Initial values.
func NewGenerator(sink Sink, device string, logger *log.Logger) (*Generator, error) {
	cfg, err := sink.Open(device)
	if err != nil {
		return nil, fmt.Errorf("cw: opening sink: %w", err)
	}
	if logger == nil {
		logger = NewSessionLogger(os.Stderr)
	}

	g := &Generator{
		queue:     newToneQueue(CapacityMax),
		slopes:    newSlopeTable(cfg.SampleRate),
		synth:     newSynthesizer(cfg.SampleRate, cfg.BufferNSamples, sink),
		sink:      sink,
		logger:    logger,
		lifecycle: StateCreated,
	}
	g.queue.setLowWaterMark(2) // keep this at 2 or higher; see SetLowWaterMark

	g.speedWPM.Store(SpeedInitial)
	g.frequencyHz.Store(FreqInitial)
	g.volumePercent.Store(VolInitial)
	g.gap.Store(GapMin)
	g.weighting.Store(WeightInitial)
	g.parametersDirty.Store(true)
	g.resync()
	g.synth.setVolumePercent(VolInitial)

	return g, nil
}

// SetLowWaterMark configures the queue length threshold that triggers
// LowWaterCallback. Callers should keep this at 2 or higher; a mark of 0
// or 1 can coincide with a forever tone occupying len==1 forever, in
// which case the callback would never fire again.
func (g *Generator) SetLowWaterMark(level int) { g.queue.setLowWaterMark(level) }

// SetLowWaterCallback registers cb to be invoked (with arg) after every
// queue lock has been released, whenever length crosses the low-water
// mark on the way down.
func (g *Generator) SetLowWaterCallback(cb LowWaterCallback, arg any) {
	g.lowWaterCallback = cb
	g.lowWaterArg = arg
}

// SetKeyingStateCallback registers cb to be invoked on every mark/space
// transition the consumer thread renders.
func (g *Generator) SetKeyingStateCallback(cb KeyingStateCallback) {
	g.keyingStateCallback = cb
}

// --- parameter setters -----------------------------------------------

func (g *Generator) SetSpeed(wpm int) error {
	if wpm < SpeedMin || wpm > SpeedMax {
		return fmt.Errorf("%w: speed %d outside [%d,%d]", ErrInvalid, wpm, SpeedMin, SpeedMax)
	}
	g.speedWPM.Store(int32(wpm))
	g.parametersDirty.Store(true)
	g.resync()
	return nil
}

func (g *Generator) SetFrequency(hz int) error {
	if hz < FreqMin || hz > FreqMax {
		return fmt.Errorf("%w: frequency %d outside [%d,%d]", ErrInvalid, hz, FreqMin, FreqMax)
	}
	g.frequencyHz.Store(int32(hz))
	return nil
}

func (g *Generator) SetVolume(pct int) error {
	if pct < VolMin || pct > VolMax {
		return fmt.Errorf("%w: volume %d outside [%d,%d]", ErrInvalid, pct, VolMin, VolMax)
	}
	g.volumePercent.Store(int32(pct))
	g.parametersDirty.Store(true)
	g.resync()
	return nil
}

func (g *Generator) SetGap(gap int) error {
	if gap < GapMin || gap > GapMax {
		return fmt.Errorf("%w: gap %d outside [%d,%d]", ErrInvalid, gap, GapMin, GapMax)
	}
	g.gap.Store(int32(gap))
	g.parametersDirty.Store(true)
	g.resync()
	return nil
}

func (g *Generator) SetWeighting(weighting int) error {
	if weighting < WeightMin || weighting > WeightMax {
		return fmt.Errorf("%w: weighting %d outside [%d,%d]", ErrInvalid, weighting, WeightMin, WeightMax)
	}
	g.weighting.Store(int32(weighting))
	g.parametersDirty.Store(true)
	g.resync()
	return nil
}

func (g *Generator) SetSlope(shape int, lengthUs int32) error {
	return g.slopes.setSlope(shape, lengthUs)
}

// Frequency returns the currently configured tone frequency, used by the
// enqueue layer to stamp new tones.
func (g *Generator) Frequency() int { return int(g.frequencyHz.Load()) }

// resync recomputes the timing table from the current parameters. It is
// called synchronously from every parameter setter, so a freshly set
// speed/gap/weighting is reflected in dot_len immediately, and redundantly
// at a tone boundary in the consumer loop whenever parametersDirty is
// still set, which covers the case of a setter call racing a render in
// flight. timingMu keeps a concurrent EnqueueMark/enqueueSplitSpace read
// from observing a half-updated table.
func (g *Generator) resync() {
	g.timingMu.Lock()
	g.timing.sync(int(g.speedWPM.Load()), int(g.gap.Load()), int(g.weighting.Load()))
	g.timingMu.Unlock()

	g.synth.setVolumePercent(int(g.volumePercent.Load()))
	g.parametersDirty.Store(false)
}

// DerivedTiming returns the current dot, dash, end-of-character and
// end-of-word gap durations in microseconds, as derived from the
// generator's speed/gap/weighting parameters.
func (g *Generator) DerivedTiming() (dotUs, dashUs, eocUs, eowUs int32) {
	t := g.timingSnapshot()
	return t.dotLen, t.dashLen, t.eocAdditional, t.eowAdditional
}

// timingSnapshot returns a copy of the current timing table under a read
// lock, for callers (EnqueueMark and friends, the iambic keyer) that need
// several related fields without racing a concurrent resync.
func (g *Generator) timingSnapshot() timingTable {
	g.timingMu.RLock()
	defer g.timingMu.RUnlock()
	return g.timing
}

// --- lifecycle ----------------------------------------------------------

// Start spawns the consumer goroutine. It is an error to Start twice.
func (g *Generator) Start() error {
	g.lifecycleMu.Lock()
	defer g.lifecycleMu.Unlock()

	if g.lifecycle != StateCreated && g.lifecycle != StateStopped {
		return fmt.Errorf("%w: generator not in a startable state", ErrBusy)
	}
	g.lifecycle = StateRunning
	g.running.Store(true)
	g.consumerDone = make(chan struct{})

	go g.run()
	return nil
}

// Stop requests the consumer to finish the tone currently in flight and
// return; it then joins that goroutine. A consumer parked on an empty
// queue is released directly rather than through a sentinel tone, since a
// zero-duration tone is dropped silently on enqueue and would never reach
// the queue to wake anyone. A consumer stuck redelivering a forever tone
// (a straight key or paddle held down) is released by flush, which clears
// the forever tone out from under it so the next waitNonEmpty/dequeue
// pass observes an empty, running==false queue and returns.
func (g *Generator) Stop() error {
	g.lifecycleMu.Lock()
	if g.lifecycle != StateRunning {
		g.lifecycleMu.Unlock()
		return fmt.Errorf("%w: generator not running", ErrBusy)
	}
	g.lifecycleMu.Unlock()

	g.running.Store(false)
	g.queue.flush()
	g.queue.wake()
	<-g.consumerDone

	g.lifecycleMu.Lock()
	g.lifecycle = StateStopped
	g.lifecycleMu.Unlock()
	return nil
}

// Delete releases the sink. The caller must ensure no consumer goroutine
// is alive (i.e. Stop has returned) and that no key still references this
// generator; that ordering is a caller error, not one the core can detect
// on its own since a key's back-reference to its generator is non-owning.
func (g *Generator) Delete() error {
	g.lifecycleMu.Lock()
	defer g.lifecycleMu.Unlock()
	if g.lifecycle == StateRunning {
		return fmt.Errorf("%w: delete called while running", ErrBusy)
	}
	g.lifecycle = StateDeleted
	return g.sink.Close()
}

// Degraded reports whether the consumer thread has hit a sink error and
// is running in a degraded mode (dropping tones rather than crashing).
func (g *Generator) Degraded() bool { return g.degraded.Load() }

// run is the consumer goroutine body: wait while idle, dequeue, resync
// timing if dirty, synthesize, write, repeat.
func (g *Generator) run() {
	defer close(g.consumerDone)

	// keyed is the mark/space state last reported to keyingStateCallback;
	// the engine starts silent.
	keyed := false
	for {
		g.queue.waitNonEmpty()
		if !g.running.Load() && g.queue.length() == 0 {
			_ = g.synth.flushPartialBlock()
			return
		}

		res := g.queue.dequeue()
		if !res.ok {
			if !g.running.Load() {
				_ = g.synth.flushPartialBlock()
				return
			}
			continue
		}

		if g.parametersDirty.Load() {
			g.resync()
		}

		if isMark := res.tone.FrequencyHz != 0 && res.tone.DurationUs != 0; isMark != keyed {
			keyed = isMark
			if g.keyingStateCallback != nil {
				g.keyingStateCallback(isMark)
			}
		}

		if err := g.synth.renderTone(res.tone, g.slopes); err != nil {
			g.degraded.Store(true)
			g.logger.Error("sink write failed, dropping tone", "err", err)
			g.synth.phaseOffset = 0
			g.synth.subStart = 0
		}

		if res.fireLowWater && g.lowWaterCallback != nil {
			g.lowWaterCallback(g.lowWaterArg)
		}
	}
}
