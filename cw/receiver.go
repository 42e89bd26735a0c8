package cw

import (
	"fmt"
	"math"

	"github.com/n1qm/gocw/table"
)

// ReceiverState is the receiver's coarse classification state.
type ReceiverState int

const (
	RxIdle ReceiverState = iota
	RxInMark
	RxAfterMark
	RxInSpace
	RxEndOfCharacter
	RxEndOfWord
	RxError
)

// ReceiveStatistics reports the receiver's adaptive-speed accumulator
// state, mirroring unixcw-derived cw_get_receive_statistics.
type ReceiveStatistics struct {
	DotAverageUs   float64
	DotStdDevUs    float64
	DashAverageUs  float64
	DashStdDevUs   float64
	SpeedEstimate  int
}

// runningStat accumulates a running mean and variance (Welford's method)
// for one mark kind's duration, used both to report statistics and, in
// adaptive mode, to re-estimate speed.
type runningStat struct {
	count int
	mean  float64
	m2    float64
}

func (s *runningStat) add(x float64) {
	s.count++
	delta := x - s.mean
	s.mean += delta / float64(s.count)
	delta2 := x - s.mean
	s.m2 += delta * delta2
}

func (s *runningStat) stddev() float64 {
	if s.count < 2 {
		return 0
	}
	return math.Sqrt(s.m2 / float64(s.count))
}

// Receiver is a streaming classifier that turns timestamped keying edges
// (in microseconds, on whatever monotonic clock the caller uses) into
// dots, dashes, and character/word boundaries, tracking an adaptive speed
// estimate. It consumes timed edges only and classifies them into
// dots, dashes and gaps, with no dependency on how the edges were obtained.
type Receiver struct {
	adaptive   bool
	toleranceP int // percent, TolMin..TolMax

	speedWPM int // current estimate, clamped to [SpeedMin,SpeedMax]

	noiseSpikeThresholdUs int32

	markBeginTs int64
	inMark      bool

	lastEdgeTs int64
	haveEdge   bool

	dotStat  runningStat
	dashStat runningStat

	repr    []byte
	isError bool
}

// NewReceiver returns a Receiver seeded at initialSpeedWPM (clamped to the
// public limits) with adaptive speed tracking optionally enabled.
func NewReceiver(initialSpeedWPM int, adaptive bool) *Receiver {
	if initialSpeedWPM < SpeedMin {
		initialSpeedWPM = SpeedMin
	}
	if initialSpeedWPM > SpeedMax {
		initialSpeedWPM = SpeedMax
	}
	return &Receiver{
		adaptive:              adaptive,
		toleranceP:            TolInitial,
		speedWPM:              initialSpeedWPM,
		noiseSpikeThresholdUs: 1000,
	}
}

// SetTolerance sets the percentage by which the dot/dash and character/
// word boundaries widen. A value outside [TolMin,TolMax] returns
// ErrInvalid and leaves the tolerance unchanged.
func (r *Receiver) SetTolerance(pct int) error {
	if pct < TolMin || pct > TolMax {
		return fmt.Errorf("%w: tolerance %d outside [%d,%d]", ErrInvalid, pct, TolMin, TolMax)
	}
	r.toleranceP = pct
	return nil
}

// SetNoiseSpikeThreshold sets the minimum mark duration (microseconds)
// below which an edge pair is discarded as contact bounce / RF noise.
func (r *Receiver) SetNoiseSpikeThreshold(us int32) { r.noiseSpikeThresholdUs = us }

func (r *Receiver) unitLenUs() float64 { return 1_200_000.0 / float64(r.speedWPM) }
func (r *Receiver) dotLenUs() float64  { return r.unitLenUs() }
func (r *Receiver) dashLenUs() float64 { return 3 * r.unitLenUs() }

func (r *Receiver) widen(base float64) float64 {
	return base * (1 + float64(r.toleranceP)/100)
}

func (r *Receiver) dotDashThresholdUs() float64 { return r.widen(2 * r.dotLenUs()) }
func (r *Receiver) eocThresholdUs() float64     { return r.widen(2 * r.dotLenUs()) }
func (r *Receiver) eowThresholdUs() float64     { return r.widen(5 * r.dotLenUs()) }

// MarkBegin records a falling edge (key/tone start). Returns ErrBusy if a
// mark is already open.
func (r *Receiver) MarkBegin(ts int64) error {
	if r.inMark {
		return fmt.Errorf("%w: mark already in progress", ErrBusy)
	}
	r.markBeginTs = ts
	r.inMark = true
	return nil
}

// MarkEnd records a rising edge (key/tone end), classifying the elapsed
// mark as a dot or dash and appending it to the in-progress
// representation. Marks shorter than the noise-spike threshold are
// discarded entirely (as though neither edge had been seen). Returns
// ErrBusy if no mark is open.
func (r *Receiver) MarkEnd(ts int64) error {
	if !r.inMark {
		return fmt.Errorf("%w: no mark in progress", ErrBusy)
	}
	r.inMark = false
	markUs := ts - r.markBeginTs

	if int32(markUs) < r.noiseSpikeThresholdUs {
		return nil
	}

	threshold := r.dotDashThresholdUs()
	var kind byte
	var expected float64
	if float64(markUs) < threshold {
		kind = '.'
		expected = r.dotLenUs()
	} else {
		kind = '-'
		expected = r.dashLenUs()
	}

	// Flag ambiguous marks -- ones straddling the dot/dash boundary by
	// more than the configured tolerance away from their classified
	// element's expected length -- without discarding them; the caller
	// decides what to do via the is_error flag on the next poll.
	deviationPct := math.Abs(float64(markUs)-expected) / expected * 100
	if deviationPct > float64(r.toleranceP) {
		r.isError = true
	}

	r.recordStat(kind, float64(markUs))
	r.repr = append(r.repr, kind)
	r.lastEdgeTs = ts
	r.haveEdge = true
	return nil
}

// AddMark is a programmatic variant of MarkBegin+MarkEnd that bypasses
// timing: it appends '.'/'-' directly to the current representation,
// e.g. for a caller that already performed its own classification.
func (r *Receiver) AddMark(ts int64, mark byte) error {
	if mark != '.' && mark != '-' {
		return fmt.Errorf("%w: mark must be '.' or '-'", ErrInvalid)
	}
	r.repr = append(r.repr, mark)
	r.lastEdgeTs = ts
	r.haveEdge = true
	return nil
}

func (r *Receiver) recordStat(kind byte, markUs float64) {
	if kind == '.' {
		r.dotStat.add(markUs)
	} else {
		r.dashStat.add(markUs)
	}
	if r.adaptive && r.dotStat.count > 0 {
		estimate := int(math.Round(1_200_000.0 / r.dotStat.mean))
		if estimate < SpeedMin {
			estimate = SpeedMin
		}
		if estimate > SpeedMax {
			estimate = SpeedMax
		}
		r.speedWPM = estimate
	}
}

// PollResult is what PollRepresentation/PollCharacter return once a
// character or word boundary has been crossed.
type PollResult struct {
	Representation string
	Char           rune
	CharOK         bool
	EndOfWord      bool
	IsError        bool
}

// PollRepresentation consults the time elapsed since the last edge and
// returns the accumulated representation once a character or word
// boundary has passed. Returns ErrNotReady before the end-of-character
// threshold.
func (r *Receiver) PollRepresentation(ts int64) (PollResult, error) {
	if !r.haveEdge || r.inMark {
		return PollResult{}, ErrNotReady
	}

	elapsed := float64(ts - r.lastEdgeTs)
	if elapsed < r.eocThresholdUs() {
		return PollResult{}, ErrNotReady
	}

	res := PollResult{
		Representation: string(r.repr),
		EndOfWord:      elapsed >= r.eowThresholdUs(),
		IsError:        r.isError,
	}
	r.repr = nil
	r.haveEdge = false
	r.isError = false
	return res, nil
}

// PollCharacter is PollRepresentation followed by a character-table
// lookup; the result's CharOK is false if the representation has no
// known character.
func (r *Receiver) PollCharacter(ts int64) (PollResult, error) {
	res, err := r.PollRepresentation(ts)
	if err != nil {
		return res, err
	}
	if c, ok := table.CharOf(res.Representation); ok {
		res.Char = c
		res.CharOK = true
	}
	return res, nil
}

// SpeedEstimate returns the receiver's current adaptive (or fixed) speed
// estimate in WPM.
func (r *Receiver) SpeedEstimate() int { return r.speedWPM }

// Statistics reports the running dot/dash averages and standard
// deviations along with the current speed estimate.
func (r *Receiver) Statistics() ReceiveStatistics {
	return ReceiveStatistics{
		DotAverageUs:  r.dotStat.mean,
		DotStdDevUs:   r.dotStat.stddev(),
		DashAverageUs: r.dashStat.mean,
		DashStdDevUs:  r.dashStat.stddev(),
		SpeedEstimate: r.speedWPM,
	}
}
