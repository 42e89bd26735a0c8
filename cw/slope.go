package cw

import "math"

// SlopeShape selects the envelope curve applied across a slope table's
// ramp region.
type SlopeShape int

const (
	ShapeLinear SlopeShape = iota
	ShapeRaisedCosine
	ShapeSine
	ShapeRectangular
)

// slopeNoChange is the sentinel setSlope uses for either argument: -1
// means "leave that field as it is".
const slopeNoChange = -1

// slopeTable holds precomputed envelope amplitudes for one edge of a
// tone's ramp; falling edges reuse the same table read backward.
type slopeTable struct {
	shape      SlopeShape
	lengthUs   int32
	sampleRate int
	amplitudes []float32
}

func newSlopeTable(sampleRate int) *slopeTable {
	st := &slopeTable{shape: ShapeStandardDefault(), lengthUs: 5000, sampleRate: sampleRate}
	st.recompute()
	return st
}

// ShapeStandardDefault is the shape newSlopeTable starts with: a short
// (5 ms) raised-cosine ramp, the least clicky of the available shapes and the
// one unixcw-derived engines default to.
func ShapeStandardDefault() SlopeShape { return ShapeRaisedCosine }

// setSlope applies the following validation and update contract:
//
//   - Rectangular with length > 0 is invalid (rectangular has no ramp).
//   - length == -1 and shape == -1 (slopeNoChange) is a no-op.
//   - length == -1 with a concrete shape updates the shape only.
//   - shape == -1 with a concrete length updates the length only, except
//     that a currently-Rectangular table forces length back to 0.
//   - any other non-rectangular shape with length == 0 is valid; such a
//     table has no ramp cells, so tone edges step straight to full
//     amplitude.
func (st *slopeTable) setSlope(shape int, lengthUs int32) error {
	if shape == slopeNoChange && lengthUs == slopeNoChange {
		return nil
	}

	if shape != slopeNoChange && SlopeShape(shape) == ShapeRectangular && lengthUs != slopeNoChange && lengthUs > 0 {
		return ErrInvalid
	}

	newShape := st.shape
	newLength := st.lengthUs

	if shape != slopeNoChange {
		newShape = SlopeShape(shape)
	}
	if lengthUs != slopeNoChange {
		newLength = lengthUs
	}
	if newShape == ShapeRectangular {
		newLength = 0
	}

	st.shape = newShape
	st.lengthUs = newLength
	st.recompute()
	return nil
}

// recompute rebuilds amplitudes from shape and lengthUs. n is the number
// of ramp cells implied by lengthUs at the table's sample rate.
func (st *slopeTable) recompute() {
	if st.shape == ShapeRectangular || st.lengthUs <= 0 {
		st.amplitudes = nil
		return
	}

	n := int(int64(st.lengthUs) * int64(st.sampleRate) / 1_000_000)
	if n < 2 {
		st.amplitudes = nil
		return
	}

	amps := make([]float32, n)
	switch st.shape {
	case ShapeLinear:
		for i := 0; i < n; i++ {
			amps[i] = float32(i) / float32(n-1)
		}
	case ShapeRaisedCosine:
		for i := 0; i < n; i++ {
			amps[i] = float32((1 - math.Cos(math.Pi*float64(i)/float64(n-1))) / 2)
		}
	case ShapeSine:
		for i := 0; i < n; i++ {
			amps[i] = float32(math.Sin(math.Pi * float64(i) / (2 * float64(n-1))))
		}
	}
	st.amplitudes = amps
}

// envelopeAt returns the envelope multiplier for sample index k (0-based)
// within a tone of nSamples total, given the tone's slope mode. Outside
// the ramp region the envelope is the identity, 1.0.
func (st *slopeTable) envelopeAt(k, nSamples int, mode SlopeMode) float32 {
	n := len(st.amplitudes)
	if n == 0 || mode == SlopeNone {
		return 1.0
	}
	if n > nSamples/2 {
		n = nSamples / 2
	}

	if (mode == SlopeRising || mode == SlopeStandard) && k < n {
		return st.amplitudes[k]
	}
	if (mode == SlopeFalling || mode == SlopeStandard) && k >= nSamples-n {
		return st.amplitudes[nSamples-1-k]
	}
	return 1.0
}
