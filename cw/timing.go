package cw

// timingTable holds the derived Morse timing durations, all in
// microseconds, recomputed by sync() whenever the generator's speed, gap
// or weighting parameters change. The base relation is the standard
// unit = 1_200_000 / wpm (µs per dot at the given words-per-minute),
// extended here with every derived intra/inter-character and Farnsworth
// gap a full timing table needs.
type timingTable struct {
	unit int

	dotLen  int32
	dashLen int32

	markSpace int32 // end-of-mark intra-character space, one unit

	eocAdditional int32 // two units; with the trailing mark-space, a 3-unit gap between characters
	eowAdditional int32 // five units, enqueued for ' ' after the previous character's 3-unit gap

	additionalSpaceLen int32 // Farnsworth-style widening, inter-character
	adjustmentSpaceLen int32 // Farnsworth-style widening, inter-word
}

// sync recomputes every derived duration from the three user-facing
// parameters in one step. The generator calls it from every speed, gap,
// volume or weighting setter, and again at a tone boundary in the consumer
// loop whenever parametersDirty is still set.
func (tt *timingTable) sync(speedWPM, gap, weighting int) {
	unit := 1_200_000 / speedWPM
	tt.unit = unit

	dotLen := unit * weighting / 50
	dashLen := 3 * (unit * (100 - weighting) / 50)

	tt.dotLen = int32(dotLen)
	tt.dashLen = int32(dashLen)
	tt.markSpace = int32(unit)
	tt.eocAdditional = int32(2 * unit)
	tt.eowAdditional = int32(5 * unit)

	// Farnsworth timing: gap widens the inter-character and inter-word
	// spacing while dot/dash/mark-space (the "content" of a character)
	// keep running at the full speed implied above.
	additional := gap * unit
	tt.additionalSpaceLen = int32(additional)
	tt.adjustmentSpaceLen = int32(additional * 5 / 2)
}
