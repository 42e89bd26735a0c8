// Package hwkey drives the core cw.StraightKey and cw.IambicKeyer state
// machines from physical GPIO lines via github.com/warthog618/go-gpiocdev,
// translating edge events on the key/paddle lines into the keying calls
// those state machines expect.
package hwkey

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/n1qm/gocw/cw"
)

// StraightKeyDriver watches a single GPIO line and toggles a cw.StraightKey
// on every edge. Active-low wiring (grounded contact == key down) is the
// default; set ActiveHigh to invert.
type StraightKeyDriver struct {
	Chip       string
	Offset     int
	ActiveHigh bool

	key  *cw.StraightKey
	line *gpiocdev.Line
}

// NewStraightKeyDriver returns a driver that will key key on edges seen on
// chip/offset once Start is called.
func NewStraightKeyDriver(chip string, offset int, key *cw.StraightKey) *StraightKeyDriver {
	return &StraightKeyDriver{Chip: chip, Offset: offset, key: key}
}

// Start requests the GPIO line and begins delivering edges to key.
func (d *StraightKeyDriver) Start() error {
	line, err := gpiocdev.RequestLine(d.Chip, d.Offset,
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(d.onEvent))
	if err != nil {
		return fmt.Errorf("cw/hwkey: requesting %s:%d: %w", d.Chip, d.Offset, err)
	}
	d.line = line
	return nil
}

func (d *StraightKeyDriver) onEvent(evt gpiocdev.LineEvent) {
	down := evt.Type == gpiocdev.LineEventRisingEdge
	if !d.ActiveHigh {
		down = !down
	}
	_ = d.key.SetKeyDown(down)
}

// Close releases the GPIO line.
func (d *StraightKeyDriver) Close() error {
	if d.line == nil {
		return nil
	}
	return d.line.Close()
}

// IambicPaddleDriver watches two GPIO lines (dot and dash paddles) and
// forwards their combined level to a cw.IambicKeyer on every edge of
// either line.
type IambicPaddleDriver struct {
	Chip             string
	DotOffset        int
	DashOffset       int
	ActiveHigh       bool

	keyer    *cw.IambicKeyer
	dotLine  *gpiocdev.Line
	dashLine *gpiocdev.Line
	dot      bool
	dash     bool
}

// NewIambicPaddleDriver returns a driver feeding keyer from the named GPIO
// lines.
func NewIambicPaddleDriver(chip string, dotOffset, dashOffset int, keyer *cw.IambicKeyer) *IambicPaddleDriver {
	return &IambicPaddleDriver{Chip: chip, DotOffset: dotOffset, DashOffset: dashOffset, keyer: keyer}
}

func (d *IambicPaddleDriver) Start() error {
	dotLine, err := gpiocdev.RequestLine(d.Chip, d.DotOffset,
		gpiocdev.AsInput, gpiocdev.WithBothEdges, gpiocdev.WithEventHandler(d.onDotEvent))
	if err != nil {
		return fmt.Errorf("cw/hwkey: requesting dot line %s:%d: %w", d.Chip, d.DotOffset, err)
	}
	dashLine, err := gpiocdev.RequestLine(d.Chip, d.DashOffset,
		gpiocdev.AsInput, gpiocdev.WithBothEdges, gpiocdev.WithEventHandler(d.onDashEvent))
	if err != nil {
		dotLine.Close()
		return fmt.Errorf("cw/hwkey: requesting dash line %s:%d: %w", d.Chip, d.DashOffset, err)
	}
	d.dotLine, d.dashLine = dotLine, dashLine
	return nil
}

func (d *IambicPaddleDriver) level(evt gpiocdev.LineEvent) bool {
	down := evt.Type == gpiocdev.LineEventRisingEdge
	if !d.ActiveHigh {
		down = !down
	}
	return down
}

func (d *IambicPaddleDriver) onDotEvent(evt gpiocdev.LineEvent) {
	d.dot = d.level(evt)
	_ = d.keyer.NotifyPaddleEvent(d.dot, d.dash)
}

func (d *IambicPaddleDriver) onDashEvent(evt gpiocdev.LineEvent) {
	d.dash = d.level(evt)
	_ = d.keyer.NotifyPaddleEvent(d.dot, d.dash)
}

// Close releases both GPIO lines.
func (d *IambicPaddleDriver) Close() error {
	var err error
	if d.dotLine != nil {
		err = d.dotLine.Close()
	}
	if d.dashLine != nil {
		if cerr := d.dashLine.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
