// Command cwkey runs the hardware key driver against a live generator,
// logging keying-state transitions through github.com/charmbracelet/log.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/n1qm/gocw/cw"
	"github.com/n1qm/gocw/hwkey"
	"github.com/n1qm/gocw/sinks/portaudio"
)

func main() {
	var (
		chip     = pflag.String("chip", "/dev/gpiochip0", "gpiochar device")
		keyLine  = pflag.Int("key-line", 17, "GPIO offset for a straight key")
		iambic   = pflag.Bool("iambic", false, "use an iambic paddle instead of a straight key")
		dotLine  = pflag.Int("dot-line", 17, "GPIO offset for the dot paddle")
		dashLine = pflag.Int("dash-line", 27, "GPIO offset for the dash paddle")
		curtisB  = pflag.Bool("curtis-b", false, "use Curtis mode B paddle latching")
		speed    = pflag.IntP("speed", "s", cw.SpeedInitial, "speed in words per minute")
	)
	pflag.Parse()

	logger := cw.NewSessionLogger(os.Stderr)

	sink := portaudio.New()
	gen, err := cw.NewGenerator(sink, "", logger)
	if err != nil {
		logger.Fatal("creating generator", "err", err)
	}
	if err := gen.SetSpeed(*speed); err != nil {
		logger.Fatal("speed", "err", err)
	}
	gen.SetKeyingStateCallback(func(isMark bool) {
		logger.Info("keying", "mark", isMark)
	})
	if err := gen.Start(); err != nil {
		logger.Fatal("starting generator", "err", err)
	}
	defer gen.Delete() //nolint:errcheck

	if *iambic {
		keyer := cw.NewIambicKeyer(gen, *curtisB)
		defer keyer.Close()
		driver := hwkey.NewIambicPaddleDriver(*chip, *dotLine, *dashLine, keyer)
		if err := driver.Start(); err != nil {
			logger.Fatal("starting paddle driver", "err", err)
		}
		defer driver.Close() //nolint:errcheck
	} else {
		key := cw.NewStraightKey(gen)
		driver := hwkey.NewStraightKeyDriver(*chip, *keyLine, key)
		if err := driver.Start(); err != nil {
			logger.Fatal("starting key driver", "err", err)
		}
		defer driver.Close() //nolint:errcheck
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	if err := gen.Stop(); err != nil {
		logger.Error("stopping generator", "err", err)
	}
}
