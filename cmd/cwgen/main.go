// Command cwgen sends text as timed Morse tones to a selectable sink.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/n1qm/gocw/cw"
	"github.com/n1qm/gocw/sinks/hamlib"
	"github.com/n1qm/gocw/sinks/null"
	"github.com/n1qm/gocw/sinks/portaudio"
	"github.com/n1qm/gocw/sinks/wavfile"
)

func main() {
	var (
		speed     = pflag.IntP("speed", "s", cw.SpeedInitial, "speed in words per minute")
		frequency = pflag.IntP("frequency", "f", cw.FreqInitial, "tone frequency in Hz")
		volume    = pflag.IntP("volume", "v", cw.VolInitial, "volume percent")
		gap       = pflag.IntP("gap", "g", cw.GapMin, "Farnsworth gap, in dot-lengths")
		weighting = pflag.IntP("weighting", "w", cw.WeightInitial, "mark/space weighting percent")
		device    = pflag.StringP("device", "d", "null", "sink: null|wav|portaudio|hamlib")
		out       = pflag.StringP("out", "o", "out.wav", "output path for --device=wav")
		rigAddr   = pflag.String("rig", "localhost:4532", "rigctld address for --device=hamlib")
	)
	pflag.Parse()

	logger := cw.NewSessionLogger(os.Stderr)

	sink, err := openSink(*device, *out, *rigAddr)
	if err != nil {
		logger.Fatal("opening sink", "err", err)
	}

	gen, err := cw.NewGenerator(sink, "", logger)
	if err != nil {
		logger.Fatal("creating generator", "err", err)
	}
	if err := gen.SetSpeed(*speed); err != nil {
		logger.Fatal("speed", "err", err)
	}
	if err := gen.SetFrequency(*frequency); err != nil {
		logger.Fatal("frequency", "err", err)
	}
	if err := gen.SetVolume(*volume); err != nil {
		logger.Fatal("volume", "err", err)
	}
	if err := gen.SetGap(*gap); err != nil {
		logger.Fatal("gap", "err", err)
	}
	if err := gen.SetWeighting(*weighting); err != nil {
		logger.Fatal("weighting", "err", err)
	}

	if err := gen.Start(); err != nil {
		logger.Fatal("starting generator", "err", err)
	}

	text := readInput(pflag.Args())
	if err := gen.EnqueueString(text); err != nil {
		logger.Error("enqueue stopped early", "err", err)
	}
	gen.WaitForQueueLevel(0)

	if err := gen.Stop(); err != nil {
		logger.Error("stopping generator", "err", err)
	}
	if err := gen.Delete(); err != nil {
		logger.Error("closing sink", "err", err)
	}
}

func openSink(device, out, rigAddr string) (cw.Sink, error) {
	switch device {
	case "", "null":
		return null.New(8000, 256), nil
	case "wav":
		return wavfile.New(out), nil
	case "portaudio":
		return portaudio.New(), nil
	case "hamlib":
		return hamlib.New(2, rigAddr), nil
	default:
		return nil, fmt.Errorf("unknown device %q", device)
	}
}

func readInput(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return ""
	}
	return string(data)
}
