// Command cwdecode reads lines of "<mark|space> <duration_us>" from
// stdin -- the kind of edge log a hardware keyer or an audio envelope
// detector would emit -- and drives cw.Receiver, printing decoded
// characters as they cross a character or word boundary.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/n1qm/gocw/cw"
)

func main() {
	var (
		speed     = pflag.IntP("speed", "s", cw.SpeedInitial, "initial speed estimate, WPM")
		tolerance = pflag.IntP("tolerance", "t", cw.TolInitial, "percent tolerance")
		adaptive  = pflag.Bool("adaptive", true, "adapt speed estimate from observed marks")
	)
	pflag.Parse()

	logger := cw.NewSessionLogger(os.Stderr)

	rx := cw.NewReceiver(*speed, *adaptive)
	if err := rx.SetTolerance(*tolerance); err != nil {
		logger.Fatal("tolerance", "err", err)
	}

	var ts int64
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		durUs, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			logger.Warn("skipping malformed line", "line", scanner.Text())
			continue
		}

		switch fields[0] {
		case "mark":
			if err := rx.MarkBegin(ts); err != nil {
				logger.Warn("mark begin", "err", err)
			}
			ts += durUs
			if err := rx.MarkEnd(ts); err != nil {
				logger.Warn("mark end", "err", err)
			}
		case "space":
			ts += durUs
		default:
			continue
		}

		if res, err := rx.PollCharacter(ts); err == nil {
			printResult(res)
		}
	}
}

func printResult(res cw.PollResult) {
	switch {
	case !res.CharOK:
		fmt.Printf("? (%s)", res.Representation)
	case res.Char == ' ':
		fmt.Print(" ")
	default:
		fmt.Printf("%c", res.Char)
	}
	if res.EndOfWord {
		fmt.Print(" ")
	}
	if res.IsError {
		fmt.Fprint(os.Stderr, "!")
	}
}
