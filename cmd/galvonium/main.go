// Command galvonium runs the controller core on the host: command lines
// on stdin, replies on stdout, the sample clock feeding a simulated DAC.
// With -trace every emitted sample is printed, which is the quickest way
// to see what the galvos would draw.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charliebeadle/galvonium/command"
	"github.com/charliebeadle/galvonium/config"
	"github.com/charliebeadle/galvonium/debug"
	"github.com/charliebeadle/galvonium/galvo"
	"github.com/charliebeadle/galvonium/hw"
	"github.com/charliebeadle/galvonium/protocol"
	"github.com/charliebeadle/galvonium/render"
)

var (
	configPath = flag.String("config", "galvonium.yml", "YAML config file path")
	eepromPath = flag.String("eeprom", "galvonium.eeprom", "EEPROM image file path")
	ppsFlag    = flag.Int("pps", 0, "Override sample rate (points per second)")
	trace      = flag.Bool("trace", false, "Start with the sample trace on (FLAGS trace toggles it)")
	verbose    = flag.Bool("verbose", false, "Enable verbose diagnostics")
	mkconf     = flag.Bool("mkconf", false, "Write a default config file and exit")
)

func main() {
	flag.Parse()

	logger := log.New(os.Stderr, "galvonium: ", log.Ltime)
	debug.SetWriter(func(s string) { logger.Println(s) })
	debug.SetVerbose(*verbose)

	if *mkconf {
		if err := config.WriteFile(*configPath, config.Defaults()); err != nil {
			logger.Fatalf("writing %s: %v", *configPath, err)
		}
		fmt.Println("wrote", *configPath)
		return
	}

	params, err := config.LoadFile(*configPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	// The EEPROM image is the device's own state and wins over the
	// host file; a blank or corrupt image is seeded from the file.
	store := &config.FileStore{Path: *eepromPath}
	if stored, err := config.LoadStore(store); err == nil {
		params = stored
	} else {
		debug.Info("eeprom: " + err.Error() + ", seeding from config")
		if err := config.SaveStore(store, &params); err != nil {
			logger.Fatalf("eeprom: %v", err)
		}
	}

	if *ppsFlag > 0 {
		if *ppsFlag > hw.MaxPPS {
			logger.Fatalf("pps %d: out of range", *ppsFlag)
		}
		if err := params.Set("pps", uint16(*ppsFlag)); err != nil {
			logger.Fatalf("pps %d: %v", *ppsFlag, err)
		}
	}

	dac := hw.NewDAC(hw.NopBus{}, hw.NopPin{})
	dac.TraceFn = func(x, y uint16) { fmt.Printf("%03X %03X\n", x, y) }
	dac.Trace = *trace

	ctrl := galvo.New(dac, hw.NewLaser(&hw.TracePin{}))
	if err := ctrl.ApplyParams(&params); err != nil {
		logger.Fatalf("apply config: %v", err)
	}

	proc := command.NewProcessor(ctrl, &params, store)
	poller := command.NewPoller(os.Stdin)

	if err := ctrl.Start(params.PPS); err != nil {
		logger.Fatalf("sample clock: %v", err)
	}
	defer ctrl.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	debug.Info("galvonium " + protocol.Version)
	fmt.Println(protocol.Greeting)

	for {
		select {
		case line, ok := <-poller.C:
			if !ok {
				return
			}
			proc.Execute(line, os.Stdout)

		case <-sig:
			return

		default:
			ctrl.Process()

			// Back off when there is nothing to do: ring full or no
			// frame loaded. The MCU spins here; the host should not.
			if ctrl.Renderer.StepSpace() == 0 || ctrl.Renderer.State() == render.IdleEmpty {
				time.Sleep(100 * time.Microsecond)
			}
		}
	}
}
