// Command telltemp receives sensor broadcasts from a Tellstick temperature
// and humidity transceiver and prints them, logs them to a CSV file and/or
// publishes them to MQTT.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkarlsson/telltemp/pkg/config"
	"github.com/mkarlsson/telltemp/pkg/handler"
	"github.com/mkarlsson/telltemp/pkg/heartbeat"
	"github.com/mkarlsson/telltemp/pkg/output"
	"github.com/mkarlsson/telltemp/pkg/output/csvfile"
	"github.com/mkarlsson/telltemp/pkg/output/mqtt"
	"github.com/mkarlsson/telltemp/pkg/telldus"
)

const pollInterval = 500 * time.Millisecond

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	core, err := newCore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer core.Close()

	if cfg.List {
		if err := listSensors(core, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			core.Close()
			os.Exit(1)
		}
		return
	}

	outputs, err := buildOutputs(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		core.Close()
		os.Exit(1)
	}
	defer closeOutputs(outputs)

	var hb *heartbeat.Heartbeat
	if cfg.Heartbeat {
		hb = heartbeat.New(os.Stdout)
	}
	h := handler.New(outputs, hb, cfg.Sensors, cfg.Silent, cfg.Verbose, os.Stdout)

	runLoop(core, h)
}

// newCore selects the transceiver backend: a real Tellstick when a serial
// device is configured, the simulated one otherwise.
func newCore(cfg config.Config) (telldus.Core, error) {
	if cfg.Device != "" {
		return telldus.NewSerialCore(cfg.Device, cfg.Verbose)
	}
	return telldus.NewFakeCore(0), nil
}

// buildOutputs assembles the configured sinks. Selecting the SQLite log
// type or failing to open the logfile is fatal to the caller.
func buildOutputs(cfg config.Config) ([]output.Output, error) {
	if cfg.Logtype == config.LogtypeSQLite {
		_, err := output.NewSQLite(cfg.Logfile, cfg.Overwrite)
		return nil, err
	}

	var outputs []output.Output
	if cfg.Logfile != "" {
		o, err := csvfile.New(cfg.Logfile, cfg.Overwrite)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, o)
	}
	if cfg.MQTT != nil && cfg.MQTT.Server != "" {
		o, err := mqtt.New(*cfg.MQTT)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, o)
	}
	return outputs, nil
}

func closeOutputs(outputs []output.Output) {
	for _, o := range outputs {
		if err := o.Close(); err != nil {
			log.Printf("close output: %v", err)
		}
	}
}

// runLoop drains the transceiver's event queue every poll tick until an
// interrupt arrives. Cleanup runs exactly once; a second interrupt gets
// the default handling and kills the process.
func runLoop(core telldus.Core, h *handler.SensorEventHandler) {
	core.RegisterSensorEvent(h.HandleSensorEvent)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sig:
			signal.Stop(sig)
			h.HandleExit()
			return
		case <-ticker.C:
			core.ProcessPendingCallbacks()
			h.HandleLoop()
		}
	}
}
