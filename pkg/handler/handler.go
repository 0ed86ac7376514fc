// Package handler gates incoming sensor events and fans them out to the
// console and the configured outputs.
package handler

import (
	"fmt"
	"io"
	"log"

	"github.com/mkarlsson/telltemp/pkg/heartbeat"
	"github.com/mkarlsson/telltemp/pkg/output"
	"github.com/mkarlsson/telltemp/pkg/sensor"
)

type SensorEventHandler struct {
	outputs   []output.Output
	heartbeat *heartbeat.Heartbeat
	sensors   map[int]bool
	silent    bool
	verbose   bool
	console   io.Writer
}

// New builds a handler. sensorIDs is the allowlist; empty means accept
// all. heartbeat may be nil.
func New(outputs []output.Output, hb *heartbeat.Heartbeat, sensorIDs []int, silent, verbose bool, console io.Writer) *SensorEventHandler {
	allow := make(map[int]bool, len(sensorIDs))
	for _, id := range sensorIDs {
		allow[id] = true
	}
	return &SensorEventHandler{
		outputs:   outputs,
		heartbeat: hb,
		sensors:   allow,
		silent:    silent,
		verbose:   verbose,
		console:   console,
	}
}

// HandleSensorEvent prints and logs a reading if its sensor passes the
// allowlist. Filtered readings only produce a notice in verbose mode.
func (h *SensorEventHandler) HandleSensorEvent(d sensor.Data) {
	if len(h.sensors) == 0 || h.sensors[d.ID] {
		h.printSensorData(d)
		for _, o := range h.outputs {
			if err := o.Publish(d); err != nil {
				log.Printf("output error: %v", err)
			}
		}
	} else if h.verbose {
		fmt.Fprintf(h.console, "Ignoring sensor with ID %d\n", d.ID)
	}
}

func (h *SensorEventHandler) printSensorData(d sensor.Data) {
	if h.silent {
		return
	}
	if h.heartbeat != nil {
		h.heartbeat.Erase()
	}
	fmt.Fprintln(h.console, d)
	if h.heartbeat != nil {
		// the line above overwrote the glyph; don't backspace into it
		h.heartbeat.DontFlush()
	}
}

// HandleLoop runs once per poll tick.
func (h *SensorEventHandler) HandleLoop() {
	if h.heartbeat != nil {
		h.heartbeat.PrintOutput()
	}
}

// HandleExit runs once on interrupt.
func (h *SensorEventHandler) HandleExit() {
	if h.heartbeat != nil {
		h.heartbeat.CleanUp()
	}
}
