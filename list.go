package main

import (
	"fmt"
	"io"
	"time"

	"github.com/mkarlsson/telltemp/pkg/sensor"
	"github.com/mkarlsson/telltemp/pkg/telldus"
)

// listSensors prints a table of the known sensors and their cached values.
// Sensors with neither a temperature nor a humidity value are omitted.
func listSensors(core telldus.Core, w io.Writer) error {
	sensors, err := core.Sensors()
	if err != nil {
		return fmt.Errorf("list sensors: %w", err)
	}

	fmt.Fprintf(w, "Number of sensors: %d\n\n", len(sensors))
	fmt.Fprintf(w, "%-5s %-15s %-22s %-8s %-8s %s\n",
		"ID", "PROTOCOL", "MODEL", "TEMP", "HUMIDITY", "LAST UPDATED")

	for _, s := range sensors {
		var temperature, humidity string
		var timestamp int64
		if v, ok := s.Value(sensor.DatatypeTemperature); ok {
			temperature = v.Value
			timestamp = v.Timestamp
		}
		if v, ok := s.Value(sensor.DatatypeHumidity); ok {
			humidity = v.Value
			if timestamp == 0 {
				timestamp = v.Timestamp
			}
		}
		if temperature == "" && humidity == "" {
			continue
		}
		fmt.Fprintf(w, "%-5d %-15s %-22s %-9s%-9s%s\n",
			s.ID, s.Protocol, s.Model, temperature, humidity,
			time.Unix(timestamp, 0).Format("2006-01-02 15:04:05"))
	}
	return nil
}
