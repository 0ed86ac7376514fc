package telldus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mkarlsson/telltemp/pkg/sensor"
)

// The stick frames incoming radio traffic as lines of "key:value;" pairs,
// e.g. +Wclass:sensor;protocol:fineoffset;model:temperaturehumidity;id:135;temp:21.5;humidity:48;
const messagePrefix = "+W"

// parseMessage decodes one line from the stick into sensor events, stamped
// with now. A message carrying both a temperature and a humidity field
// yields two events. Non-sensor traffic (remote control commands and the
// like) yields no events and no error.
func parseMessage(line string, now int64) ([]sensor.Data, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, messagePrefix) {
		return nil, fmt.Errorf("unrecognized message %q", line)
	}

	fields := make(map[string]string)
	for _, pair := range strings.Split(strings.TrimPrefix(line, messagePrefix), ";") {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("malformed field %q in message %q", pair, line)
		}
		fields[key] = value
	}

	if fields["class"] != "sensor" {
		return nil, nil
	}
	id, err := strconv.Atoi(fields["id"])
	if err != nil {
		return nil, fmt.Errorf("sensor message %q: bad id: %w", line, err)
	}

	base := sensor.Data{
		Protocol:  fields["protocol"],
		Model:     fields["model"],
		ID:        id,
		Timestamp: now,
	}
	var events []sensor.Data
	if v, ok := fields["temp"]; ok {
		ev := base
		ev.Datatype = sensor.DatatypeTemperature
		ev.Value = v
		events = append(events, ev)
	}
	if v, ok := fields["humidity"]; ok {
		ev := base
		ev.Datatype = sensor.DatatypeHumidity
		ev.Value = v
		events = append(events, ev)
	}
	return events, nil
}
