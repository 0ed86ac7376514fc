package telldus

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mkarlsson/telltemp/pkg/sensor"
)

// FakeCore simulates a transceiver with a fixed set of temperature/humidity
// sensors. Each sensor broadcasts fresh readings every emitEvery drains,
// which matches how real sensors report on a slow interval.
type FakeCore struct {
	dispatcher
	sensors   []Sensor
	emitEvery int
	tick      int
}

// NewFakeCore builds a simulated transceiver. emitEvery <= 0 selects the
// default broadcast interval of 60 drains (30s at the 500ms poll rate).
func NewFakeCore(emitEvery int) *FakeCore {
	if emitEvery <= 0 {
		emitEvery = 60
	}
	c := &FakeCore{
		dispatcher: newDispatcher(),
		sensors: []Sensor{
			NewSensor(11, "fineoffset", "temperaturehumidity"),
			NewSensor(12, "mandolyn", "temperaturehumidity"),
			NewSensor(21, "oregon", "EA4C"),
		},
		emitEvery: emitEvery,
	}
	c.emit()
	return c
}

// ProcessPendingCallbacks periodically queues fresh simulated readings
// before draining the queue.
func (c *FakeCore) ProcessPendingCallbacks() {
	c.tick++
	if c.tick%c.emitEvery == 0 {
		c.emit()
	}
	c.dispatcher.ProcessPendingCallbacks()
}

func (c *FakeCore) emit() {
	now := time.Now().Unix()
	for i := range c.sensors {
		s := &c.sensors[i]
		temp := fmt.Sprintf("%.1f", 15.0+rand.Float64()*10)
		hum := fmt.Sprintf("%d", 30+rand.Intn(40))

		s.SetValue(sensor.DatatypeTemperature, temp, now)
		c.enqueue(sensor.Data{
			Protocol: s.Protocol, Model: s.Model, ID: s.ID,
			Datatype: sensor.DatatypeTemperature, Value: temp, Timestamp: now,
		})

		// the oregon EA4C only reports temperature
		if s.Protocol == "oregon" {
			continue
		}
		s.SetValue(sensor.DatatypeHumidity, hum, now)
		c.enqueue(sensor.Data{
			Protocol: s.Protocol, Model: s.Model, ID: s.ID,
			Datatype: sensor.DatatypeHumidity, Value: hum, Timestamp: now,
		})
	}
}

// Sensors lists the simulated sensors with their latest values.
func (c *FakeCore) Sensors() ([]Sensor, error) {
	out := make([]Sensor, 0, len(c.sensors))
	for _, s := range c.sensors {
		out = append(out, s.clone())
	}
	return out, nil
}

func (c *FakeCore) Close() error { return nil }
