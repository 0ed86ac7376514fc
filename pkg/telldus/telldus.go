// Package telldus abstracts the Tellstick transceiver: sensor listing plus
// a queued sensor-event dispatch that the caller drains from its poll loop.
package telldus

import (
	"sync"

	"github.com/mkarlsson/telltemp/pkg/sensor"
)

// Callback receives one sensor broadcast.
type Callback func(sensor.Data)

// Core is the transceiver. Events arrive on the backend's own reader and are
// queued until ProcessPendingCallbacks drains them.
type Core interface {
	// Sensors lists the known sensors with their cached values.
	Sensors() ([]Sensor, error)
	// RegisterSensorEvent sets the callback invoked for each drained event.
	RegisterSensorEvent(cb Callback)
	// ProcessPendingCallbacks synchronously invokes the registered callback
	// for every queued event, in arrival order.
	ProcessPendingCallbacks()
	Close() error
}

// SensorValue is one cached reading of a sensor, as reported by a listing.
type SensorValue struct {
	Value     string
	Timestamp int64
}

// Sensor is one known sensor and its cached per-datatype values.
type Sensor struct {
	ID       int
	Protocol string
	Model    string
	values   map[int]SensorValue
}

// NewSensor builds an empty sensor entry; backends fill it with SetValue.
func NewSensor(id int, protocol, model string) Sensor {
	return Sensor{ID: id, Protocol: protocol, Model: model, values: make(map[int]SensorValue)}
}

// SetValue records the latest cached value for a datatype.
func (s *Sensor) SetValue(datatype int, value string, timestamp int64) {
	s.values[datatype] = SensorValue{Value: value, Timestamp: timestamp}
}

// Value returns the cached value for a datatype, if the sensor has one.
func (s Sensor) Value(datatype int) (SensorValue, bool) {
	v, ok := s.values[datatype]
	return v, ok
}

// clone returns a copy whose values map is independent of the original, so
// a listing snapshot can be read while the backend keeps updating.
func (s Sensor) clone() Sensor {
	out := NewSensor(s.ID, s.Protocol, s.Model)
	for datatype, v := range s.values {
		out.values[datatype] = v
	}
	return out
}

const queueSize = 256

// dispatcher is the queued-callback machinery shared by the backends.
type dispatcher struct {
	mu    sync.Mutex
	cb    Callback
	queue chan sensor.Data
}

func newDispatcher() dispatcher {
	return dispatcher{queue: make(chan sensor.Data, queueSize)}
}

func (d *dispatcher) RegisterSensorEvent(cb Callback) {
	d.mu.Lock()
	d.cb = cb
	d.mu.Unlock()
}

func (d *dispatcher) callback() Callback {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cb
}

// ProcessPendingCallbacks drains the queue without blocking. Events queued
// while no callback is registered are discarded.
func (d *dispatcher) ProcessPendingCallbacks() {
	cb := d.callback()
	for {
		select {
		case ev := <-d.queue:
			if cb != nil {
				cb(ev)
			}
		default:
			return
		}
	}
}

// enqueue queues an event for the next drain, dropping it if the consumer
// has fallen queueSize events behind.
func (d *dispatcher) enqueue(ev sensor.Data) {
	select {
	case d.queue <- ev:
	default:
	}
}
