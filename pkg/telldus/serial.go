package telldus

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/mkarlsson/telltemp/pkg/sensor"
)

// SerialCore drives a Tellstick Duo over its USB serial interface. A reader
// goroutine parses incoming messages into the event queue; the sensor list
// is whatever the stick has heard since the port was opened.
type SerialCore struct {
	dispatcher
	port    io.ReadWriteCloser
	verbose bool

	seenMu sync.Mutex
	seen   map[int]*Sensor

	done chan struct{}
}

// NewSerialCore opens the stick at device (9600 8N1) and starts reading.
func NewSerialCore(device string, verbose bool) (*SerialCore, error) {
	mode := &serial.Mode{
		BaudRate: 9600,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	c := newSerialCore(port, verbose)
	go c.readLoop()
	return c, nil
}

func newSerialCore(port io.ReadWriteCloser, verbose bool) *SerialCore {
	return &SerialCore{
		dispatcher: newDispatcher(),
		port:       port,
		verbose:    verbose,
		seen:       make(map[int]*Sensor),
		done:       make(chan struct{}),
	}
}

func (c *SerialCore) readLoop() {
	defer close(c.done)
	scan := bufio.NewScanner(c.port)
	for scan.Scan() {
		c.handleLine(scan.Text(), time.Now().Unix())
	}
	if err := scan.Err(); err != nil {
		log.Printf("serial read: %v", err)
	}
}

// handleLine parses one message, queues its events and updates the sensor
// cache. Lines the stick mangles (radio noise is common) are skipped.
func (c *SerialCore) handleLine(line string, now int64) {
	events, err := parseMessage(line, now)
	if err != nil {
		if c.verbose {
			log.Printf("skipping message: %v", err)
		}
		return
	}
	for _, ev := range events {
		c.remember(ev)
		c.enqueue(ev)
	}
}

func (c *SerialCore) remember(ev sensor.Data) {
	c.seenMu.Lock()
	defer c.seenMu.Unlock()
	s, ok := c.seen[ev.ID]
	if !ok {
		entry := NewSensor(ev.ID, ev.Protocol, ev.Model)
		s = &entry
		c.seen[ev.ID] = s
	}
	s.SetValue(ev.Datatype, ev.Value, ev.Timestamp)
}

// Sensors returns a snapshot of the sensors heard so far, ordered by ID.
// The snapshot is independent of the reader's ongoing updates.
func (c *SerialCore) Sensors() ([]Sensor, error) {
	c.seenMu.Lock()
	defer c.seenMu.Unlock()
	out := make([]Sensor, 0, len(c.seen))
	for _, s := range c.seen {
		out = append(out, s.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close closes the port, which unblocks and ends the reader.
func (c *SerialCore) Close() error {
	err := c.port.Close()
	<-c.done
	return err
}
