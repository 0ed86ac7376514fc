package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkarlsson/telltemp/pkg/config"
	"github.com/mkarlsson/telltemp/pkg/output"
	"github.com/mkarlsson/telltemp/pkg/sensor"
	"github.com/mkarlsson/telltemp/pkg/telldus"
)

func TestBuildOutputsNoneConfigured(t *testing.T) {
	outputs, err := buildOutputs(config.DefaultConfig())
	if err != nil {
		t.Fatalf("buildOutputs: %v", err)
	}
	if len(outputs) != 0 {
		t.Fatalf("outputs: %v", outputs)
	}
}

func TestBuildOutputsSQLiteFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensors.db")
	cfg := config.Config{Logfile: path, Logtype: config.LogtypeSQLite}

	_, err := buildOutputs(cfg)
	if err != output.ErrNotImplemented {
		t.Fatalf("err = %v; want ErrNotImplemented", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("SQLite selection created a file")
	}
}

func TestBuildOutputsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensors.csv")
	cfg := config.Config{Logfile: path, Logtype: config.LogtypeCSV}

	outputs, err := buildOutputs(cfg)
	if err != nil {
		t.Fatalf("buildOutputs: %v", err)
	}
	if len(outputs) != 1 {
		t.Fatalf("outputs len: %d", len(outputs))
	}
	closeOutputs(outputs)

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read logfile: %v", err)
	}
	if string(b) != "Timestamp,ID,Temperature,Humidity\n" {
		t.Fatalf("logfile content: %q", b)
	}
}

func TestBuildOutputsCSVOpenFailure(t *testing.T) {
	cfg := config.Config{
		Logfile: filepath.Join(t.TempDir(), "missing", "sensors.csv"),
		Logtype: config.LogtypeCSV,
	}
	if _, err := buildOutputs(cfg); err == nil {
		t.Fatalf("expected open failure")
	}
}

func TestNewCoreSelection(t *testing.T) {
	core, err := newCore(config.DefaultConfig())
	if err != nil {
		t.Fatalf("newCore: %v", err)
	}
	defer core.Close()
	if _, ok := core.(*telldus.FakeCore); !ok {
		t.Fatalf("default core is %T; want *telldus.FakeCore", core)
	}
}

// listCore serves canned sensors for listing tests.
type listCore struct {
	sensors []telldus.Sensor
}

func (c *listCore) Sensors() ([]telldus.Sensor, error)      { return c.sensors, nil }
func (c *listCore) RegisterSensorEvent(cb telldus.Callback) {}
func (c *listCore) ProcessPendingCallbacks()                {}
func (c *listCore) Close() error                            { return nil }

// failingCore errors on listing.
type failingCore struct {
	listCore
}

func (c *failingCore) Sensors() ([]telldus.Sensor, error) {
	return nil, errors.New("transceiver unplugged")
}

func TestListSensorsPropagatesError(t *testing.T) {
	var buf bytes.Buffer
	err := listSensors(&failingCore{}, &buf)
	if err == nil || !strings.Contains(err.Error(), "transceiver unplugged") {
		t.Fatalf("err = %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("failed listing produced output: %q", buf.String())
	}
}

func TestListSensors(t *testing.T) {
	withBoth := telldus.NewSensor(11, "fineoffset", "temperaturehumidity")
	withBoth.SetValue(sensor.DatatypeTemperature, "21.5", 1700000000)
	withBoth.SetValue(sensor.DatatypeHumidity, "48", 1700000060)

	tempOnly := telldus.NewSensor(21, "oregon", "EA4C")
	tempOnly.SetValue(sensor.DatatypeTemperature, "-1.2", 1700000000)

	empty := telldus.NewSensor(30, "mandolyn", "temperaturehumidity")

	var buf bytes.Buffer
	err := listSensors(&listCore{sensors: []telldus.Sensor{withBoth, tempOnly, empty}}, &buf)
	if err != nil {
		t.Fatalf("listSensors: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// count line, blank, header, two sensor rows; the empty sensor is omitted
	if len(lines) != 5 {
		t.Fatalf("line count = %d:\n%s", len(lines), out)
	}
	if lines[0] != "Number of sensors: 3" {
		t.Fatalf("count line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "ID    PROTOCOL") {
		t.Fatalf("header: %q", lines[2])
	}
	if !strings.Contains(lines[3], "21.5") || !strings.Contains(lines[3], "48") {
		t.Fatalf("sensor 11 row: %q", lines[3])
	}
	if strings.Contains(out, "mandolyn") {
		t.Fatalf("sensor without values listed:\n%s", out)
	}
	// humidity column comes from the humidity value, not the temperature one
	if strings.Count(lines[3], "21.5") != 1 {
		t.Fatalf("temperature value duplicated into humidity column: %q", lines[3])
	}
}
