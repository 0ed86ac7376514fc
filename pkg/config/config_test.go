package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseSensorIDs(t *testing.T) {
	tests := []struct {
		in   string
		want []int
		ok   bool
	}{
		{"", []int{}, true},
		{"1,2", []int{1, 2}, true},
		{" 5 , 11 ,", []int{5, 11}, true},
		{"bad", nil, false},
	}
	for _, tt := range tests {
		got, err := parseSensorIDs(tt.in)
		if (err == nil) != tt.ok {
			t.Fatalf("parseSensorIDs(%q) ok=%v err=%v", tt.in, tt.ok, err)
		}
		if tt.ok && !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("parseSensorIDs(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logtype != LogtypeCSV {
		t.Fatalf("default logtype: %q", cfg.Logtype)
	}
	if cfg.List || cfg.Heartbeat || cfg.Silent || cfg.Verbose || cfg.Overwrite {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MQTT != nil {
		t.Fatalf("mqtt configured by default: %+v", cfg.MQTT)
	}
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load([]string{"-b", "-f", "out.csv", "-s", "1,2", "-i", "-w"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Heartbeat || !cfg.Silent || !cfg.Overwrite {
		t.Fatalf("bool flags: %+v", cfg)
	}
	if cfg.Logfile != "out.csv" {
		t.Fatalf("logfile: %q", cfg.Logfile)
	}
	if !reflect.DeepEqual(cfg.Sensors, []int{1, 2}) {
		t.Fatalf("sensors: %v", cfg.Sensors)
	}
}

func TestLoadLongFlags(t *testing.T) {
	cfg, err := Load([]string{"--list", "--verbose", "--logtype", "SQLite"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.List || !cfg.Verbose {
		t.Fatalf("long flags: %+v", cfg)
	}
	if cfg.Logtype != LogtypeSQLite {
		t.Fatalf("logtype: %q", cfg.Logtype)
	}
}

func TestLoadInvalidLogtype(t *testing.T) {
	if _, err := Load([]string{"-t", "XML"}); err == nil {
		t.Fatalf("expected error for invalid logtype")
	}
}

func TestLoadConfigFileAndOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	js := `{
        "heartbeat": true,
        "logfile": "file.csv",
        "logtype": "CSV",
        "sensors": [5],
        "device": "/dev/ttyUSB0",
        "mqtt": {"server": "tcp://broker:1883", "topic": "home/sensors"}
    }`
	if err := os.WriteFile(path, []byte(js), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load([]string{"-config", path, "-f", "other.csv"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Heartbeat {
		t.Fatalf("heartbeat not read from file")
	}
	if cfg.Logfile != "other.csv" {
		t.Fatalf("flag should override file logfile, got %q", cfg.Logfile)
	}
	if cfg.Device != "/dev/ttyUSB0" {
		t.Fatalf("device: %q", cfg.Device)
	}
	if cfg.MQTT == nil || cfg.MQTT.Server != "tcp://broker:1883" || cfg.MQTT.Topic != "home/sensors" {
		t.Fatalf("mqtt: %+v", cfg.MQTT)
	}
}

func TestLoadMQTTFlags(t *testing.T) {
	cfg, err := Load([]string{"-mqtt-server", "tcp://localhost:1883", "-mqtt-topic", "telltemp"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTT == nil || cfg.MQTT.Server != "tcp://localhost:1883" || cfg.MQTT.Topic != "telltemp" {
		t.Fatalf("mqtt: %+v", cfg.MQTT)
	}
}
