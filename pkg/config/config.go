package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Log types accepted by --logtype.
const (
	LogtypeCSV    = "CSV"
	LogtypeSQLite = "SQLite"
)

type MQTTConfig struct {
	Server   string `json:"server"`
	Username string `json:"username"`
	Password string `json:"password"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
}

type Config struct {
	List      bool   `json:"-"`
	Heartbeat bool   `json:"heartbeat"`
	Logfile   string `json:"logfile"`
	Logtype   string `json:"logtype"`
	Overwrite bool   `json:"overwrite"`
	Sensors   []int  `json:"sensors"`
	Silent    bool   `json:"silent"`
	Verbose   bool   `json:"verbose"`
	// Device is the Tellstick serial port; empty selects the simulated
	// transceiver.
	Device string      `json:"device"`
	MQTT   *MQTTConfig `json:"mqtt,omitempty"`
}

func DefaultConfig() Config {
	return Config{Logtype: LogtypeCSV}
}

// Load reads configuration from an optional JSON file and flags. Flags
// override values present in the file.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("telltemp", flag.ContinueOnError)

	cfgPath := fs.String("config", "", "Path to JSON config file")
	var list, heartbeat, overwrite, silent, verbose bool
	fs.BoolVar(&list, "list", false, "List available sensors and exit")
	fs.BoolVar(&list, "l", false, "")
	fs.BoolVar(&heartbeat, "heartbeat", false, "Print an updating character to the terminal while waiting for sensor events")
	fs.BoolVar(&heartbeat, "b", false, "")
	fs.BoolVar(&overwrite, "overwrite", false, "Overwrite the logfile if it exists and create a new one")
	fs.BoolVar(&overwrite, "w", false, "")
	fs.BoolVar(&silent, "silent", false, "Do not print anything to the terminal")
	fs.BoolVar(&silent, "i", false, "")
	fs.BoolVar(&verbose, "verbose", false, "Print verbose output")
	fs.BoolVar(&verbose, "v", false, "")

	var logfile, logtype, sensors, device string
	fs.StringVar(&logfile, "logfile", "", "File to log sensor data to; created if it does not exist")
	fs.StringVar(&logfile, "f", "", "")
	fs.StringVar(&logtype, "logtype", "", "Type of logfile: CSV or SQLite (default CSV)")
	fs.StringVar(&logtype, "t", "", "")
	fs.StringVar(&sensors, "sensors", "", "Comma-separated device IDs of sensors to print values from (default all)")
	fs.StringVar(&sensors, "s", "", "")
	fs.StringVar(&device, "device", "", "Tellstick serial device (e.g. /dev/ttyUSB0); default is a simulated transceiver")

	mqttServer := fs.String("mqtt-server", "", "MQTT server (tcp://host:port); enables the MQTT output")
	mqttUser := fs.String("mqtt-user", "", "MQTT username")
	mqttPass := fs.String("mqtt-pass", "", "MQTT password")
	mqttClientID := fs.String("mqtt-client-id", "", "MQTT client id")
	mqttTopic := fs.String("mqtt-topic", "", "MQTT topic base")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if *cfgPath != "" {
		b, err := os.ReadFile(*cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.List = cfg.List || list
	cfg.Heartbeat = cfg.Heartbeat || heartbeat
	cfg.Overwrite = cfg.Overwrite || overwrite
	cfg.Silent = cfg.Silent || silent
	cfg.Verbose = cfg.Verbose || verbose
	if logfile != "" {
		cfg.Logfile = logfile
	}
	if logtype != "" {
		cfg.Logtype = logtype
	}
	if sensors != "" {
		ids, err := parseSensorIDs(sensors)
		if err != nil {
			return cfg, err
		}
		cfg.Sensors = ids
	}
	if device != "" {
		cfg.Device = device
	}
	if *mqttServer != "" || *mqttUser != "" || *mqttPass != "" || *mqttClientID != "" || *mqttTopic != "" {
		if cfg.MQTT == nil {
			cfg.MQTT = &MQTTConfig{}
		}
		if *mqttServer != "" {
			cfg.MQTT.Server = *mqttServer
		}
		if *mqttUser != "" {
			cfg.MQTT.Username = *mqttUser
		}
		if *mqttPass != "" {
			cfg.MQTT.Password = *mqttPass
		}
		if *mqttClientID != "" {
			cfg.MQTT.ClientID = *mqttClientID
		}
		if *mqttTopic != "" {
			cfg.MQTT.Topic = *mqttTopic
		}
	}

	if cfg.Logtype != LogtypeCSV && cfg.Logtype != LogtypeSQLite {
		return cfg, fmt.Errorf("invalid logtype %q (choose CSV or SQLite)", cfg.Logtype)
	}

	return cfg, nil
}

func parseSensorIDs(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t == "" {
			continue
		}
		v, err := strconv.Atoi(t)
		if err != nil {
			return nil, fmt.Errorf("invalid sensor id '%s': %w", t, err)
		}
		out = append(out, v)
	}
	return out, nil
}
