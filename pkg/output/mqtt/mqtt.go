// Package mqtt publishes sensor readings to an MQTT broker, one JSON
// payload per reading on <topic>/<sensor-id>.
package mqtt

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mkarlsson/telltemp/pkg/config"
	"github.com/mkarlsson/telltemp/pkg/output"
	"github.com/mkarlsson/telltemp/pkg/sensor"
)

const (
	DefaultClientID = "telltemp"
	DefaultTopic    = "telltemp"
)

type MQTTOutput struct {
	client mqtt.Client
	topic  string
}

func New(cfg config.MQTTConfig) (output.Output, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}
	opts := mqtt.NewClientOptions().AddBroker(cfg.Server).SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTOutput{client: client, topic: topic}, nil
}

func (m *MQTTOutput) Publish(d sensor.Data) error {
	b, err := json.Marshal(payload(d))
	if err != nil {
		return err
	}
	token := m.client.Publish(fmt.Sprintf("%s/%d", m.topic, d.ID), 0, false, b)
	token.Wait()
	return token.Error()
}

func (m *MQTTOutput) Close() error {
	if m.client != nil {
		m.client.Disconnect(250)
	}
	return nil
}

func payload(d sensor.Data) map[string]interface{} {
	return map[string]interface{}{
		"protocol":  d.Protocol,
		"model":     d.Model,
		"id":        d.ID,
		"datatype":  sensor.DatatypeName(d.Datatype),
		"value":     d.Value,
		"timestamp": d.Timestamp,
	}
}
