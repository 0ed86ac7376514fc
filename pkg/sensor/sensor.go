package sensor

import (
	"fmt"
	"time"
)

// Datatype codes as delivered by the transceiver.
const (
	DatatypeTemperature = 1
	DatatypeHumidity    = 2
)

var datatypeNames = map[int]string{
	DatatypeTemperature: "temperature",
	DatatypeHumidity:    "humidity",
}

// Data is one sensor broadcast. It is constructed per event and never
// modified afterwards.
type Data struct {
	Protocol  string `json:"protocol"`
	Model     string `json:"model"`
	ID        int    `json:"id"`
	Datatype  int    `json:"datatype"`
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
	CID       int    `json:"cid"`
}

// DatatypeName maps a datatype code to its display name. Codes outside the
// known set map to "unknown" rather than failing.
func DatatypeName(datatype int) string {
	if name, ok := datatypeNames[datatype]; ok {
		return name
	}
	return "unknown"
}

// String renders the reading the way it is printed to the console, e.g.
// 2015-02-16 13:37:00 SENSOR 123 [fineoffset/temperaturehumidity] temperature value: -1.2
func (d Data) String() string {
	return fmt.Sprintf("%s SENSOR %d [%s/%s] %s value: %s",
		time.Unix(d.Timestamp, 0).Format("2006-01-02 15:04:05"),
		d.ID, d.Protocol, d.Model, DatatypeName(d.Datatype), d.Value)
}
