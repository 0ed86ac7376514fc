// Package csvfile appends sensor readings to a comma-separated logfile.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/mkarlsson/telltemp/pkg/output"
	"github.com/mkarlsson/telltemp/pkg/sensor"
)

var header = []string{"Timestamp", "ID", "Temperature", "Humidity"}

type CSVOutput struct {
	file   *os.File
	writer *csv.Writer
}

// New opens path for logging, creating it if absent. With overwrite the
// file is truncated instead of appended to. The header row is written
// whenever the file starts out empty (new or truncated).
func New(path string, overwrite bool) (output.Output, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open logfile %s: %w", path, err)
	}
	c := &CSVOutput{file: file, writer: csv.NewWriter(file)}

	if newFile || overwrite {
		if err := c.writeRow(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("could not open logfile %s: %w", path, err)
		}
	}
	return c, nil
}

// Publish writes one row per temperature or humidity reading, with the
// non-applicable value column left empty. Other datatypes produce no row.
func (c *CSVOutput) Publish(d sensor.Data) error {
	var temperature, humidity string
	switch d.Datatype {
	case sensor.DatatypeTemperature:
		temperature = d.Value
	case sensor.DatatypeHumidity:
		humidity = d.Value
	default:
		return nil
	}
	return c.writeRow([]string{
		strconv.FormatInt(d.Timestamp, 10),
		strconv.Itoa(d.ID),
		temperature,
		humidity,
	})
}

func (c *CSVOutput) writeRow(row []string) error {
	if err := c.writer.Write(row); err != nil {
		return err
	}
	c.writer.Flush()
	return c.writer.Error()
}

func (c *CSVOutput) Close() error {
	c.writer.Flush()
	werr := c.writer.Error()
	if err := c.file.Close(); err != nil {
		return err
	}
	return werr
}
