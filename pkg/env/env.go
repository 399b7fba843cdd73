// Package env provides process-level configuration for mculink
// binaries.
package env

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/robotalks/mculink/pkg/bridge/mqtt"
	"github.com/robotalks/mculink/pkg/link"
)

// Config provides common options for mculink binaries.
type Config struct {
	// Name identifies the bridge, used as topic component and
	// connection identity. Empty falls back to the machine id.
	Name string

	// MQTTURL specifies the broker URL.
	// e.g. mqtt://host:port/topic-prefix
	MQTTURL string

	// Port is the serial port name.
	Port string

	// Baud is the serial bit rate.
	Baud int

	// Divider is the packet boundary byte, as an int for flag parsing.
	Divider int
}

var defaultConfig = Config{
	MQTTURL: "mqtt://localhost:1883/mculink/",
	Baud:    link.DefaultBaud,
	Divider: int(link.DefaultDivider),
}

func init() {
	if val := os.Getenv("MCULINK_NAME"); val != "" {
		defaultConfig.Name = val
	}
	if val := os.Getenv("MCULINK_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("MCULINK_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("MCULINK_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.Baud = baud
		}
	}
	if val := os.Getenv("MCULINK_DIVIDER"); val != "" {
		if divider, err := strconv.Atoi(val); err == nil {
			defaultConfig.Divider = divider
		}
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Name, "name", defaultConfig.Name, "Bridge name, machine id when empty.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port name.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial bit rate.")
	flag.IntVar(&defaultConfig.Divider, "divider", defaultConfig.Divider, "Packet boundary byte (0-255).")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// BridgeName resolves Name, falling back to the machine id.
func (c *Config) BridgeName() string {
	if c.Name != "" {
		return c.Name
	}
	return MachineID()
}

// DividerByte validates Divider as a single octet.
func (c *Config) DividerByte() (byte, error) {
	if c.Divider < 0 || c.Divider > 255 {
		return 0, fmt.Errorf("divider must be 0-255, got %d", c.Divider)
	}
	return byte(c.Divider), nil
}

// MustDividerByte validates Divider and fails the process on error.
func (c *Config) MustDividerByte() byte {
	divider, err := c.DividerByte()
	if err != nil {
		log.Fatalln(err)
	}
	return divider
}

// NewQueue creates and connects the MQTT queue from MQTTURL.
func (c *Config) NewQueue() (*mqtt.Queue, error) {
	q, err := mqtt.NewQueueFromURL(c.MQTTURL)
	if err != nil {
		return nil, err
	}
	token := q.Connect()
	token.Wait()
	if err = token.Error(); err != nil {
		return nil, err
	}
	return q, nil
}

// MustNewQueue creates the queue and fails the process on error.
func (c *Config) MustNewQueue() *mqtt.Queue {
	q, err := c.NewQueue()
	if err != nil {
		log.Fatalln(err)
	}
	return q
}
