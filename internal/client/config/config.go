package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the GophAuth CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - DeviceID: identifies this client to the server; one refresh token is
//     kept per (user, device).
//   - RequestTimeout: upper bound for a single RPC.
type Config struct {
	ServerEndpointAddr string
	DeviceID           string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults. The device id defaults to
// the host name.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DeviceID = defaultDeviceID()
	c.RequestTimeout = 10 * time.Second
}

func defaultDeviceID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "cli"
	}
	return host
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
