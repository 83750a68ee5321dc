// Package config loads runtime configuration for the GophAuth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string        address:port of the backend gRPC endpoint
//	-device string   device id sent on login
//	-t int           request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "device_id": "laptop",
//	  "request_timeout": "10s"
//	}
package config
