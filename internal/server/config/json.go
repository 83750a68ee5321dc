package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its non-zero fields are copied into the runtime
// Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrGRPC                  string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP                  string         `json:"endpoint_addr_http"`
	DatabaseDSN                       string         `json:"database_dsn"`
	SecretKey                         string         `json:"secret_key"`
	AccessTokenValidityDuration       timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration      timex.Duration `json:"refresh_token_validity_duration"`
	VerificationTokenValidityDuration timex.Duration `json:"verification_token_validity_duration"`
	BcryptCost                        int            `json:"bcrypt_cost"`
	MailSender                        string         `json:"mail_sender"`
	MailFrom                          string         `json:"mail_from"`
	VerificationURL                   string         `json:"verification_url"`
	S3RootUser                        string         `json:"s3_root_user"`
	S3RootPassword                    string         `json:"s3_root_password"`
	S3Bucket                          string         `json:"s3_bucket"`
	S3Region                          string         `json:"s3_region"`
	S3BaseEndpoint                    string         `json:"s3_base_endpoint"`
	CORSAllowedOrigins                []string       `json:"cors_allowed_origins"`
	CookieSecure                      *bool          `json:"cookie_secure"`
	NotificationWorkers               int            `json:"notification_workers"`
	NotificationQueueSize             int            `json:"notification_queue_size"`
	LogLevel                          string         `json:"log_level"`
	OTelEndpoint                      string         `json:"otel_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path comes from the -c or -config command-line flags. If it
// is not set, no JSON file is loaded. Keys absent from the file keep their
// current value. If the file cannot be read or contains invalid JSON, the
// function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setNonZero(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setNonZero(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setNonZero(&config.DatabaseDSN, c.DatabaseDSN)
	setNonZero(&config.SecretKey, c.SecretKey)
	setNonZero(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration.Duration)
	setNonZero(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration.Duration)
	setNonZero(&config.VerificationTokenValidityDuration, c.VerificationTokenValidityDuration.Duration)
	setNonZero(&config.BcryptCost, c.BcryptCost)
	setNonZero(&config.MailSender, c.MailSender)
	setNonZero(&config.MailFrom, c.MailFrom)
	setNonZero(&config.VerificationURL, c.VerificationURL)
	setNonZero(&config.S3RootUser, c.S3RootUser)
	setNonZero(&config.S3RootPassword, c.S3RootPassword)
	setNonZero(&config.S3Bucket, c.S3Bucket)
	setNonZero(&config.S3Region, c.S3Region)
	setNonZero(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	setNonZero(&config.NotificationWorkers, c.NotificationWorkers)
	setNonZero(&config.NotificationQueueSize, c.NotificationQueueSize)
	setNonZero(&config.LogLevel, c.LogLevel)
	setNonZero(&config.OTelEndpoint, c.OTelEndpoint)
}

func setNonZero[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
