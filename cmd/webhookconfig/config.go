package webhookconfig

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// BaseURL is the public ingestion prefix; the configuration id is appended to it.
	BaseURL string `envconfig:"WEBHOOK_BASE_URL" default:"http://localhost:9898/receive-webhook"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
