package security

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// RedactPassphrase strips the passphrase from payloads before they are stored.
	// Off by default so stored signals match what the sender posted.
	RedactPassphrase bool `envconfig:"SIGNAL_REDACT_PASSPHRASE" default:"false"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
