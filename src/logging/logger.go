package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"debug"` // debug | info | warn | error
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"` // text | json

	// LogFile, when set, receives a copy of every line with size-based rotation.
	LogFile           string `envconfig:"LOG_FILE"`
	LogFileMaxSizeMB  int    `envconfig:"LOG_FILE_MAX_SIZE_MB" default:"100"`
	LogFileMaxBackups int    `envconfig:"LOG_FILE_MAX_BACKUPS" default:"3"`
	LogFileMaxAgeDays int    `envconfig:"LOG_FILE_MAX_AGE_DAYS" default:"28"`
	LogFileCompress   bool   `envconfig:"LOG_FILE_COMPRESS" default:"true"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

// SetupLogger configures the global logrus logger from the environment.
func SetupLogger() {
	Configure(logger.StandardLogger(), GetConfig(), os.Stdout)
}

// Configure applies config to log. Unknown levels fall back to debug.
func Configure(log *logger.Logger, config Config, stdout io.Writer) {
	level, err := logger.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		level = logger.DebugLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(config.LogFormat, "json") {
		log.SetFormatter(&logger.JSONFormatter{})
	} else {
		log.SetFormatter(&logger.TextFormatter{
			FullTimestamp: true,
		})
	}

	out := stdout
	if config.LogFile != "" {
		out = io.MultiWriter(stdout, &lumberjack.Logger{
			Filename:   config.LogFile,
			MaxSize:    config.LogFileMaxSizeMB,
			MaxBackups: config.LogFileMaxBackups,
			MaxAge:     config.LogFileMaxAgeDays,
			Compress:   config.LogFileCompress,
			LocalTime:  true,
		})
	}
	log.SetOutput(out)
}
