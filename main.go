package main

import (
	"context"
	"fmt"
	"os"

	"signalhook/src/logging"
	"signalhook/src/server"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"
)

var APP_NAME = os.Getenv("APP_NAME")

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	logging.SetupLogger()
	defer handlePanic()

	if err := server.Run(context.Background()); err != nil {
		logger.WithError(err).Fatal("Failed to start webhook server")
	}
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
		os.Exit(1)
	}
}
