package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/libtrack/lending-service/app"
	"github.com/libtrack/lending-service/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Print("no .env file, reading config from environment")
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
