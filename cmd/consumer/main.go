package main

import (
	"log"

	"github.com/kscudds/Employee/internal/app"
	"github.com/kscudds/Employee/internal/bootstrap"
	"github.com/kscudds/Employee/internal/config"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	newLogger := zap.NewDevelopment
	if cfg.IsProduction() {
		newLogger = zap.NewProduction
	}
	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := app.RunConsumer(cfg, bootstrap.NewStdoutAuditLogger(logger)); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
