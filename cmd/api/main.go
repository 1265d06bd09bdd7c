package main

import (
	"log"

	"github.com/kscudds/Employee/internal/app"
	"github.com/kscudds/Employee/internal/bootstrap"
	"github.com/kscudds/Employee/internal/config"
	"github.com/kscudds/Employee/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	auditLogger := bootstrap.NewStdoutAuditLogger(logger)

	// build dependency + routes
	a, err := app.BuildApp(r, cfg, auditLogger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close app resources failed", zap.Error(err))
		}
	}()

	bootstrap.StartHTTPServer(r, cfg.HTTP, auditLogger)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
