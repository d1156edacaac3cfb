package main

import (
	"context"
	"os"

	"github.com/ensab/scolarite/internal/pkg/logger"
	"github.com/ensab/scolarite/internal/server"
)

// @title Service de Scolarité API
// @version 1.0
// @description Student administration portal of ENSA Berrechid

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
