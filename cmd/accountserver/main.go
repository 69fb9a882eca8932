// The accountserver command runs the account ledger service.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/cypherbank/banking/internal/accountserver"
	"github.com/cypherbank/banking/internal/middleware"
	"github.com/cypherbank/banking/pkg/configpkg"
	"github.com/cypherbank/banking/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs/accountserver")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	server := accountserver.New(db, logger, config)

	logger.Info().Msg("ACCOUNT SERVICE HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
