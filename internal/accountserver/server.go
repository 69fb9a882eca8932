// Package accountserver manages account service creation and api routing.
package accountserver

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cypherbank/banking/internal/accountdelivery"
	"github.com/cypherbank/banking/internal/accountrepo"
	"github.com/cypherbank/banking/internal/accountservice"
	"github.com/cypherbank/banking/internal/middleware"
	"github.com/cypherbank/banking/internal/transactionclient"
	"github.com/cypherbank/banking/internal/transferservice"
	"github.com/cypherbank/banking/pkg/configpkg"
	"github.com/cypherbank/banking/pkg/webclient"
)

// Server holds db connection, routed engine and configuration for the
// account ledger service.
type Server struct {
	DB        *sql.DB
	Engine    *gin.Engine
	Config    configpkg.Config
	Transfers *transferservice.Service
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) *Server {
	accountRepo := accountrepo.NewRepoPGS(conn)
	accountService := accountservice.New(accountRepo)

	sink := transactionclient.New(
		config.TransactionServiceURL,
		webclient.New(webclient.WithTimeout(config.RemoteClientTimeout)),
	)

	transferService := transferservice.New(accountService, accountRepo, sink, config.SinkTimeout)

	accountHandler := accountdelivery.NewHandler(accountService, transferService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.GET("/accounts", accountHandler.List)
	engine.GET("/accounts/:id", accountHandler.Get)
	engine.GET("/accounts/user/:userId", accountHandler.ListByUser)
	engine.POST("/accounts", accountHandler.Create)
	engine.PUT("/accounts/:id/balance", accountHandler.SetBalance)
	engine.DELETE("/accounts/:id", accountHandler.Delete)

	engine.POST("/accounts/:id/deposit", accountHandler.Deposit)
	engine.POST("/accounts/:id/withdraw", accountHandler.Withdraw)
	engine.POST("/accounts/transfer", accountHandler.Transfer)

	return &Server{
		DB:        conn,
		Engine:    engine,
		Config:    config,
		Transfers: transferService,
	}
}
