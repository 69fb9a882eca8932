// Package transactionserver manages transaction service creation and api routing.
package transactionserver

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/cypherbank/banking/internal/accountclient"
	"github.com/cypherbank/banking/internal/middleware"
	"github.com/cypherbank/banking/internal/transactiondelivery"
	"github.com/cypherbank/banking/internal/transactionrepo"
	"github.com/cypherbank/banking/internal/transactionservice"
	"github.com/cypherbank/banking/internal/userclient"
	"github.com/cypherbank/banking/pkg/configpkg"
	"github.com/cypherbank/banking/pkg/webclient"
)

// Server holds db connection, routed engine and configuration for the
// transaction log service.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) *Server {
	httpClient := webclient.New(webclient.WithTimeout(config.RemoteClientTimeout))

	transactionRepo := transactionrepo.NewRepoPGS(conn)
	accountDirectory := accountclient.New(config.AccountServiceURL, httpClient)
	userDirectory := userclient.New(config.UserServiceURL, httpClient)

	transactionService := transactionservice.New(transactionRepo, accountDirectory, userDirectory)

	transactionHandler := transactiondelivery.NewHandler(transactionService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("transactiontype", transactiondelivery.ValidTransactionType); err != nil {
			logger.Fatal().Err(err).Msg("cannot register transactiontype validation")
		}
	}

	engine.GET("/transactions", transactionHandler.List)
	engine.GET("/transactions/:id", transactionHandler.Get)
	engine.POST("/transactions", transactionHandler.Create)
	engine.PUT("/transactions/:id", transactionHandler.Update)
	engine.DELETE("/transactions/:id", transactionHandler.Delete)

	engine.GET("/transactions/user/:userId", transactionHandler.ByUser)
	engine.GET("/transactions/user/:userId/with-emails", transactionHandler.ByUserWithEmails)
	engine.GET("/transactions/history/:accountId", transactionHandler.History)

	return &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}
}
