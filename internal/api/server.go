package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/rifaamiga/raffle-api/docs"
	v1 "github.com/rifaamiga/raffle-api/internal/api/handler/v1"
	"github.com/rifaamiga/raffle-api/internal/api/middleware"
	"github.com/rifaamiga/raffle-api/internal/cache"
	"github.com/rifaamiga/raffle-api/internal/config"
	"github.com/rifaamiga/raffle-api/internal/repository"
	"github.com/rifaamiga/raffle-api/internal/repository/dao"
	"github.com/rifaamiga/raffle-api/internal/service"
	"github.com/rifaamiga/raffle-api/internal/storage"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	store, err := cache.NewStore(conf.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache.NewStore -> %w", err)
	}

	proofs, err := storage.NewDiskStore(conf.Storage.ProofRoot, conf.API.BaseURL, conf.Storage.ProofMaxBytes)
	if err != nil {
		return nil, fmt.Errorf("storage.NewDiskStore -> %w", err)
	}

	authHandler, userHandler := s.initUserHandlers(db)
	raffleHandler, ticketHandler := s.initRaffleHandlers(db, store, proofs)
	s.MountHandlers(authHandler, userHandler, raffleHandler, ticketHandler)

	return s, nil
}

func (s *Server) initUserHandlers(db *gorm.DB) (*v1.AuthHandler, *v1.UserHandler) {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return v1.NewAuthHandler(s.Config.API, service.NewAuthService(repo)),
		v1.NewUserHandler(service.NewUserService(repo))
}

func (s *Server) initRaffleHandlers(db *gorm.DB, store cache.Store, proofs storage.Store) (*v1.RaffleHandler, *v1.TicketHandler) {
	raffleRepo := repository.NewRaffleRepository(dao.NewRaffleDAO(db))
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	svc := service.NewRaffleService(raffleRepo, ticketRepo, store)

	return v1.NewRaffleHandler(svc, proofs), v1.NewTicketHandler(svc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, userHandler *v1.UserHandler, raffleHandler *v1.RaffleHandler, ticketHandler *v1.TicketHandler) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)

		public.GET("/raffles/active", raffleHandler.HandleGetActiveRaffle)
		public.GET("/raffles/:raffleID/tickets", raffleHandler.HandleGetTickets)
		public.GET("/raffles/:raffleID/summary", raffleHandler.HandleGetSummary)
		public.GET("/raffles/:raffleID/winner", raffleHandler.HandleGetWinner)
	}

	reserve := s.Router.Group(basePath,
		middleware.RateLimit(s.Config.RateLimit.ReservePerSecond, s.Config.RateLimit.ReserveBurst))
	{
		reserve.POST("/raffles/:raffleID/reservations", raffleHandler.HandleReserve)
	}

	admin := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		admin.GET("/users/:userID", userHandler.HandleGetUser)

		admin.POST("/raffles", raffleHandler.HandleCreateRaffle)
		admin.PATCH("/raffles/:raffleID", raffleHandler.HandleUpdateRaffle)
		admin.POST("/raffles/:raffleID/draw", raffleHandler.HandleDrawWinner)

		admin.POST("/tickets/:ticketID/confirm", ticketHandler.HandleConfirmTicket)
		admin.POST("/tickets/:ticketID/reject", ticketHandler.HandleRejectTicket)
		admin.POST("/raffles/:raffleID/tickets/confirm-bulk", ticketHandler.HandleConfirmBulk)
		admin.POST("/raffles/:raffleID/tickets/reject-bulk", ticketHandler.HandleRejectBulk)
		admin.POST("/raffles/:raffleID/tickets/confirm-manual", ticketHandler.HandleConfirmManual)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded payment proofs are public so the admin panel can embed them.
	s.Router.Static("/proofs", s.Config.Storage.ProofRoot)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Raffle API"
	docs.SwaggerInfo.Description = "Ticket sales API for a single-raffle fundraiser."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
