package api

import (
	"time"

	"zapdash/internal/api/handlers"
	"zapdash/internal/api/middleware"
	"zapdash/internal/api/validation"
	"zapdash/internal/gateway"
	"zapdash/internal/repository"
	"zapdash/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type Server struct {
	router  *gin.Engine
	db      *gorm.DB
	gateway gateway.API
}

func NewServer(db *gorm.DB, gw gateway.API) *Server {
	server := &Server{
		router:  gin.New(),
		db:      db,
		gateway: gw,
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	server.router.Use(cors.New(corsConfig))

	server.router.Use(middleware.Recovery())
	server.router.Use(middleware.RequestID())
	server.router.Use(middleware.Logger())

	server.initializeRoutes()

	return server
}

func (s *Server) initializeRoutes() {
	// Repositories
	connectionRepo := repository.NewConnectionRepository(s.db)
	teamRepo := repository.NewTeamRepository(s.db)
	profileRepo := repository.NewProfileRepository(s.db)

	// Services
	connectionService := service.NewConnectionService(connectionRepo, s.gateway)
	teamService := service.NewTeamService(teamRepo, profileRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler(s.db)
	userHandler := handlers.NewUserHandler()
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	teamHandler := handlers.NewTeamHandler(teamService)

	// Public routes
	public := s.router.Group("/api/v1")
	{
		public.GET("/health", healthHandler.Check)
	}

	// Protected routes
	auth := middleware.NewAuthMiddleware(profileRepo)
	protected := s.router.Group("/api/v1")
	protected.Use(auth.RequireAuth())
	{
		protected.GET("/user/profile", userHandler.GetProfile)
		protected.GET("/profiles", teamHandler.ListProfiles)

		// Connection routes
		protected.GET("/connections", connectionHandler.ListConnections)
		protected.POST("/connections", connectionHandler.CreateConnection)
		protected.POST("/connections/sync", connectionHandler.SyncConnections)
		protected.DELETE("/connections/:name", connectionHandler.DeleteConnection)

		// Pairing routes are polled by clients; throttle them so a tight
		// poller does not exhaust the gateway's own 429 budget.
		pairing := protected.Group("")
		pairing.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{RPS: 5, Burst: 10}))
		{
			pairing.POST("/connections/:name/connect", connectionHandler.Connect)
			pairing.GET("/connections/:name/status", connectionHandler.Status)
		}

		protected.POST("/connections/:name/logout", connectionHandler.Logout)
		protected.GET("/connections/:name/webhook", connectionHandler.GetWebhook)
		protected.PUT("/connections/:name/webhook", connectionHandler.SetWebhook)

		// Team routes (listing is open to members; mutations are admin only)
		protected.GET("/teams", teamHandler.ListTeams)

		admin := protected.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.PUT("/connections/:name/team", connectionHandler.AssignTeam)
			admin.POST("/teams", teamHandler.CreateTeam)
			admin.DELETE("/teams/:id", teamHandler.DeleteTeam)
			admin.POST("/teams/:id/members", teamHandler.AddMembers)
			admin.DELETE("/teams/:id/members/:userId", teamHandler.RemoveMember)
		}
	}
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the underlying engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
