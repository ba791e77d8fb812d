package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"

	"linkmark/internal/database"
	"linkmark/internal/repositories"
	"linkmark/internal/services"
)

type Server struct {
	port            int
	httpServer      *http.Server
	db              database.Service
	userService     services.UserService
	bookmarkService services.BookmarkService
	folderService   services.FolderService
	metaService     services.MetaService
	authService     services.AuthService
}

func NewServer() *Server {
	portStr := os.Getenv("PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Warn().Str("port", portStr).Msg("Invalid PORT environment variable. Using default 8080.")
		port = 8080
	}

	db := database.New()

	userRepo := repositories.NewUserRepository(db)
	bookmarkRepo := repositories.NewBookmarkRepository(db)
	folderRepo := repositories.NewFolderRepository(db)

	s := &Server{
		port:            port,
		db:              db,
		userService:     services.NewUserService(userRepo),
		bookmarkService: services.NewBookmarkService(bookmarkRepo, folderRepo, userRepo),
		folderService:   services.NewFolderService(folderRepo, bookmarkRepo, userRepo),
		metaService:     services.NewMetaService(nil),
		authService:     services.NewAuthService(userRepo),
	}

	services.InitializeGoth()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	if err := s.db.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
