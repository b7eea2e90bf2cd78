package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/portfolio/blog/application"
	"github.com/dfryer1193/portfolio/blog/persistence"
	"github.com/dfryer1193/portfolio/internal/config"
	"github.com/dfryer1193/portfolio/internal/logging"
	"github.com/dfryer1193/portfolio/internal/middleware"
	"github.com/dfryer1193/portfolio/internal/rest"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, reading configuration from the environment")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := logging.Configure(cfg.LogLevel, cfg.LogPretty); err != nil {
		log.Fatal().Err(err).Msg("Failed to configure logging")
	}

	postRepo := persistence.NewDirPostRepository(cfg.PostsDir)
	if _, err := postRepo.ListSlugs(context.Background()); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.PostsDir).Msg("Post directory is not readable")
	}

	markdownRenderer := application.NewMarkdownRenderer(cfg.AssetRoot)

	postService, err := application.NewPostService(postRepo, markdownRenderer, cfg.RenderCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create post service")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.Use(gin.CustomRecovery(middleware.HandlePanics()))

	rest.NewApi(r, postService, rest.Options{
		DefaultLimit: cfg.MaxPostCount,
		AssetRoot:    cfg.AssetRoot,
		ImagesDir:    cfg.ImagesDir,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Info().Msg("Starting server on port :" + fmt.Sprint(cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
