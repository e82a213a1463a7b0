package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kmcrae/warfront/api/internal/auth"
	"github.com/kmcrae/warfront/api/internal/config"
	"github.com/kmcrae/warfront/api/internal/handler"
	"github.com/kmcrae/warfront/api/internal/logger"
	"github.com/kmcrae/warfront/api/internal/middleware"
	redisrepo "github.com/kmcrae/warfront/api/internal/repository/redis"
	"github.com/kmcrae/warfront/api/internal/room"
	"github.com/kmcrae/warfront/api/pkg/risk"
)

func main() {
	logger.Init()
	cfg := config.Load()

	// Redis mirrors sanitized room state for spectator reads and
	// post-crash inspection. The server runs without it.
	var cache room.StateCache
	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, room state mirroring disabled")
	} else {
		defer redisClient.Close()
		cache = redisClient
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)

	wsHub := handler.NewHub()
	registry := room.NewRegistry(room.Options{
		GameConfig: risk.DefaultConfig(),
		AIPacing:   cfg.AIPacing,
	}, wsHub, cache)

	authHandler := handler.NewAuthHandler(jwtMgr)
	roomsHandler := handler.NewRoomsHandler(registry)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr, registry)

	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth (public)
	mux.HandleFunc("POST /auth/guest", authHandler.HandleGuest)

	// Protected API routes
	api := http.NewServeMux()
	api.HandleFunc("GET /rooms", roomsHandler.HandleList)
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /ws", wsHandler.ServeWS)

	root := middleware.Chain(mux, middleware.Logger, middleware.CORS(cfg.AllowedOrigins), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
