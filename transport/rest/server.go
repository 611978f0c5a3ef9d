package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	"github.com/rs/cors"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const shutdownTimeout = 10 * time.Second

type gameUseCase interface {
	StartGame(ctx context.Context, playerOne, playerTwo string) (*entity.GameState, error)
	GetGame(ctx context.Context, id string) (*entity.GameState, error)
	MakeTurn(ctx context.Context, id string, pos entity.Position) (*entity.GameState, error)
	ResetRound(ctx context.Context, id string) (*entity.GameState, error)
	EndGame(ctx context.Context, id string) error
}

type Server struct {
	logger  *slog.Logger
	games   gameUseCase
	decoder *schema.Decoder
	handler http.Handler
}

func New(logger *slog.Logger, games gameUseCase, allowedOrigins []string) *Server {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	server := &Server{
		logger:  logger.With("component", "rest"),
		games:   games,
		decoder: decoder,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", server.handlePing)
	mux.HandleFunc("POST /games", server.handleNewGame)
	mux.HandleFunc("GET /games/{id}", server.handleGetGame)
	mux.HandleFunc("POST /games/{id}/moves", server.handleMove)
	mux.HandleFunc("POST /games/{id}/reset", server.handleReset)
	mux.HandleFunc("DELETE /games/{id}", server.handleEndGame)

	server.handler = cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)

	return server
}

func (that *Server) Handler() http.Handler {
	return that.handler
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
