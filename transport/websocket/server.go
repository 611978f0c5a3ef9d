package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const shutdownTimeout = 10 * time.Second

type gameUseCase interface {
	GetGame(ctx context.Context, id string) (*entity.GameState, error)
	MakeTurn(ctx context.Context, id string, pos entity.Position) (*entity.GameState, error)
	ResetRound(ctx context.Context, id string) (*entity.GameState, error)
}

type handlerFunc func(ctx context.Context, gameID string, msg *Message) (*entity.GameState, error)

type Server struct {
	logger   *slog.Logger
	games    gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, games gameUseCase, allowedOrigins []string) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(allowedOrigins),
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionState] = server.handleState
	server.handlers[actionTurn] = server.handleTurn
	server.handlers[actionReset] = server.handleReset

	return server
}

func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /games/{id}/ws", that.serveGame)

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
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

// serveGame upgrades the connection and answers messages for one game until the client leaves.
func (that *Server) serveGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	log := that.logger.With("method", "serveGame", "game_id", gameID)

	game, err := that.games.GetGame(r.Context(), gameID)
	if err != nil {
		log.Info("game not found", "error", err)
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		log.Error("unable to upgrade", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established")

	if err = conn.WriteJSON(Response{Action: actionState, Payload: ResponsePayload{Game: game}}); err != nil {
		log.Error("unable to write json", "error", err)
		return
	}

	that.handleMessages(r.Context(), conn, gameID)
}

func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, gameID string) {
	log := that.logger.With("method", "handleMessages", "game_id", gameID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("abnormal ws break", "error", err)
			}
			return
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			log.Info("malformed message", "error", err)

			if err = conn.WriteJSON(Response{Payload: ResponsePayload{Error: ErrMalformedMessage.Error()}}); err != nil {
				log.Error("unable to write json", "error", err)
				return
			}
			continue
		}

		response := Response{Action: msg.Action}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			response.Payload.Error = fmt.Sprintf("unknown action %q", msg.Action)
		} else {
			game, actionErr := handler(ctx, gameID, &msg)
			response.Payload.Game = game
			if actionErr != nil {
				log.Info("action failed", "action", msg.Action, "error", actionErr)
				response.Payload.Error = actionErr.Error()
			}
		}

		if err = conn.WriteJSON(response); err != nil {
			log.Error("unable to write json", "error", err)
			return
		}
	}
}
