package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
)

const maxBodyBytes = 1 << 12

type newGameRequest struct {
	PlayerOne string `json:"player_one"`
	PlayerTwo string `json:"player_two"`
}

type moveQuery struct {
	Row    int `schema:"row,required"`
	Column int `schema:"column,required"`
}

type errorResponse struct {
	Error string            `json:"error"`
	Game  *entity.GameState `json:"game,omitempty"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		that.sendJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	game, err := that.games.StartGame(r.Context(), req.PlayerOne, req.PlayerTwo)
	if err != nil {
		that.sendError(w, err, nil)
		return
	}

	that.sendJSON(w, http.StatusCreated, game)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.sendError(w, err, nil)
		return
	}

	that.sendJSON(w, http.StatusOK, game)
}

func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var query moveQuery
	if err := that.decoder.Decode(&query, r.URL.Query()); err != nil {
		that.sendJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	pos := entity.Position{Row: query.Row, Column: query.Column}

	game, err := that.games.MakeTurn(r.Context(), r.PathValue("id"), pos)
	if err != nil {
		that.sendError(w, err, game)
		return
	}

	that.sendJSON(w, http.StatusOK, game)
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.ResetRound(r.Context(), r.PathValue("id"))
	if err != nil {
		that.sendError(w, err, nil)
		return
	}

	that.sendJSON(w, http.StatusOK, game)
}

func (that *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.EndGame(r.Context(), r.PathValue("id")); err != nil {
		that.sendError(w, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) sendError(w http.ResponseWriter, err error, game *entity.GameState) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		that.sendJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	that.sendJSON(w, status, errorResponse{Error: err.Error(), Game: game})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrEmptyPlayerName), errors.Is(err, apperror.ErrInvalidCoordinate):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
