package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

var (
	ErrMissingCoordinates = errors.New("row and column are required")
	ErrMalformedMessage   = errors.New("message is not valid json")
)

func (that *Server) handleState(ctx context.Context, gameID string, _ *Message) (*entity.GameState, error) {
	return that.games.GetGame(ctx, gameID)
}

func (that *Server) handleTurn(ctx context.Context, gameID string, msg *Message) (*entity.GameState, error) {
	var payload TurnPayload

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.Row == nil || payload.Column == nil {
		return nil, ErrMissingCoordinates
	}

	return that.games.MakeTurn(ctx, gameID, entity.Position{Row: *payload.Row, Column: *payload.Column})
}

func (that *Server) handleReset(ctx context.Context, gameID string, _ *Message) (*entity.GameState, error) {
	return that.games.ResetRound(ctx, gameID)
}
