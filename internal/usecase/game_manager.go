package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.GameState) error
	GetByID(ctx context.Context, id string) (*entity.GameState, error)
	Update(ctx context.Context, id string, apply func(game *entity.GameState) (*entity.GameState, error)) (*entity.GameState, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager keeps hot-seat sessions in storage and addresses them by id.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
	}
}

func (that *GameManager) StartGame(ctx context.Context, playerOne, playerTwo string) (*entity.GameState, error) {
	game, err := tictactoe.NewGameController(playerOne, playerTwo)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	state := game.State(pkg.GenerateGameID())
	if err = that.updateGame(ctx, &state); err != nil {
		return nil, err
	}

	that.logger.Info("game started", "method", "StartGame", "game_id", state.ID)

	return &state, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.GameState, error) {
	state, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return state, nil
}

// MakeTurn plays pos for the active player. A rejected move returns the unchanged game with the error.
func (that *GameManager) MakeTurn(ctx context.Context, id string, pos entity.Position) (*entity.GameState, error) {
	log := that.logger.With("method", "MakeTurn", "game_id", id)

	var current *entity.GameState

	next, err := that.gameRepo.Update(ctx, id, func(game *entity.GameState) (*entity.GameState, error) {
		current = game

		controller, err := tictactoe.Restore(*game)
		if err != nil {
			return nil, fmt.Errorf("failed to restore game: %w", err)
		}

		if err = controller.PlayRound(pos); err != nil {
			return nil, fmt.Errorf("failed make turn: %w", err)
		}

		state := controller.State(id)
		return &state, nil
	})
	if err != nil {
		if current != nil && isRejectedMove(err) {
			log.Info("move rejected", "position", pos.String(), "reason", err)

			return current, err
		}

		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if next.IsFinished() {
		log.Info("game finished", "status", next.Status, "winner", next.Winner)
	}

	return next, nil
}

func isRejectedMove(err error) bool {
	return errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrInvalidCoordinate) ||
		errors.Is(err, apperror.ErrGameFinished)
}

// ResetRound starts a new round for the same players under the same id.
func (that *GameManager) ResetRound(ctx context.Context, id string) (*entity.GameState, error) {
	next, err := that.gameRepo.Update(ctx, id, func(game *entity.GameState) (*entity.GameState, error) {
		controller, err := tictactoe.NewGameController(game.Players[0].Name, game.Players[1].Name)
		if err != nil {
			return nil, fmt.Errorf("failed to reset game: %w", err)
		}

		state := controller.State(id)
		return &state, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Info("round reset", "method", "ResetRound", "game_id", id)

	return next, nil
}

func (that *GameManager) EndGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "method", "EndGame", "game_id", id)

	return nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.GameState) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
