package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
	mockedUseCase "github.com/rocketscienceinc/tictactoe-hotseat/mocks/usecase"
	"github.com/rocketscienceinc/tictactoe-hotseat/testing/suite"
)

var (
	errRedisDown    = errors.New("redis down")
	errGameNotFound = errors.New("game not found")
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func stateAfter(t *testing.T, id string, moves ...entity.Position) *entity.GameState {
	t.Helper()

	game, err := tictactoe.NewGameController("A", "B")
	require.NoError(t, err)

	for _, move := range moves {
		require.NoError(t, game.PlayRound(move))
	}

	state := game.State(id)
	return &state
}

func TestGameManager_StartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates and stores a new game", func(t *testing.T) {
		// Given: a repository that accepts writes
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		mockGameRepo.EXPECT().
			CreateOrUpdate(mock.Anything, mock.AnythingOfType("*entity.GameState")).
			Return(nil).
			Once()

		// When: a game is started
		game, err := manager.StartGame(ctx, "Alice", "Bob")

		// Then: a fresh game with an id is returned
		require.NoError(t, err)
		assert.NotEmpty(t, game.ID)
		assert.Equal(t, "Alice", game.ActivePlayer.Name)
		assert.Equal(t, entity.StatusInProgress, game.Status)
	})

	t.Run("Returns error on empty name without touching storage", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		game, err := manager.StartGame(ctx, "Alice", "")

		require.ErrorIs(t, err, apperror.ErrEmptyPlayerName)
		assert.Nil(t, game)
	})

	t.Run("Returns error if storage fails", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		mockGameRepo.EXPECT().
			CreateOrUpdate(mock.Anything, mock.Anything).
			Return(errRedisDown).
			Once()

		game, err := manager.StartGame(ctx, "Alice", "Bob")

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
	})
}

// expectUpdate makes Update run apply against stored, the way the repository does inside its transaction.
func expectUpdate(repo *mockedUseCase.MockgameRepo, id string, stored *entity.GameState, written **entity.GameState) {
	repo.EXPECT().
		Update(mock.Anything, id, mock.Anything).
		RunAndReturn(func(_ context.Context, _ string, apply func(*entity.GameState) (*entity.GameState, error)) (*entity.GameState, error) {
			next, err := apply(stored)
			if err != nil {
				return nil, err
			}

			if written != nil {
				*written = next
			}

			return next, nil
		}).
		Once()
}

func TestGameManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays the move and stores the result", func(t *testing.T) {
		// Given: a stored game with one move
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		var saved *entity.GameState
		expectUpdate(mockGameRepo, "g1", stateAfter(t, "g1", entity.Position{Row: 0, Column: 0}), &saved)

		// When: B plays the center
		game, err := manager.MakeTurn(ctx, "g1", entity.Position{Row: 1, Column: 1})

		// Then: the stored game has both marks and it is A's turn again
		require.NoError(t, err)
		assert.Equal(t, saved, game)
		assert.Equal(t, entity.MarkO, game.Board[4])
		assert.Equal(t, "A", game.ActivePlayer.Name)
		assert.Equal(t, 2, game.Moves)
	})

	t.Run("Winning move finishes the game", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		expectUpdate(mockGameRepo, "g1", stateAfter(t, "g1",
			entity.Position{Row: 0, Column: 0}, entity.Position{Row: 1, Column: 1},
			entity.Position{Row: 0, Column: 1}, entity.Position{Row: 2, Column: 2},
		), nil)

		game, err := manager.MakeTurn(ctx, "g1", entity.Position{Row: 0, Column: 2})

		require.NoError(t, err)
		assert.True(t, game.GameOver)
		assert.Equal(t, "A", game.Winner)
	})

	t.Run("Rejected move returns the unchanged game and is not stored", func(t *testing.T) {
		// Given: a stored game where the corner is taken
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		stored := stateAfter(t, "g1", entity.Position{Row: 0, Column: 0})

		var saved *entity.GameState
		expectUpdate(mockGameRepo, "g1", stored, &saved)

		// When: B plays the taken corner
		game, err := manager.MakeTurn(ctx, "g1", entity.Position{Row: 0, Column: 0})

		// Then: ErrCellOccupied together with the game as it was
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, stored, game)
		assert.Nil(t, saved)
	})

	t.Run("Out of range move is rejected with the game", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		stored := stateAfter(t, "g1")
		expectUpdate(mockGameRepo, "g1", stored, nil)

		game, err := manager.MakeTurn(ctx, "g1", entity.Position{Row: 3, Column: 0})

		require.ErrorIs(t, err, apperror.ErrInvalidCoordinate)
		assert.Equal(t, stored, game)
	})

	t.Run("Move after the game is over is rejected", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		expectUpdate(mockGameRepo, "g1", stateAfter(t, "g1",
			entity.Position{Row: 0, Column: 0}, entity.Position{Row: 1, Column: 1},
			entity.Position{Row: 0, Column: 1}, entity.Position{Row: 2, Column: 2},
			entity.Position{Row: 0, Column: 2},
		), nil)

		game, err := manager.MakeTurn(ctx, "g1", entity.Position{Row: 2, Column: 0})

		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, "A", game.Winner)
	})

	t.Run("Returns error if the game is missing", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		mockGameRepo.EXPECT().
			Update(mock.Anything, "nope", mock.Anything).
			Return((*entity.GameState)(nil), errGameNotFound).
			Once()

		game, err := manager.MakeTurn(ctx, "nope", entity.Position{})

		require.ErrorIs(t, err, errGameNotFound)
		assert.Nil(t, game)
	})

	t.Run("Returns error on a corrupted game", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		corrupted := stateAfter(t, "g1")
		corrupted.Board[0] = "Z"
		expectUpdate(mockGameRepo, "g1", corrupted, nil)

		game, err := manager.MakeTurn(ctx, "g1", entity.Position{Row: 1, Column: 1})

		require.ErrorIs(t, err, apperror.ErrCorruptedState)
		assert.Nil(t, game)
	})
}

func TestGameManager_MakeTurn_Concurrent(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: a game stored in redis
	manager := NewGameManager(newLogger(), repository.NewGameRepository(st.Storage, time.Hour))

	game, err := manager.StartGame(ctx, "A", "B")
	require.NoError(t, err)

	// When: two moves for the same game arrive at once
	moves := []entity.Position{{Row: 0, Column: 0}, {Row: 2, Column: 2}}
	errs := make([]error, len(moves))

	var wg sync.WaitGroup
	for i, move := range moves {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = manager.MakeTurn(ctx, game.ID, move)
		}()
	}
	wg.Wait()

	// Then: both moves are stored, one for each player
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	stored, err := manager.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Moves)
	assert.ElementsMatch(t, []entity.Mark{entity.MarkX, entity.MarkO}, []entity.Mark{stored.Board[0], stored.Board[8]})
	assert.Equal(t, "A", stored.ActivePlayer.Name)
}

func TestGameManager_ResetRound(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts over with the same players", func(t *testing.T) {
		// Given: a finished game
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		var saved *entity.GameState
		expectUpdate(mockGameRepo, "g1", stateAfter(t, "g1",
			entity.Position{Row: 0, Column: 0}, entity.Position{Row: 1, Column: 1},
			entity.Position{Row: 0, Column: 1}, entity.Position{Row: 2, Column: 2},
			entity.Position{Row: 0, Column: 2},
		), &saved)

		// When: the round is reset
		game, err := manager.ResetRound(ctx, "g1")

		// Then: the same players start over under the same id
		require.NoError(t, err)
		assert.Equal(t, stateAfter(t, "g1"), game)
		assert.Equal(t, game, saved)
	})

	t.Run("Returns error if the game is missing", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		mockGameRepo.EXPECT().
			Update(mock.Anything, "nope", mock.Anything).
			Return((*entity.GameState)(nil), errGameNotFound).
			Once()

		game, err := manager.ResetRound(ctx, "nope")

		require.ErrorIs(t, err, errGameNotFound)
		assert.Nil(t, game)
	})
}

func TestGameManager_EndGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes the game", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		mockGameRepo.EXPECT().DeleteByID(mock.Anything, "g1").Return(nil).Once()

		require.NoError(t, manager.EndGame(ctx, "g1"))
	})

	t.Run("Returns error if delete fails", func(t *testing.T) {
		mockGameRepo := mockedUseCase.NewMockgameRepo(t)
		manager := NewGameManager(newLogger(), mockGameRepo)

		mockGameRepo.EXPECT().DeleteByID(mock.Anything, "g1").Return(errGameNotFound).Once()

		assert.ErrorIs(t, manager.EndGame(ctx, "g1"), errGameNotFound)
	})
}
