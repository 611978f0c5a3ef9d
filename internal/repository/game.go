package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const (
	gameKeyPrefix    = "game:"
	maxUpdateRetries = 50
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrUpdateConflict = errors.New("game changed too often while updating")
)

// UpdateFunc receives the stored game and returns the version to write. An error aborts the update.
type UpdateFunc = func(game *entity.GameState) (*entity.GameState, error)

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.GameState) error
	GetByID(ctx context.Context, id string) (*entity.GameState, error)
	Update(ctx context.Context, id string, apply UpdateFunc) (*entity.GameState, error)
	DeleteByID(ctx context.Context, id string) error
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository stores games as JSON. Every write pushes the expiry ttl forward; zero keeps games forever.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.GameState) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	err = that.client.Set(ctx, gameKeyPrefix+game.ID, gameJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.GameState, error) {
	return that.get(ctx, that.client, gameKeyPrefix+id)
}

// Update runs apply against the stored game and writes the result only if nobody wrote the key in between.
// apply is called again with the fresh game after a conflicting write.
func (that *dbGame) Update(ctx context.Context, id string, apply UpdateFunc) (*entity.GameState, error) {
	key := gameKeyPrefix + id

	var updated *entity.GameState

	txf := func(tx *redis.Tx) error {
		current, err := that.get(ctx, tx, key)
		if err != nil {
			return err
		}

		next, err := apply(current)
		if err != nil {
			return err
		}

		gameJSON, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("could not marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, gameJSON, that.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = next

		return nil
	}

	for range maxUpdateRetries {
		err := that.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return nil, err
		}

		return updated, nil
	}

	return nil, ErrUpdateConflict
}

func (that *dbGame) get(ctx context.Context, cmd getter, key string) (*entity.GameState, error) {
	response, err := cmd.Get(ctx, key).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.GameState
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	if deleted == 0 {
		return ErrGameNotFound
	}

	return nil
}
