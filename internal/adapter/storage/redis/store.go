package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/qinghao1/gojek/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

const DefaultKey = "driver_locations"

// LocationStore keeps every driver as one JSON field of a single hash.
type LocationStore struct {
	client *redis.Client
	key    string
}

func NewLocationStore(client *redis.Client, key string) *LocationStore {
	if key == "" {
		key = DefaultKey
	}
	return &LocationStore{client: client, key: key}
}

func (s *LocationStore) Get(ctx context.Context, id int) (domain.DriverLocation, error) {
	data, err := s.client.HGet(ctx, s.key, strconv.Itoa(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DriverLocation{}, domain.ErrDriverNotFound
	}
	if err != nil {
		return domain.DriverLocation{}, fmt.Errorf("get driver %d: %w", id, err)
	}

	var loc domain.DriverLocation
	if err := json.Unmarshal(data, &loc); err != nil {
		return domain.DriverLocation{}, fmt.Errorf("decode driver %d: %w", id, err)
	}
	return loc, nil
}

func (s *LocationStore) Upsert(ctx context.Context, loc domain.DriverLocation) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, s.key, strconv.Itoa(loc.ID), data).Err()
}

func (s *LocationStore) All(ctx context.Context) ([]domain.DriverLocation, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}

	out := make([]domain.DriverLocation, 0, len(fields))
	for field, data := range fields {
		var loc domain.DriverLocation
		if err := json.Unmarshal([]byte(data), &loc); err != nil {
			return nil, fmt.Errorf("decode driver %s: %w", field, err)
		}
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
