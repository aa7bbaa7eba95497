package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	mock.ExpectGet("missing-key").RedisNil()

	var dest cachedValue
	err := svc.Get(context.Background(), "missing-key", &dest)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	stored, _ := json.Marshal(cachedValue{Name: "seatmap", Count: 3})
	mock.ExpectGet("hit-key").SetVal(string(stored))

	var dest cachedValue
	require.NoError(t, svc.Get(context.Background(), "hit-key", &dest))
	assert.Equal(t, "seatmap", dest.Name)
	assert.Equal(t, 3, dest.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	value := cachedValue{Name: "seatmap", Count: 3}
	data, _ := json.Marshal(value)
	mock.ExpectSet("set-key", data, 30*time.Second).SetVal("OK")

	require.NoError(t, svc.Set(context.Background(), "set-key", value, 30*time.Second))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	mock.ExpectDel("del-key").SetVal(1)

	require.NoError(t, svc.Delete(context.Background(), "del-key"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrSetMissInvokesFetcher(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	value := cachedValue{Name: "fresh", Count: 1}
	data, _ := json.Marshal(value)

	mock.ExpectGet("aside-key").RedisNil()
	mock.ExpectSet("aside-key", data, time.Minute).SetVal("OK")

	fetched := false
	var dest cachedValue
	err := svc.GetOrSet(context.Background(), "aside-key", time.Minute, func() (interface{}, error) {
		fetched = true
		return value, nil
	}, &dest)

	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Equal(t, value, dest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrSetHitSkipsFetcher(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	stored, _ := json.Marshal(cachedValue{Name: "cached", Count: 2})
	mock.ExpectGet("aside-key").SetVal(string(stored))

	var dest cachedValue
	err := svc.GetOrSet(context.Background(), "aside-key", time.Minute, func() (interface{}, error) {
		t.Fatal("fetcher must not run on a cache hit")
		return nil, nil
	}, &dest)

	require.NoError(t, err)
	assert.Equal(t, "cached", dest.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
