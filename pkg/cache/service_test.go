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

type cachedEvent struct {
	Ref  string `json:"ref"`
	Name string `json:"name"`
}

func TestServiceGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)
	ctx := context.Background()

	want := cachedEvent{Ref: "E-001", Name: "Harbor Lights"}
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectGet("event:abc").SetVal(string(payload))

	var got cachedEvent
	require.NoError(t, svc.Get(ctx, "event:abc", &got))
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceGetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	mock.ExpectGet("event:missing").RedisNil()

	var got cachedEvent
	err := svc.Get(context.Background(), "event:missing", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceSet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	value := cachedEvent{Ref: "E-002", Name: "Winter Gala"}
	payload, err := json.Marshal(value)
	require.NoError(t, err)

	mock.ExpectSet("event:def", payload, 5*time.Minute).SetVal("OK")

	require.NoError(t, svc.Set(context.Background(), "event:def", value, 5*time.Minute))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	mock.ExpectDel("event:abc").SetVal(1)

	require.NoError(t, svc.Delete(context.Background(), "event:abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceDeletePattern(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	mock.ExpectKeys("event:*").SetVal([]string{"event:a", "event:b"})
	mock.ExpectDel("event:a", "event:b").SetVal(2)

	require.NoError(t, svc.DeletePattern(context.Background(), "event:*"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
