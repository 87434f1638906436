package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/qinghao1/gojek/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockLocationUpdater struct {
	mock.Mock
}

func (m *MockLocationUpdater) UpdateLocation(ctx context.Context, id int, body []byte) (domain.DriverLocation, error) {
	args := m.Called(ctx, id, body)
	return args.Get(0).(domain.DriverLocation), args.Error(1)
}

type reply struct {
	Type    MessageType `json:"type"`
	Payload AckPayload  `json:"payload"`
}

func readReply(t *testing.T, c *Client) reply {
	t.Helper()
	select {
	case raw := <-c.send:
		var r reply
		require.NoError(t, json.Unmarshal(raw, &r))
		return r
	case <-time.After(time.Second):
		t.Fatal("no reply queued")
		return reply{}
	}
}

func TestHub_HandleMessage_LocationUpdate(t *testing.T) {
	svc := new(MockLocationUpdater)
	hub := NewHub(svc, zap.NewNop())
	client := newClient(hub, nil, 5)

	payload := `{"latitude":1,"longitude":2,"accuracy":0.5}`
	svc.On("UpdateLocation", mock.Anything, 5, []byte(payload)).Return(domain.DriverLocation{ID: 5}, nil).Once()

	hub.HandleMessage(context.Background(), client, []byte(`{"type":"LOCATION_UPDATE","payload":`+payload+`}`))

	r := readReply(t, client)
	assert.Equal(t, MsgLocationAck, r.Type)
	assert.Empty(t, r.Payload.Errors)
	svc.AssertExpectations(t)
}

func TestHub_HandleMessage_ValidationErrors(t *testing.T) {
	svc := new(MockLocationUpdater)
	hub := NewHub(svc, zap.NewNop())
	client := newClient(hub, nil, 5)

	msgs := []string{"Latitude should be between +/- 90", "Longitude should be between +/- 90"}
	svc.On("UpdateLocation", mock.Anything, 5, mock.Anything).Return(domain.DriverLocation{}, domain.NewValidationError(msgs...))

	hub.HandleMessage(context.Background(), client, []byte(`{"type":"LOCATION_UPDATE","payload":{"latitude":100,"longitude":100}}`))

	r := readReply(t, client)
	assert.Equal(t, MsgLocationAck, r.Type)
	assert.Equal(t, msgs, r.Payload.Errors)
}

func TestHub_HandleMessage_InternalError(t *testing.T) {
	svc := new(MockLocationUpdater)
	hub := NewHub(svc, zap.NewNop())
	client := newClient(hub, nil, 5)
	svc.On("UpdateLocation", mock.Anything, 5, mock.Anything).Return(domain.DriverLocation{}, errors.New("db down"))

	hub.HandleMessage(context.Background(), client, []byte(`{"type":"LOCATION_UPDATE","payload":{}}`))

	r := readReply(t, client)
	assert.Equal(t, []string{"Internal error"}, r.Payload.Errors)
}

func TestHub_HandleMessage_BadEnvelope(t *testing.T) {
	svc := new(MockLocationUpdater)
	hub := NewHub(svc, zap.NewNop())
	client := newClient(hub, nil, 5)

	hub.HandleMessage(context.Background(), client, []byte(`not json`))
	r := readReply(t, client)
	assert.Equal(t, MsgError, r.Type)

	hub.HandleMessage(context.Background(), client, []byte(`{"type":"ORDER_RESPONSE","payload":{}}`))
	r = readReply(t, client)
	assert.Equal(t, MsgError, r.Type)
	assert.Equal(t, []string{"Unknown message type"}, r.Payload.Errors)

	svc.AssertNotCalled(t, "UpdateLocation", mock.Anything, mock.Anything, mock.Anything)
}

func TestHub_RunRegistersAndReplaces(t *testing.T) {
	hub := NewHub(new(MockLocationUpdater), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	first := newClient(hub, nil, 9)
	hub.register <- first
	require.Eventually(t, func() bool { return hub.Connected() == 1 }, time.Second, 5*time.Millisecond)

	assert.True(t, hub.SendToDriver(9, map[string]string{"hello": "driver"}))
	assert.False(t, hub.SendToDriver(10, map[string]string{"hello": "nobody"}))
	<-first.send

	second := newClient(hub, nil, 9)
	hub.register <- second
	select {
	case _, open := <-first.send:
		assert.False(t, open, "replaced connection should be closed")
	case <-time.After(time.Second):
		t.Fatal("replaced connection still open")
	}
	assert.Equal(t, 1, hub.Connected())

	// A stale unregister must not evict the replacement.
	hub.unregister <- first
	hub.unregister <- second
	require.Eventually(t, func() bool { return hub.Connected() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	assert.False(t, second.Send("late"))
}
