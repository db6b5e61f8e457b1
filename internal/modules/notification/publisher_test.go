package notification

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallspace/internal/domain"
)

// silentBroker accepts TCP connections and never speaks AMQP.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestAMQPPublisher_HandshakeHonoursDeadline(t *testing.T) {
	pub := NewAMQPPublisher(silentBroker(t), "reservation.events")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := pub.Publish(ctx, Event{Type: domain.NotifReservationRequested, RecipientID: 100})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestAMQPPublisher_CancelledContext(t *testing.T) {
	pub := NewAMQPPublisher(silentBroker(t), "reservation.events")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pub.Publish(ctx, Event{Type: domain.NotifReservationRequested, RecipientID: 100})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNotify_SilentBrokerDoesNotStall(t *testing.T) {
	repo := setupRepo(t)
	svc := NewService(repo, NewAMQPPublisher(silentBroker(t), "reservation.events"), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := svc.Notify(ctx, 100, domain.NotifReservationRequested, map[string]any{"reservation_id": int64(1)})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	list, _, err := svc.GetUserNotifications(context.Background(), 100, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
