//go:build unit

package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cng-slot-booking/internal/domain/booking"
	"cng-slot-booking/internal/domain/token"
	"cng-slot-booking/internal/pkg/clock"
	"cng-slot-booking/internal/usecase/shared"
	"cng-slot-booking/tests/common/memuow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sweepNow = time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

func TestExpirySweeper_SweepOnce(t *testing.T) {
	store := memuow.New()
	pumpID := store.AddPump("Ring Road CNG", true)

	addToken := func(code string, expiry time.Time) (uuid.UUID, uuid.UUID) {
		bookingID := uuid.New()
		tokenID := store.AddBookingWithToken(shared.BookingSnapshot{ID: bookingID, PumpID: pumpID}, code, expiry)
		return bookingID, tokenID
	}

	_, overdue := addToken("CNG-AAAAAA", sweepNow.Add(-time.Minute))
	_, upcoming := addToken("CNG-BBBBBB", sweepNow.Add(time.Hour))
	cancelledBooking, cancelled := addToken("CNG-CCCCCC", sweepNow.Add(time.Hour))
	_, used := addToken("CNG-DDDDDD", sweepNow.Add(-time.Hour))
	store.ForceBookingStatus(cancelledBooking, booking.StatusCancelled)
	store.ForceTokenStatus(used, token.StatusUsed)

	sweeper := NewExpirySweeper(store, clock.NewMockClock(sweepNow), time.Minute)

	res, err := sweeper.SweepOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SweepResult{Overdue: 1, Cancelled: 1}, res)
	assert.Equal(t, token.StatusExpired.String(), store.TokenStatus(overdue))
	assert.Equal(t, token.StatusValid.String(), store.TokenStatus(upcoming))
	assert.Equal(t, token.StatusExpired.String(), store.TokenStatus(cancelled))
	assert.Equal(t, token.StatusUsed.String(), store.TokenStatus(used))

	again, err := sweeper.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestExpirySweeper_Failure(t *testing.T) {
	store := memuow.New()
	store.WriteErr = errors.New("connection reset")

	res, err := NewExpirySweeper(store, clock.NewMockClock(sweepNow), time.Minute).SweepOnce(context.Background())

	require.Error(t, err)
	assert.Zero(t, res)
}

func TestExpirySweeper_RunStopsOnCancel(t *testing.T) {
	store := memuow.New()
	sweeper := NewExpirySweeper(store, clock.NewMockClock(sweepNow), time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

type published struct {
	routingKey string
	messageID  string
	body       string
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []published
	failKey  string
}

func (p *fakePublisher) Publish(_ context.Context, routingKey, messageID string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if routingKey == p.failKey {
		return errors.New("channel closed")
	}
	p.messages = append(p.messages, published{routingKey: routingKey, messageID: messageID, body: string(body)})
	return nil
}

func enqueue(t *testing.T, store *memuow.Store, kind, topic, body string, runAt time.Time) {
	t.Helper()
	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().CreateJob(ctx, kind, topic, []byte(body), runAt)
	})
	require.NoError(t, err)
}

func TestOutboxRelay_RelayOnce(t *testing.T) {
	store := memuow.New()
	enqueue(t, store, shared.JobBookingCreated, "booking.created", `{"n":1}`, sweepNow.Add(-time.Minute))
	enqueue(t, store, shared.JobTokenRedeemed, "token.redeemed", `{"n":2}`, sweepNow)
	enqueue(t, store, shared.JobBookingCancelled, "booking.cancelled", `{"n":3}`, sweepNow.Add(time.Hour))

	pub := &fakePublisher{}
	relay := NewOutboxRelay(store, pub, clock.NewMockClock(sweepNow), time.Second, 10)

	sent, err := relay.RelayOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, pub.messages, 2)
	assert.Equal(t, "booking.created", pub.messages[0].routingKey)
	assert.Equal(t, `{"n":1}`, pub.messages[0].body)

	jobs := store.Jobs()
	assert.Equal(t, jobs[0].ID.String(), pub.messages[0].messageID)
	assert.Equal(t, "sent", jobs[0].Status)
	assert.Equal(t, "sent", jobs[1].Status)
	assert.Equal(t, "queued", jobs[2].Status)

	sent, err = relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestOutboxRelay_FailedPublishIsRescheduled(t *testing.T) {
	store := memuow.New()
	enqueue(t, store, shared.JobTokenRedeemed, "token.redeemed", `{}`, sweepNow)
	enqueue(t, store, shared.JobBookingCreated, "booking.created", `{}`, sweepNow)

	clk := clock.NewMockClock(sweepNow)
	pub := &fakePublisher{failKey: "token.redeemed"}
	relay := NewOutboxRelay(store, pub, clk, time.Second, 10)

	sent, err := relay.RelayOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	failed := store.Jobs()[0]
	assert.Equal(t, "queued", failed.Status)
	assert.Equal(t, int32(1), failed.Attempts)
	assert.Equal(t, "channel closed", failed.LastError)
	assert.Equal(t, sweepNow.Add(relayBaseBackoff), failed.RunAt)

	// not due again until the backoff passes
	sent, err = relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	pub.failKey = ""
	clk.Add(relayBaseBackoff)
	sent, err = relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, "sent", store.Jobs()[0].Status)
}

func TestOutboxRelay_BatchSize(t *testing.T) {
	store := memuow.New()
	for range 5 {
		enqueue(t, store, shared.JobBookingCreated, "booking.created", `{}`, sweepNow)
	}
	pub := &fakePublisher{}

	sent, err := NewOutboxRelay(store, pub, clock.NewMockClock(sweepNow), time.Second, 2).RelayOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
}

func TestRetryBackoff(t *testing.T) {
	testCases := []struct {
		attempts int32
		expected time.Duration
	}{
		{attempts: 0, expected: 10 * time.Second},
		{attempts: 1, expected: 10 * time.Second},
		{attempts: 2, expected: 20 * time.Second},
		{attempts: 3, expected: 40 * time.Second},
		{attempts: 8, expected: 1280 * time.Second},
		{attempts: 9, expected: relayMaxBackoff},
		{attempts: 40, expected: relayMaxBackoff},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, retryBackoff(tc.attempts), "attempts=%d", tc.attempts)
	}
}
