package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleDeliveryDecodesEvent(t *testing.T) {
	sent := BookingStatusChanged{
		BookingID: "b1",
		Email:     "ada@example.com",
		From:      "pending",
		To:        "confirmed",
		ChangedAt: time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(sent)
	require.NoError(t, err)

	var got BookingStatusChanged
	err = handleDelivery(context.Background(), body, func(_ context.Context, ev BookingStatusChanged) error {
		got = ev
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, sent, got)
}

func TestHandleDeliveryRejectsGarbage(t *testing.T) {
	called := false
	err := handleDelivery(context.Background(), []byte("not json"), func(context.Context, BookingStatusChanged) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestHandleDeliveryPropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	err := handleDelivery(context.Background(), []byte(`{"booking_id":"b1"}`), func(context.Context, BookingStatusChanged) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestSleepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Minute))
}
