package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/accountability"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func event() accountability.Event {
	return accountability.Event{
		UserEmail:  "ana@example.com",
		BudgetID:   uuid.MustParse("7f1c1f7e-4c5e-4a55-9d7b-1a2b3c4d5e6f"),
		Limit:      decimal.NewFromInt(500),
		Spent:      decimal.NewFromInt(570),
		Overage:    decimal.NewFromInt(70),
		Percentage: 114,
		OccurredAt: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_Notify(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch, exchange: "tally"}

	require.NoError(t, p.Notify(context.Background(), event()))

	assert.Equal(t, "tally", ch.exchange)
	assert.Equal(t, BudgetExceededType, ch.key)
	assert.Equal(t, amqp091.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	msg, err := BudgetExceededMessageFromJSON(ch.msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", msg.UserEmail)
	assert.Equal(t, "70.00", msg.Overage)
	assert.Equal(t, "7f1c1f7e-4c5e-4a55-9d7b-1a2b3c4d5e6f", msg.BudgetID)
}

func TestPublisher_NotifyError(t *testing.T) {
	p := &Publisher{channel: &fakeChannel{err: errors.New("channel closed")}, exchange: "tally"}

	err := p.Notify(context.Background(), event())
	assert.ErrorContains(t, err, "publish message")
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch}

	assert.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
