package rabbitmq_consumer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconciliation-service/pkg/rabbitmq/rabbitmq_common"
)

type ackCall struct {
	ack     bool
	requeue bool
}

type fakeAcknowledger struct {
	mu    sync.Mutex
	calls []ackCall
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ackCall{ack: true})
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ackCall{requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func newTestConsumer(handler MessageHandler, maxInFlight int) *DistributingConsumer {
	return &DistributingConsumer{
		baseConsumer: &baseConsumer{Logger: rabbitmq_common.NewNoopLogger()},
		handler:      handler,
		slots:        make(chan struct{}, maxInFlight),
	}
}

func TestHandle_AckNackMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ackCall
	}{
		{"success", nil, ackCall{ack: true}},
		{"requeue", fmt.Errorf("%w: busy", ErrRequeue), ackCall{requeue: true}},
		{"failure", errors.New("boom"), ackCall{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAcknowledger{}
			c := newTestConsumer(func(ctx context.Context, d amqp.Delivery) error { return tt.err }, 1)

			c.handle(context.Background(), amqp.Delivery{Acknowledger: ack, DeliveryTag: 1})
			require.Len(t, ack.calls, 1)
			assert.Equal(t, tt.want, ack.calls[0])
		})
	}
}

func TestDispatch_RespectsMaxInFlight(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		peak     int
	)
	release := make(chan struct{})
	c := newTestConsumer(func(ctx context.Context, d amqp.Delivery) error {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		<-release
		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil
	}, 1)

	msgs := make(chan amqp.Delivery, 3)
	ack := &fakeAcknowledger{}
	for i := 0; i < 3; i++ {
		msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: uint64(i)}
	}
	close(msgs)

	done := make(chan struct{})
	go func() {
		c.dispatch(context.Background(), msgs)
		close(done)
	}()
	for i := 0; i < 3; i++ {
		release <- struct{}{}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not drain the deliveries")
	}
	c.baseConsumer.wg.Wait()

	assert.Equal(t, 1, peak)
	assert.Len(t, ack.calls, 3)
}

func TestNewDistributingConsumer_RequiresHandler(t *testing.T) {
	_, err := NewDistributingConsumer(ConsumerConfig{}, DistributingOptions{}, nil, nil)
	assert.Error(t, err)
}
