package rabbitmq_consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"reconciliation-service/pkg/rabbitmq/rabbitmq_common"
)

// ErrRequeue: обработчик просит вернуть сообщение в очередь, а не отбрасывать его.
var ErrRequeue = errors.New("requeue message")

// MessageHandler обрабатывает одно сообщение. nil - ack, ошибка - nack без возврата в очередь,
// ошибка с ErrRequeue - nack с возвратом после RequeueDelay.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

type DistributingOptions struct {
	// MaxInFlight - сколько сообщений обрабатывается одновременно; 0 и 1 - по одному.
	MaxInFlight  int
	RequeueDelay time.Duration
}

// DistributingConsumer раздает сообщения обработчикам в горутинах, не больше MaxInFlight сразу.
type DistributingConsumer struct {
	baseConsumer *baseConsumer
	handler      MessageHandler
	slots        chan struct{}
	requeueDelay time.Duration
}

func NewDistributingConsumer(cfg ConsumerConfig, opts DistributingOptions, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("distributing consumer: message handler is required")
	}
	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("distributing consumer: %w", err)
	}
	if opts.MaxInFlight < 1 {
		opts.MaxInFlight = 1
	}
	return &DistributingConsumer{
		baseConsumer: bc,
		handler:      handler,
		slots:        make(chan struct{}, opts.MaxInFlight),
		requeueDelay: opts.RequeueDelay,
	}, nil
}

// StartConsuming блокируется до отмены ctx или закрытия соединения брокером.
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	bc := c.baseConsumer
	if bc.channel == nil || bc.connection == nil || bc.connection.IsClosed() {
		return fmt.Errorf("distributing consumer: not connected")
	}

	msgs, err := bc.channel.Consume(bc.actualQueueName, bc.config.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("distributing consumer %s: failed to register a consumer on queue '%s': %w", bc.config.ConsumerTag, bc.actualQueueName, err)
	}
	bc.Logger.Info("Waiting for messages", "queue_name", bc.actualQueueName)

	go c.dispatch(ctx, msgs)

	notifyClose := bc.connection.NotifyClose(make(chan *amqp.Error, 1))
	select {
	case <-ctx.Done():
		bc.Logger.Info("Context cancelled, shutting down consumer", "consumer_tag", bc.config.ConsumerTag)
		return nil
	case err := <-notifyClose:
		bc.Logger.Error(err, "Connection closed for consumer", "consumer_tag", bc.config.ConsumerTag)
		if err == nil {
			return fmt.Errorf("distributing consumer: connection closed")
		}
		return err
	}
}

func (c *DistributingConsumer) dispatch(ctx context.Context, msgs <-chan amqp.Delivery) {
	bc := c.baseConsumer
	for {
		// свободный слот берется до чтения, чтобы лишние сообщения оставались у брокера
		select {
		case <-ctx.Done():
			return
		case c.slots <- struct{}{}:
		}

		select {
		case <-ctx.Done():
			<-c.slots
			return
		case d, ok := <-msgs:
			if !ok {
				<-c.slots
				bc.Logger.Info("Deliveries channel closed", "consumer_tag", bc.config.ConsumerTag)
				return
			}
			bc.wg.Add(1)
			go func(delivery amqp.Delivery) {
				defer func() {
					<-c.slots
					bc.wg.Done()
				}()
				c.handle(ctx, delivery)
			}(d)
		}
	}
}

func (c *DistributingConsumer) handle(ctx context.Context, d amqp.Delivery) {
	bc := c.baseConsumer
	err := c.handler(ctx, d)
	switch {
	case err == nil:
		_ = d.Ack(false)
		bc.Logger.Debug("Message acked", "delivery_tag", d.DeliveryTag)
	case errors.Is(err, ErrRequeue):
		bc.Logger.Warn("Message requeued", "delivery_tag", d.DeliveryTag, "reason", err.Error())
		if c.requeueDelay > 0 {
			select {
			case <-time.After(c.requeueDelay):
			case <-ctx.Done():
			}
		}
		_ = d.Nack(false, true)
	default:
		bc.Logger.Error(err, "Handler failed, message dropped", "delivery_tag", d.DeliveryTag)
		_ = d.Nack(false, false)
	}
}

func (c *DistributingConsumer) Close() error {
	c.baseConsumer.Logger.Info("Closing consumer")
	return c.baseConsumer.Close()
}
