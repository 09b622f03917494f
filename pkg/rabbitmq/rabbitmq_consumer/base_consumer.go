package rabbitmq_consumer

import (
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"reconciliation-service/pkg/rabbitmq/rabbitmq_common"
)

type ConsumerConfig struct {
	rabbitmq_common.Config

	// QueueName может быть пустым только при DeclareQueue: имя выдаст сервер.
	QueueName    string
	DeclareQueue bool
	DurableQueue bool
	QueueArgs    amqp.Table // например x-dead-letter-exchange

	// ExchangeNameForBind пустой - очередь не привязывается.
	ExchangeNameForBind    string
	DeclareExchangeForBind bool
	ExchangeTypeForBind    string
	DurableExchangeForBind bool
	RoutingKeyForBind      string

	// PrefetchCount <= 0 - без ограничения.
	PrefetchCount int
	ConsumerTag   string

	Logger rabbitmq_common.Logger
}

func (c ConsumerConfig) validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if !c.DeclareQueue && c.QueueName == "" {
		return fmt.Errorf("queue name is required if DeclareQueue is false")
	}
	if c.DeclareExchangeForBind && (c.ExchangeNameForBind == "" || c.ExchangeTypeForBind == "") {
		return fmt.Errorf("exchange name and type are required to declare an exchange for binding")
	}
	return nil
}

// baseConsumer - канал, QoS, очередь и привязка.
type baseConsumer struct {
	config          ConsumerConfig
	connection      *amqp.Connection
	channel         *amqp.Channel
	actualQueueName string
	wg              sync.WaitGroup

	Logger rabbitmq_common.Logger
}

func newBaseConsumer(cfg ConsumerConfig, connManager *rabbitmq_common.ConnectionManager) (*baseConsumer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("base consumer: invalid config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("base consumer: failed to get channel from manager: %w", err)
	}
	c := &baseConsumer{config: cfg, connection: conn, channel: ch, Logger: logger}
	if err := c.setup(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("base consumer: setup failed: %w", err)
	}
	return c, nil
}

func (c *baseConsumer) setup() error {
	cfg := c.config

	if cfg.PrefetchCount > 0 {
		c.Logger.Debug("Setting QoS", "prefetch_count", cfg.PrefetchCount)
		if err := c.channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	c.actualQueueName = cfg.QueueName
	if cfg.DeclareQueue {
		c.Logger.Debug("Declaring queue", "name", cfg.QueueName, "durable", cfg.DurableQueue)
		q, err := c.channel.QueueDeclare(cfg.QueueName, cfg.DurableQueue, false, false, false, cfg.QueueArgs)
		if err != nil {
			return fmt.Errorf("failed to declare queue '%s': %w", cfg.QueueName, err)
		}
		c.actualQueueName = q.Name
	}

	if cfg.DeclareExchangeForBind {
		c.Logger.Debug("Declaring exchange", "name", cfg.ExchangeNameForBind, "type", cfg.ExchangeTypeForBind)
		if err := c.channel.ExchangeDeclare(cfg.ExchangeNameForBind, cfg.ExchangeTypeForBind, cfg.DurableExchangeForBind, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange '%s' for binding: %w", cfg.ExchangeNameForBind, err)
		}
	}

	if cfg.ExchangeNameForBind != "" {
		c.Logger.Debug("Binding queue to exchange",
			"queue_name", c.actualQueueName,
			"exchange_name", cfg.ExchangeNameForBind,
			"routing_key", cfg.RoutingKeyForBind,
		)
		if err := c.channel.QueueBind(c.actualQueueName, cfg.RoutingKeyForBind, cfg.ExchangeNameForBind, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue '%s' to exchange '%s': %w", c.actualQueueName, cfg.ExchangeNameForBind, err)
		}
	}

	c.Logger.Debug("Setup complete", "queue", c.actualQueueName)
	return nil
}

// Close дожидается обработчиков и закрывает канал.
func (c *baseConsumer) Close() error {
	c.Logger.Debug("Waiting for message handlers to finish")
	c.wg.Wait()

	if c.channel == nil {
		return nil
	}
	err := c.channel.Close()
	c.channel = nil
	if err != nil {
		c.Logger.Error(err, "Error closing channel")
		return err
	}
	c.Logger.Info("Consumer closed")
	return nil
}
