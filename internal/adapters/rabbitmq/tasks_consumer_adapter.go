package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"reconciliation-service/internal/contextkeys"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
	usecases_port "reconciliation-service/internal/core/port/usecases_port"
	"reconciliation-service/pkg/rabbitmq/rabbitmq_common"
	"reconciliation-service/pkg/rabbitmq/rabbitmq_consumer"
)

type consumer interface {
	StartConsuming(ctx context.Context) error
	Close() error
}

// TasksConsumerAdapter запускает прогоны сверки по задачам из очереди.
type TasksConsumerAdapter struct {
	consumer    consumer
	reconcileUC usecases_port.ReconcileSourcePort
	logger      port.LoggerPort
}

func NewTasksConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	opts rabbitmq_consumer.DistributingOptions,
	reconcileUC usecases_port.ReconcileSourcePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*TasksConsumerAdapter, error) {
	adapter := &TasksConsumerAdapter{
		reconcileUC: reconcileUC,
		logger:      logger,
	}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_distributing_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	c, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, opts, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for reconcile tasks: %w", err)
	}
	adapter.consumer = c

	return adapter, nil
}

func (a *TasksConsumerAdapter) messageHandler(ctx context.Context, d amqp.Delivery) error {
	traceID, ok := d.Headers["x-trace-id"].(string)
	if !ok || traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	var task TaskDTO
	if err := json.Unmarshal(d.Body, &task); err != nil {
		msgLogger.Error("Error unmarshalling task DTO, NACKing message", err, nil)
		return fmt.Errorf("unmarshal error: %w", err)
	}
	req, err := task.toRunRequest()
	if err != nil {
		msgLogger.Error("Invalid reconcile task, NACKing message", err, port.Fields{"source": task.Source})
		return err
	}

	taskLogger := msgLogger.WithFields(port.Fields{"task_id": req.TaskID, "source": req.Source})
	ctx = contextkeys.ContextWithLogger(ctx, taskLogger)
	taskLogger.Info("Received reconcile task", nil)

	_, err = a.reconcileUC.Execute(ctx, req)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrRunInProgress):
		taskLogger.Warn("Another run is in progress, task goes back to the queue", nil)
		return fmt.Errorf("%w: %v", rabbitmq_consumer.ErrRequeue, err)
	case errors.Is(err, domain.ErrNoImportData):
		// пустой источник - штатное завершение, повтор ничего не даст
		taskLogger.Warn("Source returned no import data, run aborted", nil)
		return nil
	default:
		taskLogger.Error("Reconcile run failed", err, nil)
		return err
	}
}

// Start реализует EventListenerPort
func (a *TasksConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort
func (a *TasksConsumerAdapter) Close() error {
	return a.consumer.Close()
}
