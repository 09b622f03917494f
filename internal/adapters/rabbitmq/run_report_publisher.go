package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"reconciliation-service/internal/constants"
	"reconciliation-service/internal/contextkeys"
	"reconciliation-service/internal/contracts"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
)

type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// RunReportPublisherAdapter публикует итог прогона в reconcile_exchange.
type RunReportPublisherAdapter struct {
	producer   publisher
	routingKey string
	now        func() time.Time
}

func NewRunReportPublisherAdapter(producer publisher, routingKey string) (*RunReportPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &RunReportPublisherAdapter{
		producer:   producer,
		routingKey: routingKey,
		now:        time.Now,
	}, nil
}

func (a *RunReportPublisherAdapter) ReportRun(ctx context.Context, summary domain.RunSummary) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "RunReportPublisherAdapter",
		"routing_key": a.routingKey,
		"run_id":      summary.RunID,
	})

	body, err := contracts.MarshalRunReport(summary)
	if err != nil {
		logger.Error("Run report does not match its contract", err, nil)
		return fmt.Errorf("rabbitmq adapter: run report %s: %w", summary.RunID, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    a.now(),
		Type:         contracts.RunReportEventType,
		Headers:      amqp.Table{"x-event-version": contracts.RunReportEventVersion},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, constants.PublishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		logger.Error("Failed to publish run report", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish report for run %s: %w", summary.RunID, err)
	}

	logger.Info("Run report published", port.Fields{"total": summary.Total()})
	return nil
}
