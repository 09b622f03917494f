package constants

import "time"

// Обменник и очереди
const (
	ExchangeReconcile = "reconcile_exchange"
	QueueReconcile    = "reconcile_tasks"
)

// Ключи маршрутизации
const (
	RoutingKeyReconcileTasks   = "reconcile.tasks"
	RoutingKeyReconcileResults = "reconcile.results"
)

const (
	ConsumerTagReconcile = "reconciliation-service-tasks"
	// задача, пришедшая во время чужого прогона, возвращается в очередь с паузой
	RequeueDelay   = 30 * time.Second
	PublishTimeout = 10 * time.Second
)
