package ledger

import (
	"lipa/internal/models"

	"github.com/shopspring/decimal"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordMovement(string, decimal.Decimal)         {}
func (n *NoopMetricsCollector) RecordTransition(string, models.MovementStatus) {}
func (n *NoopMetricsCollector) RecordError(string, string)                     {}
