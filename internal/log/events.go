package log

import "context"

// StructuredLogger emits the domain events operators grep for. It keeps the
// attribute set for each event in one place instead of scattered across
// handlers.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogPaymentCreated records a newly registered rent payment.
func (sl *StructuredLogger) LogPaymentCreated(ctx context.Context, paymentID, leaseID string, amount int64) {
	sl.logger.InfoContext(ctx, "Payment recorded",
		FieldPaymentID, paymentID,
		FieldLeaseID, leaseID,
		FieldAmount, amount)
}

// LogPaymentRemoved records a payment deletion, with the dashboard period it
// affects.
func (sl *StructuredLogger) LogPaymentRemoved(ctx context.Context, paymentID string, year, month int) {
	sl.logger.InfoContext(ctx, "Payment removed",
		FieldPaymentID, paymentID,
		FieldYear, year,
		FieldMonth, month)
}
