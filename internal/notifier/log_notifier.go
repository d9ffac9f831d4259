package notifier

import (
	"context"

	"go.uber.org/zap"
)

// LogSink writes the notification to the application log instead of mailing it.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Send(_ context.Context, e OrderCreated) error {
	s.log.Info(e.Message(),
		zap.String("order_id", e.OrderID),
		zap.String("customer_mail", e.CustomerMail),
		zap.String("item_id", e.ItemID),
		zap.Int("quantity", e.Quantity),
	)
	return nil
}
