package notifier

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes the email to the log instead of sending it. It is used
// when SMTP is not configured and always reports success.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendRegistrationEmail(_ context.Context, msg RegistrationEmail) error {
	n.log.Info("email (simulated)",
		zap.String("to", msg.To),
		zap.String("subject", subject),
		zap.String("event", msg.EventName),
		zap.String("transaction_id", msg.TransactionID),
		zap.String("body", msg.textBody()),
	)
	return nil
}
