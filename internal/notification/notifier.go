package notification

import (
	"go.uber.org/zap"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// LogNotifier writes every notification to the structured log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier logging through zap
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs errors at error level and everything else at info level
func (n *LogNotifier) Notify(message string, severity entity.Severity) {
	fields := []zap.Field{
		zap.String("severity", string(severity)),
	}
	if severity == entity.SeverityError {
		n.logger.Error(message, fields...)
		return
	}
	n.logger.Info(message, fields...)
}

// Multi fans a notification out to several notifiers in order
type Multi []port.Notifier

// Notify forwards to every non-nil notifier
func (m Multi) Notify(message string, severity entity.Severity) {
	for _, n := range m {
		if n != nil {
			n.Notify(message, severity)
		}
	}
}
