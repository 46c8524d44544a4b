package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/stray2stay/api/pkg/helpers"
	"github.com/stray2stay/api/pkg/mailer"
)

// Notifier dispatches lifecycle emails. Delivery is best effort: a failed
// dispatch is logged and never surfaced to the caller.
type Notifier interface {
	Notify(ctx context.Context, job mailer.EmailJob)
}

// QueueNotifier publishes email jobs to RabbitMQ for the email worker to
// deliver. With a nil publisher (tests, local dev without a broker) it only
// logs the drop.
type QueueNotifier struct {
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewQueueNotifier(pub *helpers.RabbitPublisher, logger *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Logger: logger}
}

func (n *QueueNotifier) Notify(ctx context.Context, job mailer.EmailJob) {
	if n.Pub == nil {
		if n.Logger != nil {
			n.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).
				Debug("notification dropped: no publisher configured")
		}
		return
	}
	if err := n.Pub.PublishJSON(ctx, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithFields(logrus.Fields{"to": job.To, "template": job.Template}).
			Warn("failed to enqueue notification")
	}
}

var _ Notifier = (*QueueNotifier)(nil)
