package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-service/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-service/pkg/mailer/templates"
)

// ErrMalformedJob marks jobs that can never succeed and must not be requeued.
var ErrMalformedJob = errors.New("malformed email job")

// EmailWorker turns queued EmailJobs into sent mail.
type EmailWorker struct {
	sender      mailer.Sender
	logger      *logrus.Logger
	sendTimeout time.Duration
}

func NewEmailWorker(sender mailer.Sender, logger *logrus.Logger) *EmailWorker {
	return &EmailWorker{sender: sender, logger: logger, sendTimeout: 15 * time.Second}
}

// Handle processes a single raw job body.
func (w *EmailWorker) Handle(ctx context.Context, body []byte) error {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrMalformedJob)
	}

	msg := mailer.Message{To: job.To, Subject: job.Subject, Text: job.Text, HTML: job.HTML}
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrMalformedJob, job.Template, err)
		}
		msg.Subject, msg.Text, msg.HTML = s, t, h
	}

	c, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()
	if err := w.sender.Send(c, msg); err != nil {
		return fmt.Errorf("send to %s: %w", job.To, err)
	}
	return nil
}

// Run consumes deliveries until the channel closes or ctx is cancelled.
// Malformed jobs are dropped, delivery failures are requeued once.
func (w *EmailWorker) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				return
			}
			w.process(ctx, d)
		}
	}
}

func (w *EmailWorker) process(ctx context.Context, d amqp.Delivery) {
	err := w.Handle(ctx, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrMalformedJob):
		w.logger.WithError(err).Warn("dropping email job")
		_ = d.Nack(false, false)
	default:
		w.logger.WithError(err).WithField("redelivered", d.Redelivered).Error("email send failed")
		_ = d.Nack(false, !d.Redelivered)
	}
}
