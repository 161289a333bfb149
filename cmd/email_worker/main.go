package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-service/config"
	"github.com/oksasatya/go-user-service/internal/worker"
	"github.com/oksasatya/go-user-service/pkg/helpers"
	"github.com/oksasatya/go-user-service/pkg/mailer"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	q, err := helpers.DialRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, logger)
	if err != nil {
		logger.WithError(err).Fatal("rabbitmq")
	}
	defer q.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.NewEmailWorker(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), logger)
	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")

	// Run returns when the delivery channel closes (connection lost); the
	// queue redials in the background, so consume again until shutdown.
	for ctx.Err() == nil {
		// prefetch keeps dispatch fair between worker replicas
		msgs, err := q.Consume(16)
		if err != nil {
			logger.WithError(err).Warn("consume failed, retrying")
			select {
			case <-ctx.Done():
			case <-time.After(2 * time.Second):
			}
			continue
		}
		w.Run(ctx, msgs)
	}
	logger.Info("email worker stopped")
}
