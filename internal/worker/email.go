// Package worker consumes queued email jobs and hands them to a mail sender.
package worker

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-auth/pkg/helpers"
	"github.com/oksasatya/go-otp-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/go-otp-auth/pkg/mailer/templates"
)

type Outcome int

const (
	// Ack: sent, remove from the queue.
	Ack Outcome = iota
	// Drop: the job can never succeed.
	Drop
	// Retry: put it back on the queue.
	Retry
)

type EmailProcessor struct {
	Sender  mailer.Sender
	Logger  logrus.FieldLogger
	Timeout time.Duration
}

func NewEmailProcessor(sender mailer.Sender, logger logrus.FieldLogger) *EmailProcessor {
	return &EmailProcessor{Sender: sender, Logger: logger, Timeout: 15 * time.Second}
}

// Process decodes, renders and sends one job.
func (p *EmailProcessor) Process(ctx context.Context, body []byte) Outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		p.Logger.WithError(err).Warn("bad email job")
		return Drop
	}
	if job.To == "" {
		p.Logger.Warn("email job without recipient")
		return Drop
	}
	log := p.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		helpers.EnsureRecipient(&job)
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			log.WithError(err).Error("render email failed")
			return Drop
		}
		subject, text, html = s, t, h
		if subject == "" {
			subject = helpers.SubjectForOTP(job.Data)
		}
	}

	c, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	if err := p.Sender.Send(c, job.To, subject, text, html); err != nil {
		log.WithError(err).Warn("send email failed")
		return Retry
	}
	log.Info("email sent")
	return Ack
}

// Run settles every delivery according to Process until msgs closes or ctx
// is cancelled.
func (p *EmailProcessor) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var err error
			switch p.Process(ctx, msg.Body) {
			case Ack:
				err = msg.Ack(false)
			case Drop:
				err = msg.Nack(false, false)
			case Retry:
				err = msg.Nack(false, true)
			}
			if err != nil {
				p.Logger.WithError(err).Warn("settle delivery failed")
			}
		}
	}
}
