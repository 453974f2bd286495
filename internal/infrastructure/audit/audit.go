package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
	"github.com/oksasatya/go-otp-auth/internal/domain/repository"
)

const indexTimeout = 3 * time.Second

// ESSink indexes every auth event as its own document. Failures are logged
// and swallowed; the audit trail never fails a request.
type ESSink struct {
	ES     *elasticsearch.Client
	Index  string
	Logger logrus.FieldLogger
}

func NewESSink(es *elasticsearch.Client, index string, logger logrus.FieldLogger) *ESSink {
	return &ESSink{ES: es, Index: index, Logger: logger}
}

func (s *ESSink) Record(ctx context.Context, ev entity.AuthEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		s.Logger.WithError(err).Warn("audit event encode failed")
		return
	}
	req := esapi.IndexRequest{Index: s.Index, Body: bytes.NewReader(b), Refresh: "false"}

	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), indexTimeout)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("event", ev.Type).Warn("audit index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("event", ev.Type).Warn("audit index response error")
	}
}

// LogSink writes events to the application log.
type LogSink struct {
	Logger logrus.FieldLogger
}

func NewLogSink(logger logrus.FieldLogger) *LogSink {
	return &LogSink{Logger: logger}
}

func (s *LogSink) Record(_ context.Context, ev entity.AuthEvent) {
	s.Logger.WithFields(logrus.Fields{
		"event":      ev.Type,
		"user_id":    ev.UserID,
		"email":      ev.Email,
		"reason":     ev.Reason,
		"ip":         ev.IP,
		"request_id": ev.RequestID,
	}).Debug("auth event")
}

// Nop drops every event.
type Nop struct{}

func (Nop) Record(context.Context, entity.AuthEvent) {}

var (
	_ repository.AuditSink = (*ESSink)(nil)
	_ repository.AuditSink = (*LogSink)(nil)
	_ repository.AuditSink = Nop{}
)
