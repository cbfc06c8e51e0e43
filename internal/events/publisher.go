// Package events publishes finished scan reports to NATS for downstream
// consumers. Publishing is fire-and-forget: a bus outage degrades to log
// noise, never to a failed scan.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/edwardtay/webwatcher-sub001/internal/metrics"
	"github.com/edwardtay/webwatcher-sub001/internal/model"
)

// Publisher sends comprehensive reports to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewPublisher connects to NATS. An empty URL returns (nil, nil): report
// publishing is an optional integration.
func NewPublisher(url, subject string, m *metrics.Metrics, log *slog.Logger) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := nats.Connect(url,
		nats.Name("webwatcher"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{conn: conn, subject: subject, metrics: m, log: log}, nil
}

// PublishReport sends one report. Safe on a nil publisher.
func (p *Publisher) PublishReport(report model.ComprehensiveReport) {
	if p == nil || p.conn == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		p.log.Error("marshal report", "error", err)
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		p.log.Warn("publish report", "subject", p.subject, "error", err)
		return
	}
	p.metrics.ReportsPublished.Inc()
	p.log.Debug("report published", "subject", p.subject, "target", report.Target)
}

// Close drains the connection so queued messages flush before shutdown.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.log.Warn("nats drain", "error", err)
	}
}
