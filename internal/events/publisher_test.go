package events

import (
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwardtay/webwatcher-sub001/internal/metrics"
	"github.com/edwardtay/webwatcher-sub001/internal/model"
)

func TestPublisherDisabledWithoutURL(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub, err := NewPublisher("", "webwatcher.reports", metrics.NewWith(prometheus.NewRegistry()), log)
	require.NoError(t, err)
	assert.Nil(t, pub)

	// Nil publishers must be inert, not explosive.
	pub.PublishReport(model.ComprehensiveReport{Target: "https://example.com"})
	pub.Close()
}
