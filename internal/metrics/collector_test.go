package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorCounters(t *testing.T) {
	c := NewCollectorWithRegistry(prometheus.NewRegistry())

	c.RecordWebhookDelivery("accepted")
	c.RecordWebhookDelivery("accepted")
	c.RecordWebhookDelivery("rejected")
	c.RecordEventHandled("message")
	c.RecordHandlerError("callback")
	c.RecordCallbackAction("cancel")
	c.RecordCallbackAction("cancel")
	c.RecordCallbackAction("send_cover")

	assert.Equal(t, float64(2), testutil.ToFloat64(c.webhookDeliveriesTotal.WithLabelValues("accepted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.webhookDeliveriesTotal.WithLabelValues("rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.eventsHandledTotal.WithLabelValues("message")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.handlerErrorsTotal.WithLabelValues("callback")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.callbackActionsTotal.WithLabelValues("cancel")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.callbackActionsTotal.WithLabelValues("send_cover")))
}

// Separate registries must not collide, so tests and embedded setups can each
// hold their own collector.
func TestCollectorIsolatedRegistries(t *testing.T) {
	a := NewCollectorWithRegistry(prometheus.NewRegistry())
	b := NewCollectorWithRegistry(prometheus.NewRegistry())

	a.RecordEventHandled("message")

	assert.Equal(t, float64(1), testutil.ToFloat64(a.eventsHandledTotal.WithLabelValues("message")))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.eventsHandledTotal.WithLabelValues("message")))
}
