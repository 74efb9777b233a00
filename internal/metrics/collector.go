// Package metrics exposes Prometheus counters for the webhook path and the
// event handlers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for the bot.
type Collector struct {
	webhookDeliveriesTotal *prometheus.CounterVec
	eventsHandledTotal     *prometheus.CounterVec
	handlerErrorsTotal     *prometheus.CounterVec
	callbackActionsTotal   *prometheus.CounterVec
}

// NewCollector registers the metrics on the default registry.
func NewCollector() *Collector {
	return NewCollectorWithRegistry(nil)
}

// NewCollectorWithRegistry registers the metrics on a custom registry.
// If registry is nil, the default global registry is used.
func NewCollectorWithRegistry(registry *prometheus.Registry) *Collector {
	var factory promauto.Factory
	if registry == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	} else {
		factory = promauto.With(registry)
	}

	return &Collector{
		webhookDeliveriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_deliveries_total",
				Help: "Total webhook deliveries received, by outcome",
			},
			[]string{"outcome"},
		),

		eventsHandledTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_handled_total",
				Help: "Total events processed by the handlers",
			},
			[]string{"type"},
		),

		handlerErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "handler_errors_total",
				Help: "Total handler failures, by event type",
			},
			[]string{"type"},
		),

		callbackActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callback_actions_total",
				Help: "Total callback button presses, by decoded action",
			},
			[]string{"action"},
		),
	}
}

// RecordWebhookDelivery counts one inbound webhook delivery.
// Outcome is one of: accepted, rejected, dropped.
func (c *Collector) RecordWebhookDelivery(outcome string) {
	c.webhookDeliveriesTotal.WithLabelValues(outcome).Inc()
}

// RecordEventHandled counts one fully processed event of the given type.
func (c *Collector) RecordEventHandled(eventType string) {
	c.eventsHandledTotal.WithLabelValues(eventType).Inc()
}

// RecordHandlerError counts one failed handler invocation.
func (c *Collector) RecordHandlerError(eventType string) {
	c.handlerErrorsTotal.WithLabelValues(eventType).Inc()
}

// RecordCallbackAction counts one decoded callback action.
func (c *Collector) RecordCallbackAction(action string) {
	c.callbackActionsTotal.WithLabelValues(action).Inc()
}
