package prom

import (
	"fmt"
	"sync"

	xhttp "github.com/digitalpro/contact-gateway/pkg/http"
	"github.com/digitalpro/contact-gateway/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemSubmissions   = "submission"
	SystemNewsletter    = "newsletter"
	SystemNotifications = "notification"
)

const (
	MetricSubmissionsProcessed     = "processed_total"
	MetricNewsletterEvents         = "events_total"
	MetricNotificationDeliveries   = "deliveries_total"
	MetricNotificationDeliveryTime = "delivery_duration_seconds"
)

// Submission outcomes used as label values.
const (
	OutcomeAccepted  = "accepted"
	OutcomeSpam      = "spam"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
	OutcomeDelivered = "delivered"
)

var createLock = &sync.Mutex{}
var namespace = "none"
var defaultLabels prometheus.Labels

var Enabled = false

var counterVecs = make(map[string]*prometheus.CounterVec)
var histogramVecs = make(map[string]*prometheus.HistogramVec)

// Create registers the metric families the service reports. host and env
// become constant labels on every series.
func Create(host string, env string, nameSpace string) error {
	defaultLabels = prometheus.Labels{"env": env, "instance": host}
	namespace = nameSpace
	Enabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounterVec(SystemSubmissions, MetricSubmissionsProcessed, []string{"outcome"}))
	hasError(createCounterVec(SystemNewsletter, MetricNewsletterEvents, []string{"event"}))
	hasError(createCounterVec(SystemNotifications, MetricNotificationDeliveries, []string{"result"}))
	hasError(createHistogramVec(SystemNotifications, MetricNotificationDeliveryTime, []string{"target"}))

	return err
}

// IncCounter increments a registered counter vec. Unknown metrics are a
// no-op so callers never have to guard on Enabled.
func IncCounter(subsystem, name string, labelValues ...string) {
	if !Enabled {
		return
	}
	if c, ok := counterVecs[subsystem+name]; ok {
		c.WithLabelValues(labelValues...).Inc()
	}
}

func ObserveHistogram(subsystem, name string, value float64, labelValues ...string) {
	if !Enabled {
		return
	}
	if h, ok := histogramVecs[subsystem+name]; ok {
		h.WithLabelValues(labelValues...).Observe(value)
	}
}

func ListenAndServer(port string, url string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.CreateServer()
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "url", url)
	if err := s.ListenAndServe(port); err != nil {
		logger.Panic("[metrics-server] http listen error", "error", err)
	}
}

func createCounterVec(subsystem, name string, labels []string) error {
	createLock.Lock()
	defer createLock.Unlock()
	if _, ok := counterVecs[subsystem+name]; ok {
		return fmt.Errorf("metric %s/%s already registered", subsystem, name)
	}
	counterVecs[subsystem+name] = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		ConstLabels: defaultLabels,
	}, labels)
	return prometheus.Register(counterVecs[subsystem+name])
}

func createHistogramVec(subsystem, name string, labels []string) error {
	createLock.Lock()
	defer createLock.Unlock()
	if _, ok := histogramVecs[subsystem+name]; ok {
		return fmt.Errorf("metric %s/%s already registered", subsystem, name)
	}
	histogramVecs[subsystem+name] = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	}, labels)
	return prometheus.Register(histogramVecs[subsystem+name])
}
