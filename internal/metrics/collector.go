package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	projectsByStatus    *prometheus.GaugeVec
	deactivationsTotal  prometheus.Counter
	disablesTotal       prometheus.Counter
	reactivationsTotal  prometheus.Counter
	tokenRefreshesTotal *prometheus.CounterVec
	deploymentsTotal    *prometheus.CounterVec
	trafficHitsTotal    prometheus.Counter
	emailsSentTotal     *prometheus.CounterVec
}

func NewCollector() *Collector {
	return &Collector{
		projectsByStatus: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "devpush_projects",
			Help: "Number of projects by status",
		}, []string{"status"}),

		deactivationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "devpush_project_deactivations_total",
			Help: "Projects moved to inactive by the monitor",
		}),

		disablesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "devpush_project_disables_total",
			Help: "Projects moved to permanently_disabled by the monitor",
		}),

		reactivationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "devpush_project_reactivations_total",
			Help: "Projects reactivated",
		}),

		tokenRefreshesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devpush_installation_token_refreshes_total",
			Help: "GitHub installation token refresh attempts",
		}, []string{"result"}),

		deploymentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devpush_deployments_total",
			Help: "Deployments recorded from push webhooks",
		}, []string{"status"}),

		trafficHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "devpush_traffic_hits_total",
			Help: "Traffic hook invocations from the proxy",
		}),

		emailsSentTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devpush_emails_sent_total",
			Help: "Transactional emails sent by template",
		}, []string{"template", "result"}),
	}
}

func (c *Collector) SetProjectCount(status string, count int) {
	c.projectsByStatus.WithLabelValues(status).Set(float64(count))
}

func (c *Collector) RecordDeactivation() {
	c.deactivationsTotal.Inc()
}

func (c *Collector) RecordDisable() {
	c.disablesTotal.Inc()
}

func (c *Collector) RecordReactivation() {
	c.reactivationsTotal.Inc()
}

func (c *Collector) RecordTokenRefresh(success bool) {
	c.tokenRefreshesTotal.WithLabelValues(result(success)).Inc()
}

func (c *Collector) RecordDeployment(status string) {
	c.deploymentsTotal.WithLabelValues(status).Inc()
}

func (c *Collector) RecordTrafficHit() {
	c.trafficHitsTotal.Inc()
}

func (c *Collector) RecordEmailSent(template string, success bool) {
	c.emailsSentTotal.WithLabelValues(template, result(success)).Inc()
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
