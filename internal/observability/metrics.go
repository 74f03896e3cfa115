package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	requestLatencySeconds *prometheus.HistogramVec
	attachmentRejects     *prometheus.CounterVec
	submissionsTotal      *prometheus.CounterVec
	quizScorePercent      prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classroom_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		attachmentRejects = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_attachment_rejects_total",
			Help: "Attachment uploads rejected before reaching the blob store.",
		}, []string{"reason"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_submissions_total",
			Help: "Accepted submissions by kind.",
		}, []string{"kind"})

		quizScorePercent = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "classroom_quiz_score_percent",
			Help:    "Distribution of computed quiz percentages.",
			Buckets: []float64{0, 10, 25, 50, 75, 90, 100},
		})

		prometheus.MustRegister(requestsTotal, requestLatencySeconds, attachmentRejects, submissionsTotal, quizScorePercent)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// RequestLatency exposes the latency histogram for API requests.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}

// AttachmentRejected exposes the counter for rejected attachment uploads.
func AttachmentRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return attachmentRejects
}

// Submissions exposes the counter for accepted submissions.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// QuizScores exposes the histogram of computed quiz percentages.
func QuizScores() prometheus.Histogram {
	RegisterMetrics()
	return quizScorePercent
}
