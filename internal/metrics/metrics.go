package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AttendanceSubmissions counts submissions by path (qr|self|override) and outcome.
	AttendanceSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library", Name: "attendance_submissions_total", Help: "Attendance submissions by path and outcome",
	}, []string{"path", "outcome"})
	FaceVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library", Name: "face_verifications_total", Help: "Face verifications by result",
	}, []string{"result"})
	QRSessionsIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library", Name: "qr_sessions_issued_total", Help: "QR sessions issued, new or reused",
	}, []string{"kind"})
	QRValidations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library", Name: "qr_validations_total", Help: "QR token validations by result and source",
	}, []string{"result", "source"})
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library", Name: "http_requests_total", Help: "HTTP requests by route and status class",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "library", Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(
		AttendanceSubmissions,
		FaceVerifications,
		QRSessionsIssued,
		QRValidations,
		HTTPRequests,
		HTTPDuration,
	)
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }
