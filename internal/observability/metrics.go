package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	scansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "ledger",
		Name:      "scans_total",
		Help:      "Scan events by direction and outcome.",
	}, []string{"type", "outcome"})
	recordsDeletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "ledger",
		Name:      "records_deleted_total",
		Help:      "Attendance records removed, by reason (delete, undo).",
	}, []string{"reason"})
	reportsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "report",
		Name:      "generated_total",
		Help:      "Spreadsheet reports generated.",
	})
	reportRows = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "attendance",
		Subsystem: "report",
		Name:      "rows",
		Help:      "Data rows per generated report.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
)

func init() {
	prometheus.MustRegister(scansTotal, recordsDeletedTotal, reportsGeneratedTotal, reportRows)
}

// RecordScan counts a processed scan event.
func RecordScan(scanType, outcome string) {
	scansTotal.WithLabelValues(scanType, outcome).Inc()
}

// RecordDeletion counts a removed record.
func RecordDeletion(reason string) {
	recordsDeletedTotal.WithLabelValues(reason).Inc()
}

// RecordReport counts a generated report and its size.
func RecordReport(rows int) {
	reportsGeneratedTotal.Inc()
	reportRows.Observe(float64(rows))
}
