package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	first := checksTotal
	Init()

	if checksTotal == nil || detectionsTotal == nil || scansRecordedTotal == nil || rateLimitedTotal == nil ||
		httpRequestsTotal == nil || httpRequestDurationSeconds == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
	if checksTotal != first {
		t.Fatal("Init() re-created collectors")
	}
}

func TestRecorderCounts(t *testing.T) {
	rec := NewRecorder()

	before := testutil.ToFloat64(checksTotal.WithLabelValues("fetched"))
	rec.ObserveCheck("fetched")
	rec.ObserveCheck("fetched")
	if got := testutil.ToFloat64(checksTotal.WithLabelValues("fetched")) - before; got != 2 {
		t.Errorf("expected 2 fetched checks, got %f", got)
	}

	beforeGTM := testutil.ToFloat64(detectionsTotal.WithLabelValues("gtm"))
	rec.ObserveDetection("gtm")
	if got := testutil.ToFloat64(detectionsTotal.WithLabelValues("gtm")) - beforeGTM; got != 1 {
		t.Errorf("expected 1 gtm detection, got %f", got)
	}
}

func TestObserveScanRecorded(t *testing.T) {
	Init()

	okBefore := testutil.ToFloat64(scansRecordedTotal.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(scansRecordedTotal.WithLabelValues("error"))
	ObserveScanRecorded(true)
	ObserveScanRecorded(false)
	ObserveScanRecorded(false)

	if got := testutil.ToFloat64(scansRecordedTotal.WithLabelValues("ok")) - okBefore; got != 1 {
		t.Errorf("expected 1 ok write, got %f", got)
	}
	if got := testutil.ToFloat64(scansRecordedTotal.WithLabelValues("error")) - errBefore; got != 2 {
		t.Errorf("expected 2 failed writes, got %f", got)
	}
}

func TestObserveRateLimited(t *testing.T) {
	Init()

	before := testutil.ToFloat64(rateLimitedTotal)
	ObserveRateLimited()
	if got := testutil.ToFloat64(rateLimitedTotal) - before; got != 1 {
		t.Errorf("expected 1 rejected request, got %f", got)
	}
}
