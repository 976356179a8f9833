package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			var total float64
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			return total
		}
	}
	t.Fatalf("metric %q not found", name)
	return 0
}

func TestRecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("/api/v1/appointments", http.MethodPost, 201, 20*time.Millisecond)
	c.RecordRequest("/api/v1/appointments", http.MethodPost, 409, 5*time.Millisecond)

	if got := counterValue(t, reg, "citasmed_http_requests_total"); got != 2 {
		t.Errorf("http_requests_total = %v, want 2", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "citasmed_http_request_duration_seconds" {
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 2 {
				t.Errorf("duration sample_count = %d, want 2", h.GetSampleCount())
			}
		}
	}
}

func TestRecordBookingConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBookingConflict("doctor_double_booked")
	c.RecordBookingConflict("doctor_double_booked")
	c.RecordBookingConflict("past_slot")

	if got := counterValue(t, reg, "citasmed_booking_conflicts_total"); got != 3 {
		t.Errorf("booking_conflicts_total = %v, want 3", got)
	}
}

func TestHandlerServesScrapeFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBooked()
	c.RecordRequest("/healthz", http.MethodGet, 200, time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, name := range []string{
		"citasmed_appointments_booked_total",
		"citasmed_http_requests_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("scrape output missing %q", name)
		}
	}
}
