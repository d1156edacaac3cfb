package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestCounters(t *testing.T) {
	m := New()
	m.Transition("demande", "approve")
	m.Transition("demande", "approve")
	m.Document("RELEVE_NOTES")
	m.ObserveRequest("GET", "/api/admin/demandes", 200, 15*time.Millisecond)

	out := scrape(t, m)
	for _, want := range []string{
		`scolarite_transitions_total{action="approve",kind="demande"} 2`,
		`scolarite_documents_generated_total{document="RELEVE_NOTES"} 1`,
		`scolarite_http_request_duration_seconds_count{method="GET",route="/api/admin/demandes",status="200"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Transition("paiement", "pay")
	m.Document("RECU")
	m.ObserveRequest("GET", "/", 200, time.Second)
}
