package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gudlft/internal/adapters/http/perf"
)

func serveTimed(collector *perf.Collector, slowMs int, h http.HandlerFunc, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	Timing(collector, slowMs)(h).ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestTiming_RecordsRoutes(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		wantPath string
	}{
		{"index", "GET", "/", http.StatusOK, "GET /"},
		{"purchase rejected", "POST", "/purchasePlaces", http.StatusForbidden, "POST /purchasePlaces"},
		{"booking page grouped", "GET", "/book/Spring%20Festival/Simply%20Lift", http.StatusOK, "GET /book/{competition}/{club}"},
		{"unknown", "GET", "/missing", http.StatusNotFound, "GET /missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := perf.NewCollector(10)
			rr := serveTimed(collector, 0, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}, tt.method, tt.path)

			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
			snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
			if len(snap.SlowestPaths) != 1 {
				t.Fatalf("SlowestPaths = %+v, want one entry", snap.SlowestPaths)
			}
			if snap.SlowestPaths[0].Path != tt.wantPath {
				t.Errorf("path = %q, want %q", snap.SlowestPaths[0].Path, tt.wantPath)
			}
		})
	}
}

func TestTiming_BookingPagesShareOneEntry(t *testing.T) {
	collector := perf.NewCollector(10)
	ok := func(w http.ResponseWriter, r *http.Request) {}
	serveTimed(collector, 0, ok, "GET", "/book/Spring%20Festival/Simply%20Lift")
	serveTimed(collector, 0, ok, "GET", "/book/Fall%20Classic/Iron%20Temple")

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Count != 2 {
		t.Errorf("SlowestPaths = %+v, want one entry with count 2", snap.SlowestPaths)
	}
}

func TestTiming_SkipsStatic(t *testing.T) {
	collector := perf.NewCollector(10)
	rr := serveTimed(collector, 0, func(w http.ResponseWriter, r *http.Request) {}, "GET", "/static/style.css")

	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0", collector.TotalRecorded())
	}
	if rr.Header().Get(RequestIDHeader) != "" {
		t.Error("static responses should not carry a request id")
	}
}

func TestTiming_SetsRequestID(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) {}
	first := serveTimed(nil, 0, ok, "GET", "/").Header().Get(RequestIDHeader)
	second := serveTimed(nil, 0, ok, "GET", "/").Header().Get(RequestIDHeader)

	if first == "" || second == "" {
		t.Fatal("missing request id header")
	}
	if first == second {
		t.Errorf("request ids repeat: %q", first)
	}
}

func TestTiming_CountsBytes(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	sw.Write([]byte("Clubs - "))
	sw.Write([]byte("Points:"))
	if sw.bytes != len("Clubs - Points:") {
		t.Errorf("bytes = %d", sw.bytes)
	}
}

func TestTiming_NilCollector(t *testing.T) {
	rr := serveTimed(nil, 0, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}, "GET", "/pointsBoard")
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Errorf("status = %d body = %q", rr.Code, rr.Body.String())
	}
}

// A panicking handler still gets its request recorded.
func TestTiming_HandlerPanic(t *testing.T) {
	collector := perf.NewCollector(10)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
		}
	}()
	serveTimed(collector, 0, func(w http.ResponseWriter, r *http.Request) { panic("boom") }, "GET", "/panic")
}

// The pooled writer must not carry a status over to the next request.
func TestTiming_PoolNoStateLeak(t *testing.T) {
	collector := perf.NewCollector(10)
	serveTimed(collector, 0, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, "GET", "/fail")
	serveTimed(collector, 0, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}, "GET", "/ok")

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.ServerErrors != 1 {
		t.Errorf("ServerErrors = %d, want 1", snap.ServerErrors)
	}
}

func TestTiming_CustomThreshold(t *testing.T) {
	collector := perf.NewCollector(10)
	serveTimed(collector, 1, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Millisecond)
		w.WriteHeader(http.StatusForbidden)
	}, "POST", "/purchasePlaces")

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].MaxMs < 1 {
		t.Errorf("SlowestPaths = %+v", snap.SlowestPaths)
	}
}

func BenchmarkTiming(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/showSummary", nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
