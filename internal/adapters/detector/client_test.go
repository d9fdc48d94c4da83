package detector_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agrivision/backend/internal/adapters/detector"
	"github.com/agrivision/backend/internal/pkg/metrics"
)

func errorCount() float64 {
	return testutil.ToFloat64(metrics.DetectorRequests.WithLabelValues("/detect/growth", "error"))
}

func TestDetectGrowth_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect/growth" {
			t.Errorf("path = %q, want /detect/growth", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"detections":[{"label":"leaf","confidence":0.9}],"annotated_image_url":"http://img/annotated.jpg"}`))
	}))
	defer srv.Close()

	client := detector.New(srv.URL)
	detections, annotated, err := client.DetectGrowth(context.Background(), "http://img/raw.jpg")
	if err != nil {
		t.Fatalf("DetectGrowth: %v", err)
	}
	if len(detections) != 1 || detections[0].Label != "leaf" {
		t.Errorf("detections = %+v, want one leaf", detections)
	}
	if annotated != "http://img/annotated.jpg" {
		t.Errorf("annotated URL = %q", annotated)
	}
}

func TestDetectGrowth_UpstreamFailureCountsAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	before := errorCount()
	client := detector.New(srv.URL)
	if _, _, err := client.DetectGrowth(context.Background(), "http://img/raw.jpg"); err == nil {
		t.Fatal("expected error on upstream 500")
	}
	if got := errorCount(); got != before+1 {
		t.Errorf("error count = %v, want %v", got, before+1)
	}
}

func TestDetectGrowth_UnreachableCountsAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	before := errorCount()
	client := detector.New(url)
	if _, _, err := client.DetectGrowth(context.Background(), "http://img/raw.jpg"); err == nil {
		t.Fatal("expected error when the sidecar is unreachable")
	}
	if got := errorCount(); got != before+1 {
		t.Errorf("error count = %v, want %v", got, before+1)
	}
}

func TestDetectGrowth_BadPayloadCountsAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	before := errorCount()
	client := detector.New(srv.URL)
	if _, _, err := client.DetectGrowth(context.Background(), "http://img/raw.jpg"); err == nil {
		t.Fatal("expected decode error")
	}
	if got := errorCount(); got != before+1 {
		t.Errorf("error count = %v, want %v", got, before+1)
	}
}

func TestHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q, want /health", r.URL.Path)
		}
	}))
	defer srv.Close()

	if err := detector.New(srv.URL).Healthy(context.Background()); err != nil {
		t.Errorf("Healthy: %v", err)
	}
}
