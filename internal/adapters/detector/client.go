package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/pkg/metrics"
)

// Client implements ports.Detector against the detection sidecar's JSON API.
// The sidecar hosts the growth-stage and fruit-quality models; inference can
// take tens of seconds on CPU, hence the generous read timeout.
type Client struct {
	baseURL string
	http    *fasthttp.Client
}

// New creates a new Client for the sidecar at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &fasthttp.Client{
			ReadTimeout:  90 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.DetectorRequests.WithLabelValues(path, outcome).Inc()
		metrics.DetectorLatency.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		outcome = "error"
		return fmt.Errorf("encode request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(90 * time.Second)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		outcome = "error"
		return fmt.Errorf("detector request %s: %w", path, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		outcome = "error"
		return fmt.Errorf("detector %s returned status %d", path, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		outcome = "error"
		return fmt.Errorf("detector decode: %w", err)
	}
	return nil
}

type growthRequest struct {
	ImageURL string `json:"image_url"`
}

type growthResponse struct {
	Detections        []domain.Detection `json:"detections"`
	AnnotatedImageURL string             `json:"annotated_image_url"`
}

// DetectGrowth runs the plant-part model over one image.
func (c *Client) DetectGrowth(ctx context.Context, imageURL string) ([]domain.Detection, string, error) {
	var out growthResponse
	if err := c.post(ctx, "/detect/growth", growthRequest{ImageURL: imageURL}, &out); err != nil {
		return nil, "", err
	}
	return out.Detections, out.AnnotatedImageURL, nil
}

type qualityRequest struct {
	ImageURLs []string `json:"image_urls"`
}

type qualityResponse struct {
	Detections  []domain.Detection `json:"detections"`
	ImageWidth  int                `json:"image_width"`
	ImageHeight int                `json:"image_height"`
}

// DetectQuality runs the fruit-grading model over a batch of images.
func (c *Client) DetectQuality(ctx context.Context, imageURLs []string) ([]domain.Detection, int, int, error) {
	var out qualityResponse
	if err := c.post(ctx, "/detect/quality", qualityRequest{ImageURLs: imageURLs}, &out); err != nil {
		return nil, 0, 0, err
	}
	return out.Detections, out.ImageWidth, out.ImageHeight, nil
}

// Healthy probes the sidecar's health endpoint.
func (c *Client) Healthy(ctx context.Context) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/health")
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(5 * time.Second)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("detector health: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("detector unhealthy: status %d", resp.StatusCode())
	}
	return nil
}
