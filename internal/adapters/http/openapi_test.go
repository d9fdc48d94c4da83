package http_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

// findOpenAPISpec locates the openapi.yaml file by walking up from the test directory.
func findOpenAPISpec(t *testing.T) string {
	// Start from the current working directory or test file location
	dir, _ := os.Getwd()

	// Look for api/openapi.yaml by going up directories
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "api", "openapi.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}

	t.Fatalf("could not find api/openapi.yaml")
	return ""
}

// TestOpenAPISpec validates the OpenAPI specification is valid.
func TestOpenAPISpec(t *testing.T) {
	// Load the spec file
	specPath := findOpenAPISpec(t)
	data, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	// Parse YAML spec
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}

	// Validate the spec
	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	// Check that key paths exist
	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/auth/register",
		"/v1/auth/login",
		"/v1/auth/me",
		"/v1/fields",
		"/v1/fields/{id}",
		"/v1/fields/{id}/layouts",
		"/v1/layouts/generate",
		"/v1/layouts/optimize",
		"/v1/layouts/{id}",
		"/v1/layouts/{id}/validate",
		"/v1/planting/calculate",
		"/v1/planting/history",
		"/v1/planting/calculations/{id}",
		"/v1/analyses",
		"/v1/analyses/{id}",
		"/v1/quality/grade",
		"/v1/quality/reports",
		"/v1/quality/reports/{id}",
		"/v1/weather/current",
		"/v1/weather/forecast",
		"/graphql",
	}

	for _, path := range expectedPaths {
		if item := spec.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found in spec", path)
		}
	}

	// Verify key schemas exist
	expectedSchemas := []string{
		"Field",
		"PlantingLayout",
		"PlantPosition",
		"OptimizationResult",
		"PlantingCalculation",
		"AnalysisSession",
		"FertilizerPlan",
		"QualityReport",
		"Weather",
		"ForecastDay",
		"APIError",
		"Pagination",
	}

	for _, schema := range expectedSchemas {
		if spec.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	t.Logf("OpenAPI spec valid: %d paths, %d schemas", len(spec.Paths.Map()), len(spec.Components.Schemas))
}

// TestOpenAPIInfo verifies spec metadata.
func TestOpenAPIInfo(t *testing.T) {
	specPath := findOpenAPISpec(t)
	data, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}

	if spec.Info.Title != "AgriVision API" {
		t.Errorf("expected title 'AgriVision API', got %q", spec.Info.Title)
	}
	if spec.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", spec.Info.Version)
	}

	// The deprecated spacing alias must be flagged as such
	legacy := spec.Paths.Find("/v1/planting/optimize")
	if legacy == nil || legacy.Post == nil {
		t.Fatal("expected deprecated /v1/planting/optimize path")
	}
	if !legacy.Post.Deprecated {
		t.Error("expected /v1/planting/optimize to be marked deprecated")
	}
}
