package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/municipallabs/corecrm/internal/api"
	"github.com/municipallabs/corecrm/internal/models"
)

func TestAnalysisIngest_Valid(t *testing.T) {
	t.Parallel()

	var gotIn models.AnalysisInput
	svc := &mockAnalysisService{
		ingest: func(_ context.Context, _ *models.Principal, _, messageID string, in models.AnalysisInput) (*models.Message, *models.Thread, error) {
			gotIn = in
			return &models.Message{ID: messageID, UrgencyLevel: in.Urgency()},
				&models.Thread{ID: "t-1"}, nil
		},
	}

	r := newTestRouter(testPrincipal(models.RoleAgent))
	h := api.NewAnalysisHandler(svc, testLogger())
	r.POST("/messages/:id/analysis", h.Ingest)

	body := `{"topic":"road repair","urgency_level":"high","sentiment_score":-0.4,"confidence":0.9}`
	w := doRequest(r, http.MethodPost, "/messages/m-1/analysis", body)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if gotIn.Topic == nil || *gotIn.Topic != "road repair" {
		t.Errorf("topic not bound: %+v", gotIn)
	}
	if gotIn.SentimentScore == nil || *gotIn.SentimentScore != -0.4 {
		t.Errorf("sentiment not bound: %+v", gotIn)
	}

	var resp struct {
		Message *models.Message `json:"message"`
		Thread  *models.Thread  `json:"thread"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Message == nil || resp.Thread == nil {
		t.Errorf("response missing message or thread: %s", w.Body.String())
	}
}

func TestAnalysisIngest_InvalidUrgency(t *testing.T) {
	t.Parallel()

	r := newTestRouter(testPrincipal(models.RoleAgent))
	h := api.NewAnalysisHandler(&mockAnalysisService{}, testLogger())
	r.POST("/messages/:id/analysis", h.Ingest)

	w := doRequest(r, http.MethodPost, "/messages/m-1/analysis", `{"urgency_level":"critical"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAnalysisIngest_NotEligible(t *testing.T) {
	t.Parallel()

	svc := &mockAnalysisService{
		ingest: func(_ context.Context, _ *models.Principal, _, _ string, _ models.AnalysisInput) (*models.Message, *models.Thread, error) {
			return nil, nil, models.ErrNotEligible
		},
	}

	r := newTestRouter(testPrincipal(models.RoleAgent))
	h := api.NewAnalysisHandler(svc, testLogger())
	r.POST("/messages/:id/analysis", h.Ingest)

	w := doRequest(r, http.MethodPost, "/messages/m-1/analysis", `{}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAnalysisIngest_ViewerForbidden(t *testing.T) {
	t.Parallel()

	svc := &mockAnalysisService{
		ingest: func(_ context.Context, _ *models.Principal, _, _ string, _ models.AnalysisInput) (*models.Message, *models.Thread, error) {
			return nil, nil, models.ErrForbidden
		},
	}

	r := newTestRouter(testPrincipal(models.RoleViewer))
	h := api.NewAnalysisHandler(svc, testLogger())
	r.POST("/messages/:id/analysis", h.Ingest)

	w := doRequest(r, http.MethodPost, "/messages/m-1/analysis", `{}`)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAnalysisIngest_MessageNotFound(t *testing.T) {
	t.Parallel()

	svc := &mockAnalysisService{
		ingest: func(_ context.Context, _ *models.Principal, _, _ string, _ models.AnalysisInput) (*models.Message, *models.Thread, error) {
			return nil, nil, models.ErrMessageNotFound
		},
	}

	r := newTestRouter(testPrincipal(models.RoleAgent))
	h := api.NewAnalysisHandler(svc, testLogger())
	r.POST("/messages/:id/analysis", h.Ingest)

	w := doRequest(r, http.MethodPost, "/messages/m-404/analysis", `{}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
