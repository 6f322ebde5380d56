package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	byPath := make(map[string]map[string]http.HandlerFunc)
	for pattern, handler := range routes {
		parts := strings.SplitN(pattern, " ", 2)
		method, path := parts[0], parts[1]
		if byPath[path] == nil {
			byPath[path] = make(map[string]http.HandlerFunc)
		}
		byPath[path][method] = handler
	}
	for path, methods := range byPath {
		methods := methods
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if handler, ok := methods[r.Method]; ok {
				handler(w, r)
				return
			}
			http.NotFound(w, r)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithAPIKey("test-key"))
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthResponse{Status: "ok", Version: "0.3.0", SchemaVersion: 3})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Status != "ok" || resp.SchemaVersion != 3 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/health": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			jsonResponse(w, 200, HealthResponse{Status: "ok"})
		},
	})
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("got auth header %q", gotAuth)
	}
}

func TestThreadsListAndGet(t *testing.T) {
	topic := "permits"
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/threads": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("unanalyzed") != "true" {
				t.Errorf("unanalyzed filter not forwarded")
			}
			jsonResponse(w, 200, map[string]any{
				"threads":  []Thread{{ID: "t1", Topic: &topic}},
				"has_more": true,
			})
		},
		"GET /api/v1/threads/t1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Thread{ID: "t1", Topic: &topic})
		},
	})

	threads, hasMore, err := c.Threads.List(context.Background(), &ThreadListOptions{Unanalyzed: true})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(threads) != 1 || !hasMore {
		t.Errorf("threads=%v hasMore=%v", threads, hasMore)
	}

	thread, err := c.Threads.Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if thread.Topic == nil || *thread.Topic != "permits" {
		t.Errorf("thread = %+v", thread)
	}
}

func TestThreadMessagesAndSearch(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/threads/t1/messages": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{
				"messages": []Message{{ID: "m1", ThreadID: "t1"}},
				"has_more": false,
			})
		},
		"GET /api/v1/search": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("q") != "pothole" {
				t.Errorf("query not forwarded")
			}
			jsonResponse(w, 200, map[string]any{
				"matches":  []Message{{ID: "m2"}},
				"has_more": false,
			})
		},
	})

	messages, _, err := c.Threads.Messages(context.Background(), "t1", 10, 0)
	if err != nil {
		t.Fatalf("Messages() error: %v", err)
	}
	if len(messages) != 1 {
		t.Errorf("messages = %v", messages)
	}

	matches, _, err := c.Threads.Search(context.Background(), "pothole", 10, 0)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("matches = %v", matches)
	}
}

func TestAnalysisIngest(t *testing.T) {
	urgency := "high"
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/messages/m1/analysis": func(w http.ResponseWriter, r *http.Request) {
			var in AnalysisInput
			json.NewDecoder(r.Body).Decode(&in) //nolint:errcheck
			if in.UrgencyLevel == nil || *in.UrgencyLevel != "high" {
				t.Errorf("urgency not forwarded: %+v", in)
			}
			jsonResponse(w, 200, AnalysisResult{
				Message: &Message{ID: "m1", UrgencyLevel: "high"},
				Thread:  &Thread{ID: "t1"},
			})
		},
	})

	result, err := c.Analysis.Ingest(context.Background(), "m1", AnalysisInput{UrgencyLevel: &urgency})
	if err != nil {
		t.Fatalf("Ingest() error: %v", err)
	}
	if result.Message.UrgencyLevel != "high" || result.Thread.ID != "t1" {
		t.Errorf("result = %+v", result)
	}
}

func TestAuditQuery(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/audit": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("since") == "" {
				t.Errorf("since not forwarded")
			}
			jsonResponse(w, 200, map[string]any{
				"entries":  []AuditEntry{{ID: 1, Action: "analysis.persist"}},
				"has_more": false,
			})
		},
	})

	entries, _, err := c.Audit.Query(context.Background(), &AuditQueryOptions{Since: &since})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %v", entries)
	}
}

func TestTasks(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/sync": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, TaskRef{TaskID: "task-1", Status: "completed"})
		},
		"POST /api/v1/profile/rebuild": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 202, TaskRef{TaskID: "task-2", Status: "started"})
		},
		"GET /api/v1/tasks": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{
				"tasks": []TaskStatus{{Task: "mailbox_sync", Running: true}},
			})
		},
	})

	ref, err := c.Tasks.TriggerSync(context.Background())
	if err != nil {
		t.Fatalf("TriggerSync() error: %v", err)
	}
	if ref.TaskID != "task-1" {
		t.Errorf("ref = %+v", ref)
	}

	ref, err = c.Tasks.TriggerProfileRebuild(context.Background())
	if err != nil {
		t.Fatalf("TriggerProfileRebuild() error: %v", err)
	}
	if ref.Status != "started" {
		t.Errorf("ref = %+v", ref)
	}

	tasks, err := c.Tasks.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if len(tasks) != 1 || !tasks[0].Running {
		t.Errorf("tasks = %v", tasks)
	}
}

func TestAPIErrorParsing(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/threads/missing": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"code": "not_found", "message": "thread not found"})
		},
		"GET /api/v1/audit": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 403, map[string]string{"code": "forbidden", "message": "operation not permitted"})
		},
	})

	_, err := c.Threads.Get(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	_, _, err = c.Audit.Query(context.Background(), nil)
	if !IsForbidden(err) {
		t.Errorf("expected forbidden, got %v", err)
	}
}
