package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeBackend is an in-process stand-in for the subtitle service. Progress
// replies are served from Statuses in order; the last one repeats.
type FakeBackend struct {
	*httptest.Server

	mu            sync.Mutex
	taskID        string
	statuses      []map[string]any
	direct        map[string]any
	setup         map[string]any
	progressCalls int
	submissions   []string
	languages     []string
}

// NewFakeBackend starts a fake service that hands out taskID and closes it
// when the test ends.
func NewFakeBackend(t testing.TB, taskID string) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{
		taskID: taskID,
		setup: map[string]any{
			"whisper_available":   true,
			"vad_available":       false,
			"supported_languages": []map[string]string{{"code": "ar", "name": "Arabic"}, {"code": "en", "name": "English"}},
			"version":             "test",
			"features":            []string{"youtube"},
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /process", fb.handleSubmit)
	mux.HandleFunc("POST /process_youtube", fb.handleSubmit)
	mux.HandleFunc("GET /progress/{id}", fb.handleProgress)
	mux.HandleFunc("GET /setup_info", func(w http.ResponseWriter, _ *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		writeJSON(w, http.StatusOK, fb.setup)
	})
	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Close)
	return fb
}

// SetStatuses replaces the scripted progress replies.
func (fb *FakeBackend) SetStatuses(statuses ...map[string]any) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.statuses = statuses
}

// SetDirect makes submissions answer with body instead of a task ID.
func (fb *FakeBackend) SetDirect(body map[string]any) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.direct = body
}

// ProgressCalls returns how many progress requests were served.
func (fb *FakeBackend) ProgressCalls() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.progressCalls
}

// Submissions returns the request paths of every submission received.
func (fb *FakeBackend) Submissions() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.submissions...)
}

// Languages returns the language sent with each submission.
func (fb *FakeBackend) Languages() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.languages...)
}

func (fb *FakeBackend) handleSubmit(w http.ResponseWriter, r *http.Request) {
	lang := ""
	if r.URL.Path == "/process_youtube" {
		var body struct {
			Language string `json:"language"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		lang = body.Language
	} else {
		lang = r.FormValue("language")
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.submissions = append(fb.submissions, r.URL.Path)
	fb.languages = append(fb.languages, lang)
	if fb.direct != nil {
		writeJSON(w, http.StatusOK, fb.direct)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task_id": fb.taskID, "message": "Processing started"})
}

func (fb *FakeBackend) handleProgress(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if r.PathValue("id") != fb.taskID {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Task not found"})
		return
	}
	fb.progressCalls++
	if len(fb.statuses) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"status": "processing", "progress": 0})
		return
	}
	idx := fb.progressCalls - 1
	if idx >= len(fb.statuses) {
		idx = len(fb.statuses) - 1
	}
	writeJSON(w, http.StatusOK, fb.statuses[idx])
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
