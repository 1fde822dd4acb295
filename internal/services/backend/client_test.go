package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"vidsub/internal/services"
)

func TestSubmitFileStreamsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/process" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get(RequestIDHeader) != "rid-1" {
			t.Errorf("expected request id header, got %q", r.Header.Get(RequestIDHeader))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("expected language en, got %q", got)
		}
		file, header, err := r.FormFile("video")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "fake video bytes" {
			t.Errorf("unexpected body %q", data)
		}
		if header.Filename != "clip.mp4" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "video/mp4" {
			t.Errorf("unexpected part content type %q", ct)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"task_id": "abc"})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", WithRequestIDSource(func() string { return "rid-1" }))
	var sent atomic.Int64
	resp, err := client.SubmitFile(context.Background(), Upload{
		Name:        "clip.mp4",
		ContentType: "video/mp4",
		Body:        strings.NewReader("fake video bytes"),
		Language:    "en",
		OnProgress:  func(n int64) { sent.Store(n) },
	})
	if err != nil {
		t.Fatalf("SubmitFile returned error: %v", err)
	}
	if resp.TaskID != "abc" || resp.Direct() {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got := sent.Load(); got != int64(len("fake video bytes")) {
		t.Fatalf("expected progress to report full size, got %d", got)
	}
}

func TestSubmitYouTubeDirectResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process_youtube" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["youtube_url"] != "https://youtu.be/dQw4w9WgXcQ" || body["language"] != "ar" {
			t.Errorf("unexpected body %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"subtitles": "1\n00:00:01,000 --> 00:00:02,000\nHi",
			"warning":   "Using sample subtitles",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.SubmitYouTube(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "ar")
	if err != nil {
		t.Fatalf("SubmitYouTube returned error: %v", err)
	}
	if !resp.Direct() {
		t.Fatalf("expected direct result, got %+v", resp)
	}
	if resp.Result.Warning != "Using sample subtitles" {
		t.Fatalf("expected warning to be carried, got %q", resp.Result.Warning)
	}
	if !strings.Contains(resp.Result.Text, "Hi") {
		t.Fatalf("unexpected text %q", resp.Result.Text)
	}
}

func TestSubmitRejectsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).SubmitYouTube(context.Background(), "https://youtu.be/x", "en")
	if !errors.Is(err, services.ErrApplication) {
		t.Fatalf("expected application error, got %v", err)
	}
}

func TestNon2xxBecomesTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "رابط يوتيوب غير صالح"})
	}))
	defer server.Close()

	_, err := NewClient(server.URL).SubmitYouTube(context.Background(), "https://youtu.be/x", "en")
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected StatusError 400, got %v", err)
	}
	if !strings.Contains(err.Error(), "رابط يوتيوب غير صالح") {
		t.Fatalf("expected service message verbatim, got %q", err.Error())
	}
}

func TestProgressNormalizesShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		state    State
		progress float64
		text     string
		errMsg   string
	}{
		{"processing int", `{"status":"processing","progress":40,"message":"working"}`, StateProcessing, 40, "", ""},
		{"processing float", `{"status":"processing","progress":12.5}`, StateProcessing, 12.5, "", ""},
		{"completed nested srt", `{"status":"completed","progress":100,"result":{"srt_content":"1\n00:00:01,000 --> 00:00:02,000\nA","filename":"a.srt"}}`, StateCompleted, 100, "1\n00:00:01,000 --> 00:00:02,000\nA", ""},
		{"completed top-level subtitles", `{"status":"completed","subtitles":"text"}`, StateCompleted, 100, "text", ""},
		{"error alias", `{"status":"error","message":"failed","error":"boom"}`, StateFailed, 0, "", "boom"},
		{"error field only", `{"status":"processing","error":"boom"}`, StateFailed, 0, "", "boom"},
		{"completed empty", `{"status":"completed","progress":100,"result":{}}`, StateCompleted, 100, "", ""},
		{"string progress", `{"status":"processing","progress":"45%"}`, StateProcessing, 45, "", ""},
		{"unparseable progress", `{"status":"processing","progress":"soon"}`, StateProcessing, 0, "", ""},
		{"result as text", `{"status":"completed","result":"1\n00:00:01,000 --> 00:00:02,000\nA"}`, StateCompleted, 100, "1\n00:00:01,000 --> 00:00:02,000\nA", ""},
		{"result null", `{"status":"processing","progress":5,"result":null}`, StateProcessing, 5, "", ""},
		{"result odd shape", `{"status":"processing","progress":10,"result":[1,2]}`, StateProcessing, 10, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/progress/job-1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			status, err := NewClient(server.URL).Progress(context.Background(), "job-1")
			if err != nil {
				t.Fatalf("Progress returned error: %v", err)
			}
			if status.State != tt.state || status.Progress != tt.progress || status.Error != tt.errMsg {
				t.Fatalf("unexpected status %+v", status)
			}
			if tt.text == "" {
				if status.Result != nil {
					t.Fatalf("expected no result, got %+v", status.Result)
				}
				return
			}
			if status.Result == nil || status.Result.Text != tt.text {
				t.Fatalf("unexpected result %+v", status.Result)
			}
		})
	}
}

func TestProgressNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Task not found"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Progress(context.Background(), "missing")
	if !errors.Is(err, services.ErrTransport) || !strings.Contains(err.Error(), "Task not found") {
		t.Fatalf("expected transport error with message, got %v", err)
	}
}

func TestProgressRequiresTaskID(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1").Progress(context.Background(), " ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetupInfoAcceptsWhisperField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"whisper_available":true,"vad_available":false,"version":"2.0.0",
			"supported_languages":[{"code":"ar","name":"Arabic"}],"features":["YouTube video processing"]}`))
	}))
	defer server.Close()

	info, err := NewClient(server.URL).SetupInfo(context.Background())
	if err != nil {
		t.Fatalf("SetupInfo returned error: %v", err)
	}
	if !info.SpeechRecognitionAvailable || info.VADAvailable || info.Version != "2.0.0" {
		t.Fatalf("unexpected info %+v", info)
	}
	if len(info.SupportedLanguages) != 1 || info.SupportedLanguages[0].Code != "ar" || len(info.Features) != 1 {
		t.Fatalf("unexpected lists %+v", info)
	}
}

func TestRequestIDFromContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(RequestIDHeader); got != "ctx-id" {
			t.Errorf("expected context request id, got %q", got)
		}
		_, _ = w.Write([]byte(`{"speech_recognition_available":false}`))
	}))
	defer server.Close()

	ctx := services.WithRequestID(context.Background(), "ctx-id")
	if _, err := NewClient(server.URL).SetupInfo(ctx); err != nil {
		t.Fatalf("SetupInfo returned error: %v", err)
	}
}

func TestCanceledContextIsNotTransport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient("http://127.0.0.1:1").Progress(ctx, "job")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, services.ErrTransport) {
		t.Fatalf("cancellation should not count as transport failure: %v", err)
	}
}
