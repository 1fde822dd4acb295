package backend

import (
	"encoding/json"
	"strconv"
	"strings"
)

// State is the normalized job status.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

func parseState(raw string) State {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending", "queued":
		return StatePending
	case "completed", "complete", "done":
		return StateCompleted
	case "failed", "error":
		return StateFailed
	default:
		return StateProcessing
	}
}

// SubtitleResult is subtitle text produced by the service.
type SubtitleResult struct {
	Text       string `json:"text"`
	Filename   string `json:"filename,omitempty"`
	VideoTitle string `json:"video_title,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

// SubmitResponse is the outcome of a submission: either a job to poll or a
// result available immediately.
type SubmitResponse struct {
	TaskID  string
	Message string
	Result  *SubtitleResult
}

// Direct reports whether the submission already carries subtitles.
func (r SubmitResponse) Direct() bool {
	return r.Result != nil
}

// JobStatus is one progress report for a job.
type JobStatus struct {
	TaskID   string          `json:"task_id"`
	State    State           `json:"state"`
	Progress float64         `json:"progress"`
	Message  string          `json:"message,omitempty"`
	Error    string          `json:"error,omitempty"`
	Result   *SubtitleResult `json:"result,omitempty"`
}

// LanguageOption is a language advertised by the service.
type LanguageOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SetupInfo describes the service's capabilities.
type SetupInfo struct {
	SpeechRecognitionAvailable bool             `json:"speech_recognition_available"`
	VADAvailable               bool             `json:"vad_available"`
	SupportedLanguages         []LanguageOption `json:"supported_languages"`
	Version                    string           `json:"version,omitempty"`
	Features                   []string         `json:"features,omitempty"`
}

type rawResult struct {
	Subtitles  string `json:"subtitles"`
	SRTContent string `json:"srt_content"`
	Filename   string `json:"filename"`
	VideoTitle string `json:"video_title"`
}

func (r rawResult) text() string {
	if strings.TrimSpace(r.SRTContent) != "" {
		return r.SRTContent
	}
	if strings.TrimSpace(r.Subtitles) != "" {
		return r.Subtitles
	}
	return ""
}

// flexResult accepts `result` as an object or as the subtitle text itself.
// Any other shape decodes to nothing rather than failing the response.
type flexResult struct {
	*rawResult
}

func (f *flexResult) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		f.rawResult = &rawResult{SRTContent: text}
		return nil
	}
	var obj rawResult
	if err := json.Unmarshal(data, &obj); err == nil {
		f.rawResult = &obj
	}
	return nil
}

// flexProgress accepts a number or a numeric string such as "45" or "45%".
type flexProgress struct {
	value float64
	set   bool
}

func (f *flexProgress) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.value, f.set = n, true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.value, f.set = v, true
		}
	}
	return nil
}

type rawResponse struct {
	rawResult
	TaskID   string       `json:"task_id"`
	Status   string       `json:"status"`
	Progress flexProgress `json:"progress"`
	Message  string       `json:"message"`
	Error    string       `json:"error"`
	Warning  string       `json:"warning"`
	Result   flexResult   `json:"result"`
}

// subtitle returns the result payload wherever the service placed it.
func (r rawResponse) subtitle() *SubtitleResult {
	if text := r.text(); text != "" {
		return &SubtitleResult{Text: text, Filename: r.Filename, VideoTitle: r.VideoTitle, Warning: r.Warning}
	}
	if r.Result.rawResult != nil {
		if text := r.Result.text(); text != "" {
			return &SubtitleResult{Text: text, Filename: r.Result.Filename, VideoTitle: r.Result.VideoTitle, Warning: r.Warning}
		}
	}
	return nil
}

type rawSetupInfo struct {
	SpeechRecognitionAvailable *bool            `json:"speech_recognition_available"`
	WhisperAvailable           *bool            `json:"whisper_available"`
	VADAvailable               bool             `json:"vad_available"`
	SupportedLanguages         []LanguageOption `json:"supported_languages"`
	Version                    string           `json:"version"`
	Features                   []string         `json:"features"`
}

func (r rawSetupInfo) normalize() SetupInfo {
	info := SetupInfo{
		VADAvailable:       r.VADAvailable,
		SupportedLanguages: r.SupportedLanguages,
		Version:            strings.TrimSpace(r.Version),
		Features:           r.Features,
	}
	switch {
	case r.SpeechRecognitionAvailable != nil:
		info.SpeechRecognitionAvailable = *r.SpeechRecognitionAvailable
	case r.WhisperAvailable != nil:
		info.SpeechRecognitionAvailable = *r.WhisperAvailable
	}
	return info
}
