package whisper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/io/stt"
)

func TestTranscribeJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/asr" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %q", r.Method)
		}
		q := r.URL.Query()
		if q.Get("task") != "transcribe" || q.Get("output") != "json" || q.Get("language") != "en" {
			t.Fatalf("unexpected query %q", r.URL.RawQuery)
		}

		file, header, err := r.FormFile("audio_file")
		if err != nil {
			t.Fatalf("missing audio_file: %v", err)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "RIFFdata" || header.Filename != "lecture.wav" {
			t.Fatalf("unexpected upload %q (%s)", data, header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":" Hello class. ","language":"en","segments":[{"id":0,"start":0,"end":2.5,"text":"Hello class."}]}`)
	}))
	defer server.Close()

	client := NewWhisperClient(server.URL+"/", time.Second, Logger.New(true))
	res, err := client.Transcribe(context.Background(), stt.AudioInput{
		Data:     []byte("RIFFdata"),
		Filename: "lecture.wav",
		Language: "en",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if res.Text != " Hello class. " || res.Language != "en" {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Duration != 2500*time.Millisecond {
		t.Errorf("unexpected duration %s", res.Duration)
	}
}

func TestTranscribePlainTextFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("initial_prompt") != "thermodynamics" {
			t.Fatalf("missing initial prompt in %q", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, "plain transcript text")
	}))
	defer server.Close()

	client := NewWhisperClient(server.URL, 0, Logger.New(true)).WithInitialPrompt("thermodynamics")
	res, err := client.Transcribe(context.Background(), stt.AudioInput{Data: []byte("x"), Language: "de"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if res.Text != "plain transcript text" || res.Language != "de" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestTranscribeErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("language") {
		case "fail":
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	client := NewWhisperClient(server.URL, time.Second, Logger.New(true))

	if _, err := client.Transcribe(context.Background(), stt.AudioInput{}); !errors.Is(err, stt.ErrNoAudio) {
		t.Errorf("expected ErrNoAudio, got %v", err)
	}

	_, err := client.Transcribe(context.Background(), stt.AudioInput{Data: []byte("x"), Language: "fail"})
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("expected status error, got %v", err)
	}

	_, err = client.Transcribe(context.Background(), stt.AudioInput{Data: []byte("x")})
	if !errors.Is(err, stt.ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}
}
