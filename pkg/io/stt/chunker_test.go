package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
)

type recordingTranscriber struct {
	calls  []AudioInput
	err    error
	silent map[int]bool // 1-based call numbers answering ErrEmptyResult
}

func (r *recordingTranscriber) Transcribe(ctx context.Context, in AudioInput) (*Result, error) {
	r.calls = append(r.calls, in)
	if r.err != nil {
		return nil, r.err
	}
	if r.silent[len(r.calls)] {
		return nil, ErrEmptyResult
	}
	return &Result{
		Text:     fmt.Sprintf(" part %d ", len(r.calls)),
		Language: "en",
	}, nil
}

func makeWAV(t *testing.T, seconds float64, sampleRate int) []byte {
	t.Helper()

	samples := int(seconds * float64(sampleRate))
	data := make([]int, samples)
	for i := range data {
		data[i] = (i % 200) - 100
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	out := &writerseeker.WriterSeeker{}
	enc := wav.NewEncoder(out, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	raw, err := io.ReadAll(out.Reader())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return raw
}

func TestIsWAV(t *testing.T) {
	if !IsWAV(makeWAV(t, 0.1, 8000)) {
		t.Error("expected encoded file to be detected as wav")
	}
	if IsWAV([]byte("ID3\x03mp3 data here")) {
		t.Error("mp3 data detected as wav")
	}
	if IsWAV(nil) {
		t.Error("nil data detected as wav")
	}
}

func TestSplitWAV(t *testing.T) {
	data := makeWAV(t, 2.5, 8000)

	chunks, duration, err := SplitWAV(data, time.Second)
	if err != nil {
		t.Fatalf("SplitWAV: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if duration != 2500*time.Millisecond {
		t.Errorf("expected 2.5s duration, got %s", duration)
	}

	dec := wav.NewDecoder(bytes.NewReader(chunks[2]))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode last chunk: %v", err)
	}
	if len(buf.Data) != 4000 {
		t.Errorf("expected 4000 samples in last chunk, got %d", len(buf.Data))
	}
	if dec.SampleRate != 8000 {
		t.Errorf("expected sample rate 8000, got %d", dec.SampleRate)
	}
}

func TestSplitWAVRejectsGarbage(t *testing.T) {
	if _, _, err := SplitWAV([]byte("definitely not audio"), time.Second); err == nil {
		t.Error("expected error for non wav data")
	}
	if _, _, err := SplitWAV(makeWAV(t, 0.1, 8000), 0); err == nil {
		t.Error("expected error for zero chunk duration")
	}
}

func TestChunkedTranscribeJoinsChunks(t *testing.T) {
	next := &recordingTranscriber{}
	c := NewChunked(next, time.Second, Logger.New(true))

	res, err := c.Transcribe(context.Background(), AudioInput{
		Data:     makeWAV(t, 2.5, 8000),
		Filename: "lecture.wav",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if len(next.calls) != 3 {
		t.Fatalf("expected 3 backend calls, got %d", len(next.calls))
	}
	if next.calls[1].Filename != "lecture-001.wav" {
		t.Errorf("unexpected chunk filename %q", next.calls[1].Filename)
	}
	if res.Text != "part 1 part 2 part 3" {
		t.Errorf("unexpected joined text %q", res.Text)
	}
	if res.Chunks != 3 || res.Language != "en" {
		t.Errorf("unexpected result meta %+v", res)
	}
}

func TestChunkedTranscribePassesThroughOtherFormats(t *testing.T) {
	next := &recordingTranscriber{}
	c := NewChunked(next, 0, Logger.New(true))

	in := AudioInput{Data: []byte("ID3 fake mp3"), Filename: "talk.mp3"}
	res, err := c.Transcribe(context.Background(), in)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(next.calls) != 1 || next.calls[0].Filename != "talk.mp3" {
		t.Errorf("expected the whole file to be forwarded, got %+v", next.calls)
	}
	if res.Chunks != 1 {
		t.Errorf("expected 1 chunk, got %d", res.Chunks)
	}
}

func TestChunkedTranscribeErrors(t *testing.T) {
	c := NewChunked(&recordingTranscriber{}, time.Second, Logger.New(true))
	if _, err := c.Transcribe(context.Background(), AudioInput{}); !errors.Is(err, ErrNoAudio) {
		t.Errorf("expected ErrNoAudio, got %v", err)
	}

	boom := errors.New("backend down")
	c = NewChunked(&recordingTranscriber{err: boom}, time.Second, Logger.New(true))
	_, err := c.Transcribe(context.Background(), AudioInput{Data: makeWAV(t, 1.5, 8000), Filename: "a.wav"})
	if !errors.Is(err, boom) {
		t.Errorf("expected backend error to propagate, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c = NewChunked(&recordingTranscriber{}, time.Second, Logger.New(true))
	if _, err := c.Transcribe(ctx, AudioInput{Data: makeWAV(t, 1.5, 8000), Filename: "a.wav"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestChunkedTranscribeSkipsSilentChunks(t *testing.T) {
	next := &recordingTranscriber{silent: map[int]bool{2: true}}
	c := NewChunked(next, time.Second, Logger.New(true))

	res, err := c.Transcribe(context.Background(), AudioInput{
		Data:     makeWAV(t, 3, 8000),
		Filename: "lecture.wav",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(next.calls) != 3 {
		t.Fatalf("expected 3 backend calls, got %d", len(next.calls))
	}
	if res.Text != "part 1 part 3" {
		t.Errorf("unexpected joined text %q", res.Text)
	}
	if res.Chunks != 3 {
		t.Errorf("expected 3 chunks, got %d", res.Chunks)
	}
}

func TestChunkedTranscribeAllSilent(t *testing.T) {
	next := &recordingTranscriber{silent: map[int]bool{1: true, 2: true}}
	c := NewChunked(next, time.Second, Logger.New(true))

	_, err := c.Transcribe(context.Background(), AudioInput{Data: makeWAV(t, 1.5, 8000), Filename: "a.wav"})
	if !errors.Is(err, ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}
}

func TestNewChunkedWithoutLogger(t *testing.T) {
	c := NewChunked(&recordingTranscriber{}, time.Second, nil)
	res, err := c.Transcribe(context.Background(), AudioInput{Data: makeWAV(t, 1.5, 8000), Filename: "a.wav"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if res.Chunks != 2 {
		t.Errorf("expected 2 chunks, got %d", res.Chunks)
	}
}

func TestAudioInputExt(t *testing.T) {
	if ext := (AudioInput{Filename: "Lecture.MP3"}).Ext(); ext != "mp3" {
		t.Errorf("unexpected ext %q", ext)
	}
}
