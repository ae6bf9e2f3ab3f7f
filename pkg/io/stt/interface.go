package stt

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNoAudio = errors.New("no audio provided")
	// ErrEmptyResult marks a backend that answered without any text.
	ErrEmptyResult = errors.New("transcription service returned empty transcript")
)

type AudioInput struct {
	Data     []byte
	Filename string // extension tells the backend the container format
	Language string // optional hint, ISO-639-1
}

// Ext returns the lowercase extension of the input file name without the dot.
func (a AudioInput) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(a.Filename)), ".")
}

type Result struct {
	Text     string
	Language string
	Duration time.Duration
	Chunks   int
	// some other meta
	GeneratedAt time.Time
}

type Transcriber interface {
	Transcribe(ctx context.Context, in AudioInput) (*Result, error)
}
