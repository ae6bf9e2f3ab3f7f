package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/transcript"
)

// DefaultChunkDuration matches the 30 second window whisper models are
// trained on.
const DefaultChunkDuration = 30 * time.Second

var ErrInvalidWAV = errors.New("invalid wav data")

// IsWAV reports whether data starts with a RIFF/WAVE header.
func IsWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

// SplitWAV decodes a PCM wav file and re-encodes it as consecutive chunks
// of at most chunk length. It also returns the total audio duration.
func SplitWAV(data []byte, chunk time.Duration) ([][]byte, time.Duration, error) {
	if chunk <= 0 {
		return nil, 0, fmt.Errorf("chunk duration must be positive, got %s", chunk)
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, 0, ErrInvalidWAV
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode wav: %w", err)
	}

	sampleRate := int(dec.SampleRate)
	numChans := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if sampleRate == 0 || numChans == 0 {
		return nil, 0, ErrInvalidWAV
	}

	frames := len(buf.Data) / numChans
	duration := time.Duration(frames) * time.Second / time.Duration(sampleRate)

	step := int(chunk.Seconds()*float64(sampleRate)) * numChans
	if step <= 0 {
		step = numChans
	}

	var chunks [][]byte
	for start := 0; start < len(buf.Data); start += step {
		end := start + step
		if end > len(buf.Data) {
			end = len(buf.Data)
		}
		part := &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: numChans, SampleRate: sampleRate},
			Data:           buf.Data[start:end],
			SourceBitDepth: bitDepth,
		}
		encoded, err := encodeWAV(part, sampleRate, bitDepth, numChans)
		if err != nil {
			return nil, 0, err
		}
		chunks = append(chunks, encoded)
	}

	return chunks, duration, nil
}

func encodeWAV(buf *audio.IntBuffer, sampleRate, bitDepth, numChans int) ([]byte, error) {
	out := &writerseeker.WriterSeeker{}
	encoder := wav.NewEncoder(out, sampleRate, bitDepth, numChans, 1)

	if err := encoder.Write(buf); err != nil {
		return nil, fmt.Errorf("encoder write buffer: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encoder close: %w", err)
	}

	data, err := io.ReadAll(out.Reader())
	if err != nil {
		return nil, fmt.Errorf("reading wav into memory: %w", err)
	}
	return data, nil
}

// Chunked splits wav uploads into fixed windows, transcribes them in order
// through the wrapped Transcriber and joins the texts with single spaces.
// Other containers are forwarded whole.
type Chunked struct {
	next   Transcriber
	chunk  time.Duration
	logger *Logger.Logger
}

// NewChunked wraps next; a non-positive chunk falls back to DefaultChunkDuration.
func NewChunked(next Transcriber, chunk time.Duration, logger *Logger.Logger) *Chunked {
	if chunk <= 0 {
		chunk = DefaultChunkDuration
	}
	if logger == nil {
		logger = Logger.NewNop()
	}
	return &Chunked{
		next:   next,
		chunk:  chunk,
		logger: logger,
	}
}

// Transcribe implements Transcriber.
func (c *Chunked) Transcribe(ctx context.Context, in AudioInput) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, ErrNoAudio
	}

	if !IsWAV(in.Data) {
		res, err := c.next.Transcribe(ctx, in)
		if err != nil {
			return nil, err
		}
		res.Chunks = 1
		return res, nil
	}

	chunks, duration, err := SplitWAV(in.Data, c.chunk)
	if err != nil {
		return nil, err
	}
	c.logger.Debugf("split %s into %d chunk(s) of %s, total %s", in.Filename, len(chunks), c.chunk, duration)

	base := strings.TrimSuffix(filepath.Base(in.Filename), filepath.Ext(in.Filename))
	texts := make([]string, 0, len(chunks))
	language := in.Language
	silent := 0

	for i, data := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := c.next.Transcribe(ctx, AudioInput{
			Data:     data,
			Filename: fmt.Sprintf("%s-%03d.wav", base, i),
			Language: in.Language,
		})
		// Silent chunks are skipped; only an all-silent recording is empty.
		if errors.Is(err, ErrEmptyResult) {
			c.logger.Debugf("chunk %d/%d of %s has no speech", i+1, len(chunks), in.Filename)
			silent++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		texts = append(texts, res.Text)
		if language == "" {
			language = res.Language
		}
	}
	if silent == len(chunks) {
		return nil, ErrEmptyResult
	}

	return &Result{
		Text:        transcript.Join(texts),
		Language:    language,
		Duration:    duration,
		Chunks:      len(chunks),
		GeneratedAt: time.Now(),
	}, nil
}
