package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/xpanvictor/lecturenotes/internal/app"
	"github.com/xpanvictor/lecturenotes/internal/config"
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/io/stt"
	"gopkg.in/yaml.v3"
)

// newPipeline is replaced in tests.
var newPipeline = func(ctx context.Context, cfg *config.Settings, logger *Logger.Logger) (*lecture.Pipeline, []io.Closer, error) {
	return app.NewPipeline(ctx, cfg, logger)
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <audio>",
		Short: "Transcribe a recording and generate summary, questions and translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, _ := cmd.Flags().GetString("language")
			target, _ := cmd.Flags().GetString("translate")
			pdfPath, _ := cmd.Flags().GetString("pdf")
			format, _ := cmd.Flags().GetString("format")
			sttProvider, _ := cmd.Flags().GetString("stt")
			provider, _ := cmd.Flags().GetString("provider")
			verbose, _ := cmd.Flags().GetBool("verbose")

			format = strings.ToLower(format)
			switch format {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unknown format %q (text, json or yaml)", format)
			}

			cfg, err := config.LoadOptional()
			if err != nil {
				return err
			}
			if sttProvider != "" {
				cfg.STT.Provider = sttProvider
			}
			if provider != "" {
				cfg.Assistant.DefaultProvider = provider
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger := Logger.BuildLogger(cfg.Debug, level)
			defer func() { _ = logger.Sync() }()

			audio, err := afero.ReadFile(fs, args[0])
			if err != nil {
				return fmt.Errorf("read audio: %w", err)
			}

			pipeline, closers, err := newPipeline(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				for _, c := range closers {
					_ = c.Close()
				}
			}()

			notes, err := pipeline.Generate(cmd.Context(), stt.AudioInput{
				Data:     audio,
				Filename: filepath.Base(args[0]),
				Language: language,
			}, target)
			if err != nil {
				return err
			}

			if pdfPath != "" {
				renderer, err := app.NewRenderer(cfg.PDF, fs)
				if err != nil {
					return err
				}
				doc := notes.Document(cfg.PDF.Title, time.Now())
				if err := renderer.WriteFile(fs, pdfPath, doc); err != nil {
					return fmt.Errorf("write pdf: %w", err)
				}
				logger.Infof("wrote %s", pdfPath)
			}

			return writeNotes(cmd.OutOrStdout(), notes, format)
		},
	}

	cmd.Flags().StringP("language", "l", "", "Spoken language of the recording (detected when empty)")
	cmd.Flags().StringP("translate", "t", "", "Translate the transcript into this language")
	cmd.Flags().String("pdf", "", "Also write the notes to this PDF file")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().String("stt", "", "Override the transcription backend (whisper, openai)")
	cmd.Flags().String("provider", "", "Override the default text generation provider")
	cmd.Flags().BoolP("verbose", "v", false, "Log progress to stderr")

	return cmd
}

func writeNotes(w io.Writer, notes *lecture.Notes, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(notes)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(notes); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, renderText(notes))
		return err
	}
}
