package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/io/stt"
	"github.com/xpanvictor/lecturenotes/pkg/transcript"
)

// LectureHandler handles lecture-related HTTP requests
type LectureHandler struct {
	lectureService lecture.LectureService
	logger         *Logger.Logger
	maxUpload      int64
}

// NewLectureHandler creates a new lecture handler. maxUploadMB <= 0 disables
// the upload size check.
func NewLectureHandler(lectureService lecture.LectureService, maxUploadMB int64, logger *Logger.Logger) *LectureHandler {
	return &LectureHandler{
		lectureService: lectureService,
		logger:         logger,
		maxUpload:      maxUploadMB << 20,
	}
}

// SubmitLecture handles audio uploads
// @Summary Upload a lecture recording
// @Description Upload an audio file; transcription and note generation run in the background
// @Tags Lectures
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Lecture audio (wav, mp3, m4a, ogg, flac, webm)"
// @Param language formData string false "Spoken language, detected when omitted"
// @Param target_language formData string false "Language to translate the transcript into"
// @Success 202 {object} SubmitLectureResponse "Lecture queued"
// @Failure 400 {object} ErrorResponse "Missing or unsupported audio"
// @Failure 413 {object} ErrorResponse "Upload too large"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /lectures [post]
func (h *LectureHandler) SubmitLecture(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	header, err := c.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   "Upload too large",
				Details: fmt.Sprintf("limit is %d bytes", tooLarge.Limit),
			})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Audio file required",
			Details: err.Error(),
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Errorf("open upload error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	defer file.Close()

	l, err := h.lectureService.Submit(c.Request.Context(), lecture.SubmitRequest{
		Filename:       header.Filename,
		Audio:          file,
		Language:       strings.TrimSpace(c.PostForm("language")),
		TargetLanguage: strings.TrimSpace(c.PostForm("target_language")),
	})
	if err != nil {
		switch {
		case errors.Is(err, lecture.ErrUnsupportedAudio):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Unsupported audio format",
				Details: strings.Join(lecture.SupportedExtensions, ", "),
			})
		case errors.Is(err, stt.ErrNoAudio):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Audio file is empty"})
		default:
			h.logger.Errorf("submit lecture error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusAccepted, SubmitLectureResponse{
		Message: "Lecture queued for processing",
		Lecture: *l,
	})
}

// GetLecture handles getting a specific lecture
// @Summary Get lecture by ID
// @Description Get a lecture with its status and, once completed, its notes
// @Tags Lectures
// @Produce json
// @Param id path string true "Lecture ID"
// @Success 200 {object} LectureResponse "Lecture retrieved successfully"
// @Failure 400 {object} ErrorResponse "Invalid lecture ID"
// @Failure 404 {object} ErrorResponse "Lecture not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /lectures/{id} [get]
func (h *LectureHandler) GetLecture(c *gin.Context) {
	id, ok := h.lectureID(c)
	if !ok {
		return
	}

	l, err := h.lectureService.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get lecture", err)
		return
	}

	c.JSON(http.StatusOK, LectureResponse{Lecture: *l})
}

// ListLectures handles listing lectures
// @Summary List lectures
// @Description List lectures, newest first, optionally filtered by status
// @Tags Lectures
// @Produce json
// @Param status query string false "Filter by status"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination" default(20)
// @Success 200 {object} ListLecturesResponse "Lectures retrieved successfully"
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /lectures [get]
func (h *LectureHandler) ListLectures(c *gin.Context) {
	var req lecture.ListLecturesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}
	if req.Status != "" && !lecture.Status(req.Status).Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid status filter",
			Details: req.Status,
		})
		return
	}

	lectures, total, err := h.lectureService.List(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorf("list lectures error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	if lectures == nil {
		lectures = []lecture.Lecture{}
	}

	c.JSON(http.StatusOK, ListLecturesResponse{
		Lectures: lectures,
		Pagination: PaginationInfo{
			Total:  total,
			Offset: req.Offset,
			Limit:  len(lectures),
		},
	})
}

// DeleteLecture handles lecture deletion
// @Summary Delete lecture
// @Description Delete a lecture and any audio still spooled for it
// @Tags Lectures
// @Produce json
// @Param id path string true "Lecture ID"
// @Success 200 {object} SuccessResponse "Lecture deleted successfully"
// @Failure 400 {object} ErrorResponse "Invalid lecture ID"
// @Failure 404 {object} ErrorResponse "Lecture not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /lectures/{id} [delete]
func (h *LectureHandler) DeleteLecture(c *gin.Context) {
	id, ok := h.lectureID(c)
	if !ok {
		return
	}

	if err := h.lectureService.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, "delete lecture", err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Lecture deleted successfully"})
}

// DownloadPDF renders the lecture notes as a PDF
// @Summary Download lecture notes as PDF
// @Description Render summary, questions, transcript and translation into a PDF
// @Tags Lectures
// @Produce application/pdf
// @Param id path string true "Lecture ID"
// @Success 200 {file} file "PDF document"
// @Failure 400 {object} ErrorResponse "Invalid lecture ID"
// @Failure 404 {object} ErrorResponse "Lecture not found"
// @Failure 409 {object} ErrorResponse "Lecture not completed yet"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /lectures/{id}/pdf [get]
func (h *LectureHandler) DownloadPDF(c *gin.Context) {
	id, ok := h.lectureID(c)
	if !ok {
		return
	}

	data, l, err := h.lectureService.RenderPDF(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "render pdf", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdfName(l)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// CleanTranscript normalizes raw transcript text
// @Summary Clean a transcript
// @Description Collapse whitespace, drop repeated sentences and collapse stuttered phrases
// @Tags Transcripts
// @Accept json
// @Produce json
// @Param request body CleanTranscriptRequest true "Raw transcript"
// @Success 200 {object} CleanTranscriptResponse "Cleaned transcript"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 422 {object} ErrorResponse "Transcript is empty after cleaning"
// @Router /transcripts/clean [post]
func (h *LectureHandler) CleanTranscript(c *gin.Context) {
	var req CleanTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	text, err := transcript.Clean(req.Text)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Transcript is empty",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, CleanTranscriptResponse{Text: text})
}

// Health reports liveness
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *LectureHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *LectureHandler) lectureID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid lecture ID",
			Details: err.Error(),
		})
		return "", false
	}
	return id, true
}

func (h *LectureHandler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, lecture.ErrLectureNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Lecture not found"})
	case errors.Is(err, lecture.ErrNotCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Lecture notes are not ready"})
	case errors.Is(err, transcript.ErrEmptyTranscript):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Transcript is empty"})
	default:
		h.logger.Errorf("%s error: %v", op, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

func pdfName(l *lecture.Lecture) string {
	base := strings.TrimSuffix(l.Filename, filepath.Ext(l.Filename))
	base = strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, base)
	if base == "" {
		base = l.ID.String()
	}
	return base + "_notes.pdf"
}
