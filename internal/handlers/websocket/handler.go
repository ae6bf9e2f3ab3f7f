package websocket

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
)

// EventsHandler streams lecture status changes over a websocket.
type EventsHandler struct {
	logger            *Logger.Logger
	lectureService    lecture.LectureService
	connectionManager *ConnectionManager
	upgrader          websocket.Upgrader
	// pollInterval bounds how stale a client can get when a published
	// update was dropped; it is also the ping period.
	pollInterval time.Duration
}

func NewEventsHandler(
	lectureService lecture.LectureService,
	connectionManager *ConnectionManager,
	pollInterval time.Duration,
	logger *Logger.Logger,
) *EventsHandler {
	if pollInterval <= 0 {
		pollInterval = 15 * time.Second
	}
	return &EventsHandler{
		logger:            logger,
		lectureService:    lectureService,
		connectionManager: connectionManager,
		pollInterval:      pollInterval,
		upgrader: websocket.Upgrader{
			// TODO: restrict origins once the web client has a fixed host
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleLectureEvents streams status updates for one lecture
// @Summary Watch lecture progress
// @Description Websocket; sends the current lecture, then every change, and closes once the lecture completes or fails
// @Tags Lectures
// @Param id path string true "Lecture ID"
// @Success 101 {string} string "Switching protocols"
// @Failure 400 {object} map[string]string "Invalid lecture ID"
// @Failure 404 {object} map[string]string "Lecture not found"
// @Router /lectures/{id}/events [get]
func (h *EventsHandler) HandleLectureEvents(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lecture ID"})
		return
	}

	// subscribe before reading so no transition falls between the two
	updates, cancel := h.lectureService.Subscribe(id)
	defer cancel()

	current, err := h.lectureService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, lecture.ErrLectureNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lecture not found"})
			return
		}
		h.logger.Errorf("lecture events lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	session := NewSession(current.ID, conn)
	h.connectionManager.RegisterConnection(session)
	reason := h.stream(c, session, current, updates)
	h.connectionManager.UnregisterConnection(session.SessionID, reason)
}

// stream pushes updates until the lecture is terminal or the client goes
// away, and returns the close reason.
func (h *EventsHandler) stream(c *gin.Context, session *Session, current *lecture.Lecture, updates <-chan lecture.Lecture) string {
	conn := session.Conn
	conn.SetPongHandler(func(string) error {
		session.UpdateLastActive()
		return nil
	})

	// the read loop only drains control frames and notices disconnects
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			session.UpdateLastActive()
		}
	}()

	last := *current
	if err := session.Send(MessageTypeStatus, last); err != nil {
		return "write failed"
	}
	if last.Terminal() {
		return string(last.Status)
	}

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return "client closed"

		case l, ok := <-updates:
			if !ok {
				return "stream closed"
			}
			if !l.UpdatedAt.After(last.UpdatedAt) && l.Status == last.Status {
				continue
			}
			last = l
			if err := session.Send(MessageTypeStatus, last); err != nil {
				return "write failed"
			}

		case <-ticker.C:
			if err := session.Ping(); err != nil {
				return "ping failed"
			}
			l, err := h.lectureService.Get(c.Request.Context(), last.ID.String())
			if err != nil {
				if errors.Is(err, lecture.ErrLectureNotFound) {
					_ = session.SendError("not_found", "lecture was deleted")
					return "lecture deleted"
				}
				h.logger.Warnf("lecture events poll error: %v", err)
				continue
			}
			if l.Status == last.Status {
				continue
			}
			last = *l
			if err := session.Send(MessageTypeStatus, last); err != nil {
				return "write failed"
			}
		}

		if last.Terminal() {
			return string(last.Status)
		}
	}
}
