package websocket

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Session is one client watching one lecture. All writes go through it so
// the connection has a single writer.
type Session struct {
	SessionID uuid.UUID
	LectureID uuid.UUID
	Conn      *websocket.Conn

	ConnectedAt time.Time
	lastActive  time.Time
	IsActive    bool
	sequence    int
	mutex       sync.Mutex
}

func NewSession(lectureID uuid.UUID, conn *websocket.Conn) *Session {
	now := time.Now()
	return &Session{
		SessionID:   uuid.New(),
		LectureID:   lectureID,
		Conn:        conn,
		ConnectedAt: now,
		lastActive:  now,
		IsActive:    true,
	}
}

// Send writes a message to the client.
func (s *Session) Send(msgType MessageType, data interface{}) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.IsActive {
		return fmt.Errorf("session not active")
	}

	s.sequence++
	msg := WSMessage{
		Type:      msgType,
		Data:      data,
		LectureID: s.LectureID.String(),
		Sequence:  s.sequence,
		Timestamp: time.Now().UTC(),
	}

	_ = s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.Conn.WriteJSON(msg); err != nil {
		return err
	}
	s.lastActive = time.Now()
	return nil
}

func (s *Session) SendError(code, message string) error {
	return s.Send(MessageTypeError, ErrorMessage{
		Code:    code,
		Message: message,
	})
}

func (s *Session) Ping() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.IsActive {
		return fmt.Errorf("session not active")
	}
	return s.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (s *Session) UpdateLastActive() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastActive = time.Now()
}

// Close sends a normal close frame with reason and closes the connection.
// Calling it on a closed session is a no-op.
func (s *Session) Close(reason string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.IsActive {
		return nil
	}
	s.IsActive = false

	_ = s.Conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
		time.Now().Add(writeWait),
	)
	return s.Conn.Close()
}

// IsExpired checks if the session has expired based on inactivity
func (s *Session) IsExpired(timeout time.Duration) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return time.Since(s.lastActive) > timeout
}
