package websocket

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeStatus MessageType = "status"
	MessageTypeError  MessageType = "error"
)

// WSMessage represents the structure of WebSocket messages
type WSMessage struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	LectureID string      `json:"lectureId,omitempty"`
	Sequence  int         `json:"sequence"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorMessage contains error information
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
