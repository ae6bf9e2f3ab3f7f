package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
)

// ConnectionManager tracks open lecture event streams so they can be
// reaped when idle and closed on shutdown.
type ConnectionManager struct {
	logger         *Logger.Logger
	sessions       map[uuid.UUID]*Session
	mutex          sync.RWMutex
	cleanupTicker  *time.Ticker
	stopCleanup    chan struct{}
	stopOnce       sync.Once
	sessionTimeout time.Duration
}

func NewConnectionManager(logger *Logger.Logger, sessionTimeout time.Duration) *ConnectionManager {
	if sessionTimeout <= 0 {
		sessionTimeout = 30 * time.Minute
	}
	cm := &ConnectionManager{
		logger:         logger,
		sessions:       make(map[uuid.UUID]*Session),
		stopCleanup:    make(chan struct{}),
		sessionTimeout: sessionTimeout,
	}

	cm.startCleanupRoutine()

	return cm
}

func (cm *ConnectionManager) RegisterConnection(session *Session) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.sessions[session.SessionID] = session
	cm.logger.Debugf("watching lecture %s (session: %s)", session.LectureID, session.SessionID)
}

// UnregisterConnection removes a session and closes it.
func (cm *ConnectionManager) UnregisterConnection(sessionID uuid.UUID, reason string) {
	cm.mutex.Lock()
	session, exists := cm.sessions[sessionID]
	delete(cm.sessions, sessionID)
	cm.mutex.Unlock()

	if !exists {
		return
	}
	if err := session.Close(reason); err != nil {
		cm.logger.Debugf("error closing session %s: %v", sessionID, err)
	}
}

func (cm *ConnectionManager) GetSessionCount() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return len(cm.sessions)
}

// CloseAll closes every open stream and stops the cleanup routine.
func (cm *ConnectionManager) CloseAll(reason string) {
	cm.stopOnce.Do(func() {
		close(cm.stopCleanup)
	})

	cm.mutex.Lock()
	sessions := cm.sessions
	cm.sessions = make(map[uuid.UUID]*Session)
	cm.mutex.Unlock()

	for id, session := range sessions {
		if err := session.Close(reason); err != nil {
			cm.logger.Debugf("error closing session %s: %v", id, err)
		}
	}
	if len(sessions) > 0 {
		cm.logger.Infof("closed %d lecture event stream(s)", len(sessions))
	}
}

func (cm *ConnectionManager) startCleanupRoutine() {
	cm.cleanupTicker = time.NewTicker(5 * time.Minute)

	go func() {
		defer cm.cleanupTicker.Stop()
		for {
			select {
			case <-cm.cleanupTicker.C:
				cm.cleanupExpiredSessions()
			case <-cm.stopCleanup:
				return
			}
		}
	}()
}

func (cm *ConnectionManager) cleanupExpiredSessions() {
	cm.mutex.RLock()
	var expired []uuid.UUID
	for id, session := range cm.sessions {
		if session.IsExpired(cm.sessionTimeout) {
			expired = append(expired, id)
		}
	}
	cm.mutex.RUnlock()

	for _, id := range expired {
		cm.logger.Infof("closing idle lecture event stream %s", id)
		cm.UnregisterConnection(id, "idle timeout")
	}
}
