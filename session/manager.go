package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mobile-next/gesturerec/devices"
	"github.com/mobile-next/gesturerec/recorder"
	"github.com/mobile-next/gesturerec/utils"
	"github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager owns the open sessions. When the limit is reached the least
// recently used session is closed to make room.
type Manager struct {
	dir      devices.Directory
	cfg      recorder.Config
	sessions *lru.Cache[string, *Session]
	log      *logrus.Entry
}

func NewManager(dir devices.Directory, cfg recorder.Config, maxSessions int) (*Manager, error) {
	m := &Manager{
		dir: dir,
		cfg: cfg,
		log: utils.WithComponent("session"),
	}

	cache, err := lru.NewWithEvict[string, *Session](maxSessions, func(id string, s *Session) {
		m.log.WithField("session", id).Info("closing session")
		s.close()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	m.sessions = cache
	return m, nil
}

// Open starts a session for a device from the directory. Offline devices are refused.
func (m *Manager) Open(deviceID string) (*Session, error) {
	device, err := devices.Find(m.dir, deviceID)
	if err != nil {
		return nil, err
	}

	if device.IsOffline {
		return nil, fmt.Errorf("device %s is offline", device.ID)
	}

	s := newSession(uuid.NewString(), device, m.cfg, m.log)
	m.sessions.Add(s.ID, s)

	m.log.WithFields(logrus.Fields{"session": s.ID, "device": device.ID}).Info("session opened")
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Close ends a session and discards its in-progress state.
func (m *Manager) Close(id string) error {
	s, ok := m.sessions.Peek(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	m.sessions.Remove(id)
	s.close()
	return nil
}

// List describes the open sessions, least recently used first.
func (m *Manager) List() []Info {
	sessions := m.sessions.Values()
	infos := make([]Info, len(sessions))
	for i, s := range sessions {
		infos[i] = s.Info()
	}
	return infos
}

// CloseAll ends every open session. Used on server shutdown and on signals.
func (m *Manager) CloseAll() {
	for _, id := range m.sessions.Keys() {
		if err := m.Close(id); err != nil {
			m.log.WithField("session", id).Debugf("close skipped: %v", err)
		}
	}
}
