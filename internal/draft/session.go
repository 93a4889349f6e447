package draft

import (
	"sync"
	"time"

	"kinder_admin/internal/nav"

	"github.com/google/uuid"
)

// Session — одна сессия мастера создания/правки класса: хранилище черновика,
// навигатор недель и владелец. Сессия живет только в памяти процесса и теряется
// при перезапуске — для черновиков это принятое поведение.
type Session struct {
	ID        uuid.UUID
	UserID    uint
	Store     *Store
	Nav       *nav.Navigator
	CreatedAt time.Time
	TouchedAt time.Time
}

// Manager хранит активные сессии по их ID. У каждой сессии ровно один мутатор
// (её владелец), но карта сессий защищается mutex'ом: gin обслуживает запросы
// конкурентно, а reaper работает в горутине cron.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager создает пустой менеджер сессий.
func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Session)}
}

// Create регистрирует новую сессию с готовым хранилищем.
func (m *Manager) Create(userID uint, store *Store) *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Store:     store,
		Nav:       nav.New(),
		CreatedAt: now,
		TouchedAt: now,
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess
}

// Get возвращает сессию, если она существует и принадлежит пользователю.
// Каждое обращение продлевает жизнь сессии.
func (m *Manager) Get(id uuid.UUID, userID uint) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok || sess.UserID != userID {
		return nil, false
	}
	sess.TouchedAt = time.Now()
	return sess, true
}

// Remove удаляет сессию (после успешного flush или по явному отказу пользователя).
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len — количество активных сессий.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ReapIdle удаляет сессии, к которым не обращались дольше ttl, и возвращает их число.
func (m *Manager) ReapIdle(ttl time.Duration) int {
	threshold := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		if sess.TouchedAt.Before(threshold) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
