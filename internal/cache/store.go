package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/EugenyBaz/ChekhovAgent/internal/database"
	"github.com/EugenyBaz/ChekhovAgent/internal/logger"

	"github.com/allegro/bigcache/v3"
)

// Store хранит состояния диалогов в памяти процесса.
// Для каждого пользователя в bigcache лежит аренда: пока она жива, живо и состояние.
// Истечение аренды (TTL) или вытеснение по лимиту памяти удаляет состояние.
//
// Методы bigcache нельзя вызывать под s.mu: колбэк удаления берет s.mu
// и вызывается под блокировкой шарда.
type Store struct {
	mu     sync.Mutex
	states map[string]*State

	leases *bigcache.BigCache
}

func NewStore(ctx context.Context, ttl time.Duration, maxSizeMB int) (*Store, error) {
	s := &Store{states: make(map[string]*State)}

	cnf := database.InMemoryCacheConfig(ttl, maxSizeMB)
	cnf.OnRemoveWithReason = s.onLeaseRemoved

	leases, err := database.ConnectInMemoryCache(ctx, cnf)
	if err != nil {
		return nil, err
	}
	s.leases = leases

	return s, nil
}

func stateKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// Ensure возвращает состояние пользователя, создавая его при первом обращении.
// Повторный вызов возвращает тот же объект и продлевает аренду.
func (s *Store) Ensure(userID int64) *State {
	key := stateKey(userID)

	s.mu.Lock()
	st, ok := s.states[key]
	if !ok {
		st = &State{Stage: database.NEED_CLUB, History: []Turn{}}
		s.states[key] = st
	}
	s.mu.Unlock()

	if !ok {
		logger.Debug("Новое состояние диалога для " + key)
	}
	s.touch(key)

	return st
}

// Get - состояние пользователя без создания
func (s *Store) Get(userID int64) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[stateKey(userID)]
	return st, ok
}

// Evict удаляет состояние пользователя
func (s *Store) Evict(userID int64) {
	key := stateKey(userID)

	s.mu.Lock()
	delete(s.states, key)
	s.mu.Unlock()

	if err := s.leases.Delete(key); err != nil && err != bigcache.ErrEntryNotFound {
		logger.Warning("Error while delete dialog lease", err)
	}
}

// AppendHistory добавляет реплику и оставляет в истории последние HISTORY_LIMIT.
// Ходы одного пользователя должны быть упорядочены через State.Lock.
func (s *Store) AppendHistory(userID int64, role, content string) {
	st := s.Ensure(userID)

	st.History = append(st.History, Turn{Role: role, Content: content})
	if over := len(st.History) - database.HISTORY_LIMIT; over > 0 {
		st.History = append([]Turn(nil), st.History[over:]...)
	}
}

// Len - число отслеживаемых пользователей
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.states)
}

func (s *Store) Close() error {
	return s.leases.Close()
}

func (s *Store) touch(key string) {
	stamp := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.leases.Set(key, []byte(stamp)); err != nil {
		logger.Warning("Error while write dialog lease", err)
	}
}

func (s *Store) onLeaseRemoved(key string, _ []byte, reason bigcache.RemoveReason) {
	if reason == bigcache.Deleted {
		return
	}

	s.mu.Lock()
	delete(s.states, key)
	s.mu.Unlock()

	logger.Debug("Состояние диалога удалено", key, reasonName(reason))
}

func reasonName(reason bigcache.RemoveReason) string {
	switch reason {
	case bigcache.Expired:
		return "expired"
	case bigcache.NoSpace:
		return "no space"
	default:
		return "deleted"
	}
}
