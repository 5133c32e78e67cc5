package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/EugenyBaz/ChekhovAgent/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), ttl, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEnsureCreatesNeedClubState(t *testing.T) {
	s := newStore(t, time.Hour)

	st := s.Ensure(42)
	require.NotNil(t, st)
	assert.Equal(t, database.NEED_CLUB, st.Stage)
	assert.Empty(t, st.History)
	assert.Empty(t, st.SelectedClub)
	assert.Empty(t, st.TimePreference)
	assert.Equal(t, 1, s.Len())
}

func TestEnsureIsIdempotent(t *testing.T) {
	s := newStore(t, time.Hour)

	first := s.Ensure(7)
	s.AppendHistory(7, database.ROLE_USER, "привет")
	first.Stage = database.PRICING

	second := s.Ensure(7)
	assert.Same(t, first, second)
	assert.Equal(t, database.PRICING, second.Stage)
	assert.Len(t, second.History, 1)
	assert.Equal(t, 1, s.Len())
}

func TestAppendHistoryKeepsLastSix(t *testing.T) {
	s := newStore(t, time.Hour)

	for i := 1; i <= 7; i++ {
		role := database.ROLE_USER
		if i%2 == 0 {
			role = database.ROLE_ASSISTANT
		}
		s.AppendHistory(1, role, fmt.Sprintf("msg %d", i))
	}

	st, ok := s.Get(1)
	require.True(t, ok)
	require.Len(t, st.History, database.HISTORY_LIMIT)
	for i, turn := range st.History {
		assert.Equal(t, fmt.Sprintf("msg %d", i+2), turn.Content)
	}
	assert.Equal(t, database.ROLE_ASSISTANT, st.History[0].Role)
}

func TestLastTurns(t *testing.T) {
	s := newStore(t, time.Hour)
	for i := 0; i < 4; i++ {
		s.AppendHistory(1, database.ROLE_USER, fmt.Sprint(i))
	}
	st := s.Ensure(1)

	last := st.LastTurns(2)
	assert.Equal(t, []Turn{{database.ROLE_USER, "2"}, {database.ROLE_USER, "3"}}, last)

	last[0].Content = "changed"
	assert.Equal(t, "2", st.History[2].Content, "LastTurns returns a copy")
	assert.Len(t, st.LastTurns(10), 4)
}

func TestGetAndEvict(t *testing.T) {
	s := newStore(t, time.Hour)

	_, ok := s.Get(5)
	assert.False(t, ok)

	s.Ensure(5)
	_, ok = s.Get(5)
	assert.True(t, ok)

	s.Evict(5)
	_, ok = s.Get(5)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	// повторное удаление не паникует
	s.Evict(5)
}

func TestStatesAreIndependent(t *testing.T) {
	s := newStore(t, time.Hour)

	s.AppendHistory(1, database.ROLE_USER, "a")
	s.AppendHistory(2, database.ROLE_USER, "b")
	s.AppendHistory(2, database.ROLE_USER, "c")

	a, _ := s.Get(1)
	b, _ := s.Get(2)
	assert.Len(t, a.History, 1)
	assert.Len(t, b.History, 2)
}

func TestExpiredLeaseDropsState(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for bigcache clean window")
	}
	s := newStore(t, time.Second)

	s.Ensure(99)
	assert.Eventually(t, func() bool {
		_, ok := s.Get(99)
		return !ok
	}, 6*time.Second, 100*time.Millisecond)
}
