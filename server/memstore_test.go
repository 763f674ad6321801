package server

import (
	"context"
	"sort"
	"sync"

	"github.com/existflow/taskbreeze/internal/model"
)

// memStore is an in-memory Store for handler tests
type memStore struct {
	mu       sync.Mutex
	users    map[string]model.User
	sessions map[string]model.Session
	links    map[string]model.MagicLink
	boards   map[string]model.Board
	tasks    map[string]model.Task
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]model.User{},
		sessions: map[string]model.Session{},
		links:    map[string]model.MagicLink{},
		boards:   map[string]model.Board{},
		tasks:    map[string]model.Task{},
	}
}

func (m *memStore) CreateUser(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrConflict
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memStore) findUser(match func(model.User) bool) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (m *memStore) UserByID(_ context.Context, id string) (model.User, error) {
	return m.findUser(func(u model.User) bool { return u.ID == id })
}

func (m *memStore) UserByUsername(_ context.Context, username string) (model.User, error) {
	return m.findUser(func(u model.User) bool { return u.Username == username })
}

func (m *memStore) UserByEmail(_ context.Context, email string) (model.User, error) {
	return m.findUser(func(u model.User) bool { return u.Email == email })
}

func (m *memStore) CreateSession(_ context.Context, s model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *memStore) Session(_ context.Context, token string) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	return s, nil
}

func (m *memStore) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memStore) CreateMagicLink(_ context.Context, l model.MagicLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[l.Token] = l
	return nil
}

func (m *memStore) MagicLink(_ context.Context, token string) (model.MagicLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[token]
	if !ok {
		return model.MagicLink{}, ErrNotFound
	}
	return l, nil
}

func (m *memStore) MarkMagicLinkUsed(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[token]
	if !ok {
		return ErrNotFound
	}
	l.Used = true
	m.links[token] = l
	return nil
}

func (m *memStore) ListBoards(_ context.Context, userID string) ([]model.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Board{}
	for _, b := range m.boards {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) Board(_ context.Context, userID, id string) (model.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[id]
	if !ok || b.UserID != userID {
		return model.Board{}, ErrNotFound
	}
	return b, nil
}

func (m *memStore) CreateBoard(_ context.Context, b model.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards[b.ID] = b
	return nil
}

func (m *memStore) UpdateBoard(_ context.Context, b model.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.boards[b.ID]
	if !ok || old.UserID != b.UserID {
		return ErrNotFound
	}
	m.boards[b.ID] = b
	return nil
}

func (m *memStore) DeleteBoard(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[id]
	if !ok || b.UserID != userID {
		return ErrNotFound
	}
	delete(m.boards, id)
	for tid, t := range m.tasks {
		if t.BoardID == id {
			delete(m.tasks, tid)
		}
	}
	return nil
}

func (m *memStore) ClearDefaultBoard(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, b := range m.boards {
		if b.UserID == userID && b.IsDefault {
			b.IsDefault = false
			m.boards[id] = b
		}
	}
	return nil
}

func (m *memStore) owns(userID, boardID string) bool {
	b, ok := m.boards[boardID]
	return ok && b.UserID == userID
}

func (m *memStore) ListTasks(_ context.Context, userID, boardID string, archived bool) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Task{}
	if !m.owns(userID, boardID) {
		return out, nil
	}
	for _, t := range m.tasks {
		if t.BoardID == boardID && t.Archived == archived {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *memStore) Task(_ context.Context, userID, id string) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || !m.owns(userID, t.BoardID) {
		return model.Task{}, ErrNotFound
	}
	return t, nil
}

func (m *memStore) CreateTask(_ context.Context, t model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = t
	return nil
}

func (m *memStore) UpdateTask(_ context.Context, userID string, t model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.tasks[t.ID]
	if !ok || !m.owns(userID, old.BoardID) {
		return ErrNotFound
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *memStore) DeleteTask(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || !m.owns(userID, t.BoardID) {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *memStore) NextOrder(_ context.Context, boardID string, column model.ColumnID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if t.BoardID == boardID && t.ColumnID == column && !t.Archived && t.Order+1 > n {
			n = t.Order + 1
		}
	}
	return n, nil
}
