package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskchat/models"
)

// In-memory implementations of the store interfaces. They back tests and
// local development without Postgres; the mutex gives them the same
// per-conversation append serialization the Postgres stores get from row
// locks.

// MemoryTaskStore is an in-memory TaskStore.
type MemoryTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]models.Task
}

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: map[int64]models.Task{}}
}

func (s *MemoryTaskStore) Create(_ context.Context, userID, title, description string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC()
	task := models.Task{
		ID:          s.nextID,
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[task.ID] = task
	return task, nil
}

func (s *MemoryTaskStore) List(_ context.Context, userID, status, sortBy string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := []models.Task{}
	for _, t := range s.tasks {
		if t.UserID != userID {
			continue
		}
		if status == StatusPending && t.Completed {
			continue
		}
		if status == StatusCompleted && !t.Completed {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if sortBy == "title" {
			return tasks[i].Title < tasks[j].Title
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks, nil
}

func (s *MemoryTaskStore) Get(_ context.Context, userID string, id int64) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return models.Task{}, ErrNotFound
	}
	return task, nil
}

func (s *MemoryTaskStore) Update(_ context.Context, userID string, id int64, upd TaskUpdate) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return models.Task{}, ErrNotFound
	}
	if upd.Title != nil {
		task.Title = *upd.Title
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}
	task.UpdatedAt = time.Now().UTC()
	s.tasks[id] = task
	return task, nil
}

func (s *MemoryTaskStore) Delete(_ context.Context, userID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// MemoryConversationStore is an in-memory ConversationStore.
type MemoryConversationStore struct {
	mu            sync.Mutex
	nextConvID    int64
	nextMsgID     int64
	conversations map[int64]models.Conversation
	messages      map[int64][]models.Message
}

// NewMemoryConversationStore creates an empty in-memory conversation store.
func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{
		conversations: map[int64]models.Conversation{},
		messages:      map[int64][]models.Message{},
	}
}

func (s *MemoryConversationStore) Create(_ context.Context, userID string) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextConvID++
	now := time.Now().UTC()
	c := models.Conversation{ID: s.nextConvID, UserID: userID, CreatedAt: now, UpdatedAt: now}
	s.conversations[c.ID] = c
	return c, nil
}

func (s *MemoryConversationStore) Get(_ context.Context, id int64) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return models.Conversation{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryConversationStore) Touch(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	s.conversations[id] = c
	return nil
}

func (s *MemoryConversationStore) AppendMessage(_ context.Context, conversationID int64, role, content string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[conversationID]; !ok {
		return models.Message{}, ErrNotFound
	}
	content = models.TruncateMessage(content)
	s.nextMsgID++
	msg := models.Message{
		ID:             s.nextMsgID,
		ConversationID: conversationID,
		Seq:            int64(len(s.messages[conversationID]) + 1),
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	return msg, nil
}

func (s *MemoryConversationStore) RecentMessages(_ context.Context, conversationID int64, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.messages[conversationID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]models.Message, len(all))
	copy(out, all)
	return out, nil
}

func (s *MemoryConversationStore) Messages(_ context.Context, conversationID int64) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages[conversationID]))
	copy(out, s.messages[conversationID])
	return out, nil
}

// MemoryUserStore is an in-memory UserStore.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: map[string]models.User{}}
}

func (s *MemoryUserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}
