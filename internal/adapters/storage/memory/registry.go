package memory

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/groweasy/lead-agent/internal/app/conversation"
	"github.com/groweasy/lead-agent/internal/domain"
)

var ErrConversationNotFound = errors.New("conversation not found")

// Conversation pairs one engine with the mutex serializing its turns.
// The engine itself is lock-free; the registry guarantees each
// conversation processes one inbound message at a time while distinct
// conversations stay fully independent.
type Conversation struct {
	ID        domain.ConversationID
	Engine    *conversation.Engine
	CreatedAt time.Time

	mu sync.Mutex
}

// Do runs fn with exclusive access to the conversation's engine.
func (c *Conversation) Do(fn func(*conversation.Engine)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.Engine)
}

// Registry is the in-memory conversation store. It is NOT persistent and
// only suitable for a single-process deployment.
type Registry struct {
	mu            sync.RWMutex
	conversations map[domain.ConversationID]*Conversation
	now           func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		conversations: make(map[domain.ConversationID]*Conversation),
		now:           time.Now,
	}
}

// Create registers a new engine under a fresh conversation id.
func (r *Registry) Create(engine *conversation.Engine) *Conversation {
	conv := &Conversation{
		ID:        domain.ConversationID(uuid.NewString()),
		Engine:    engine,
		CreatedAt: r.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[conv.ID] = conv
	return conv
}

func (r *Registry) Get(id domain.ConversationID) (*Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// Delete discards a conversation and its transcript.
func (r *Registry) Delete(id domain.ConversationID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conversations, id)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conversations)
}
