package domain

import (
	"context"
	"fmt"
)

// CommandHandler validates one command payload and forwards it to the
// vendor device. Validation errors return before any vendor call.
type CommandHandler func(ctx context.Context, payload string) error

// CommandKey identifies one command slot of one entity. Param disambiguates
// entities with several command topics (fan percentage vs preset mode).
type CommandKey struct {
	EntityId string
	Param    string
}

func (k CommandKey) String() string {
	if k.Param == "" {
		return k.EntityId
	}
	return fmt.Sprintf("%s/%s", k.EntityId, k.Param)
}

// CommandRegistry maps entity command slots to their handlers. Built fresh
// on every discovery pass.
type CommandRegistry struct {
	handlers map[CommandKey]CommandHandler
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{handlers: map[CommandKey]CommandHandler{}}
}

func (r *CommandRegistry) Register(key CommandKey, handler CommandHandler) {
	r.handlers[key] = handler
}

func (r *CommandRegistry) Lookup(key CommandKey) (CommandHandler, bool) {
	h, ok := r.handlers[key]
	return h, ok
}

func (r *CommandRegistry) Len() int {
	return len(r.handlers)
}

func (r *CommandRegistry) Keys() []CommandKey {
	keys := make([]CommandKey, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	return keys
}
