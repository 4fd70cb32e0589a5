// Package resettokens keeps short-lived password reset tokens.
//
// Tokens live only in process memory behind the Store interface, so a
// durable, TTL-native backend can replace MemoryStore without touching
// callers. Tokens do not survive a restart.
package resettokens

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/gpatracker/internal/server/models"
)

// Store is the contract for reset-token storage. All methods must be safe
// for concurrent use.
type Store interface {
	// Put stores t under t.Token, replacing any previous entry.
	Put(t models.ResetToken)

	// Get returns the token without removing it.
	Get(token string) (models.ResetToken, bool)

	// Take removes and returns the token in one step, so at most one caller
	// can claim it.
	Take(token string) (models.ResetToken, bool)

	// Delete removes the token; deleting an unknown token is not an error.
	Delete(token string)

	// Sweep removes every token expired at now and reports how many went.
	Sweep(now time.Time) int

	// Len reports the number of stored tokens.
	Len() int
}

// MemoryStore is a mutex-guarded map implementation of Store.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]models.ResetToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]models.ResetToken)}
}

func (s *MemoryStore) Put(t models.ResetToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[t.Token] = t
}

func (s *MemoryStore) Get(token string) (models.ResetToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	return t, ok
}

func (s *MemoryStore) Take(token string) (models.ResetToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if ok {
		delete(s.tokens, token)
	}
	return t, ok
}

func (s *MemoryStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, t := range s.tokens {
		if t.Expired(now) {
			delete(s.tokens, k)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
