// Package memory provides in-process repositories for development and tests.
// Every record crosses the boundary as a copy; stored values are replaced on
// update, never mutated, which keeps transaction snapshots cheap.
package memory

import (
	"context"
	"sync"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

type txKey struct{}

// Store holds the three collections behind a single lock
type Store struct {
	users        map[string]*users.User
	posts        map[string]*posts.Post
	comments     map[string]*comments.Comment
	userOrder    []string
	postOrder    []string
	commentOrder []string
	mu           sync.RWMutex
	txMu         sync.Mutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*users.User),
		posts:    make(map[string]*posts.Post),
		comments: make(map[string]*comments.Comment),
	}
}

// Users returns the user repository view of the store
func (s *Store) Users() users.UserRepository { return &userRepo{s: s} }

// Posts returns the post repository view of the store
func (s *Store) Posts() posts.Repository { return &postRepo{s: s} }

// Comments returns the comment repository view of the store
func (s *Store) Comments() comments.Repository { return &commentRepo{s: s} }

type snapshot struct {
	users        map[string]*users.User
	posts        map[string]*posts.Post
	comments     map[string]*comments.Comment
	userOrder    []string
	postOrder    []string
	commentOrder []string
}

// WithinTx runs fn with all-or-nothing semantics.
// Transactions are serialized against each other and against writes made
// outside a transaction, so the snapshot only ever holds state fn can see.
// On error or panic the collections are restored to their state before fn ran.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	committed := false
	defer func() {
		if !committed {
			s.restore(snap)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		return err
	}
	committed = true
	return nil
}

// guardWrite holds the transaction lock for a write made outside WithinTx.
// Inside a transaction the lock is already held by WithinTx.
func (s *Store) guardWrite(ctx context.Context) func() {
	if InTx(ctx) {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

// InTx reports whether ctx carries a transaction started by WithinTx
func InTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		users:        make(map[string]*users.User, len(s.users)),
		posts:        make(map[string]*posts.Post, len(s.posts)),
		comments:     make(map[string]*comments.Comment, len(s.comments)),
		userOrder:    append([]string(nil), s.userOrder...),
		postOrder:    append([]string(nil), s.postOrder...),
		commentOrder: append([]string(nil), s.commentOrder...),
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.posts {
		snap.posts[k] = v
	}
	for k, v := range s.comments {
		snap.comments[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.posts = snap.posts
	s.comments = snap.comments
	s.userOrder = snap.userOrder
	s.postOrder = snap.postOrder
	s.commentOrder = snap.commentOrder
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i:i], order[i+1:]...)
		}
	}
	return order
}
