// Package session keeps the client-side state of the lookup, process and ask operations.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/riftrewind/internal/domain"
)

// ErrEmptyQuestion is returned by Ask for a question that is blank after trimming.
var ErrEmptyQuestion = errors.New("question is empty")

// QuickQuestions are canned questions offered as shortcuts.
var QuickQuestions = []string{
	"What's my best champion?",
	"How can I improve my KDA?",
	"Which role should I focus on?",
	"How is my vision score compared to my deaths?",
	"Am I better in short or long games?",
}

// Client performs the three operations. gateway.Gateway implements it.
type Client interface {
	Lookup(ctx context.Context, req domain.LookupRequest) (*domain.LookupResult, error)
	Process(ctx context.Context, stableID string) (*domain.AggregateResult, error)
	Ask(ctx context.Context, stableID, question string) (*domain.QAExchange, error)
}

// Session owns one independent track per operation.
// Operations on different tracks never affect each other.
type Session struct {
	client  Client
	lookup  Track[*domain.LookupResult]
	process Track[*domain.AggregateResult]
	ask     Track[*domain.QAExchange]
}

// New creates a session with all tracks idle.
func New(client Client) *Session {
	return &Session{client: client}
}

// Lookup runs a lookup and returns the lookup track's state afterwards.
func (s *Session) Lookup(ctx context.Context, req domain.LookupRequest) Snapshot[*domain.LookupResult] {
	return s.lookup.Run(ctx, func(ctx context.Context) (*domain.LookupResult, error) {
		return s.client.Lookup(ctx, req)
	})
}

// Process runs a process call for stableID.
func (s *Session) Process(ctx context.Context, stableID string) Snapshot[*domain.AggregateResult] {
	return s.process.Run(ctx, func(ctx context.Context) (*domain.AggregateResult, error) {
		return s.client.Process(ctx, stableID)
	})
}

// Ask sends question for stableID. Blank questions, including quick
// questions, are rejected with ErrEmptyQuestion and leave the track untouched.
func (s *Session) Ask(ctx context.Context, stableID, question string) (Snapshot[*domain.QAExchange], error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return s.ask.Snapshot(), ErrEmptyQuestion
	}
	return s.ask.Run(ctx, func(ctx context.Context) (*domain.QAExchange, error) {
		return s.client.Ask(ctx, stableID, question)
	}), nil
}

// AskQuick sends QuickQuestions[i].
func (s *Session) AskQuick(ctx context.Context, stableID string, i int) (Snapshot[*domain.QAExchange], error) {
	if i < 0 || i >= len(QuickQuestions) {
		return s.ask.Snapshot(), ErrEmptyQuestion
	}
	return s.Ask(ctx, stableID, QuickQuestions[i])
}

// GoLookup runs Lookup on its own goroutine. The channel closes when it finishes.
func (s *Session) GoLookup(ctx context.Context, req domain.LookupRequest) <-chan struct{} {
	return goRun(func() { s.Lookup(ctx, req) })
}

// GoProcess runs Process on its own goroutine.
func (s *Session) GoProcess(ctx context.Context, stableID string) <-chan struct{} {
	return goRun(func() { s.Process(ctx, stableID) })
}

// GoAsk runs Ask on its own goroutine. The channel receives Ask's error,
// ErrEmptyQuestion for a blank question and nil otherwise, then closes.
// The outcome of the call itself is on the ask track.
func (s *Session) GoAsk(ctx context.Context, stableID, question string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		_, err := s.Ask(ctx, stableID, question)
		done <- err
	}()
	return done
}

func goRun(fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	return done
}

// LookupState returns the lookup track.
func (s *Session) LookupState() Snapshot[*domain.LookupResult] { return s.lookup.Snapshot() }

// ProcessState returns the process track.
func (s *Session) ProcessState() Snapshot[*domain.AggregateResult] { return s.process.Snapshot() }

// AskState returns the ask track.
func (s *Session) AskState() Snapshot[*domain.QAExchange] { return s.ask.Snapshot() }

// StableID returns the id of the last successfully looked-up player, or "".
func (s *Session) StableID() string {
	snap := s.lookup.Snapshot()
	if snap.State != Success || snap.Value == nil {
		return ""
	}
	return snap.Value.Summoner.StableID
}
