package client

import (
	"sync"

	"github.com/correctquiz/Correct-Quiz-project/pkg/protocol"
	"github.com/correctquiz/Correct-Quiz-project/pkg/quiz"
)

// Snapshot is one immutable observation of a session's reconciled game
// state. Slices and the question are copied on read; observers must re-read
// on each notification rather than retaining a mutable alias.
type Snapshot struct {
	State              protocol.GameState
	GameCode           string
	Players            []quiz.Player
	Tick               int
	CurrentQuestion    *quiz.QuizQuestion
	CorrectAnswerIndex []int
	ShowAnswer         bool
	AnswerCounts       []int
	Leaderboard        []quiz.LeaderboardEntry
	Rank               int
	Points             int
	MaxStreak          int
	StreakBonus        int
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.Players != nil {
		out.Players = make([]quiz.Player, len(s.Players))
		copy(out.Players, s.Players)
	}
	if s.CurrentQuestion != nil {
		q := s.CurrentQuestion.Clone()
		out.CurrentQuestion = &q
	}
	if s.CorrectAnswerIndex != nil {
		out.CorrectAnswerIndex = make([]int, len(s.CorrectAnswerIndex))
		copy(out.CorrectAnswerIndex, s.CorrectAnswerIndex)
	}
	if s.AnswerCounts != nil {
		out.AnswerCounts = make([]int, len(s.AnswerCounts))
		copy(out.AnswerCounts, s.AnswerCounts)
	}
	if s.Leaderboard != nil {
		out.Leaderboard = make([]quiz.LeaderboardEntry, len(s.Leaderboard))
		copy(out.Leaderboard, s.Leaderboard)
	}
	return out
}

type viewSub struct {
	id uint64
	fn func(Snapshot)
}

// View is the observable game state owned by exactly one controller. The
// controller is the only writer; any number of readers observe it through
// Snapshot or Subscribe. There are no ambient globals: each session gets
// its own View, so concurrent sessions (and tests) do not interfere.
type View struct {
	mu     sync.RWMutex
	snap   Snapshot
	subs   []viewSub
	nextID uint64
}

// NewView creates a view holding the default (lobby) snapshot.
func NewView() *View {
	return &View{}
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap.clone()
}

// Subscribe registers an observer called with a fresh snapshot after every
// mutation. Observers are invoked in registration order. The returned
// function removes the subscription.
func (v *View) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, viewSub{id: id, fn: fn})
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		for i, sub := range v.subs {
			if sub.id == id {
				v.subs = append(v.subs[:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

// update applies one mutation atomically and notifies subscribers with a
// copy of the result. Observers can never see a partially applied mutation:
// the mutate function runs to completion under the write lock.
func (v *View) update(mutate func(*Snapshot)) {
	v.mu.Lock()
	mutate(&v.snap)
	snap := v.snap.clone()
	subs := make([]viewSub, len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}

// Reset returns every field to its default and notifies subscribers. Called
// on session teardown: disconnect, leave, or host-initiated end.
func (v *View) Reset() {
	v.update(func(s *Snapshot) {
		*s = Snapshot{}
	})
}
