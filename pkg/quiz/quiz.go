// Package quiz defines the shared quiz entities exchanged between the game
// protocol, the content API, and the client-side controllers.
package quiz

import (
	"encoding/json"
	"fmt"
)

// PlayerID is a player identifier as assigned by the game server.
//
// Servers are inconsistent about whether ids travel as JSON strings or JSON
// numbers, so PlayerID normalizes both to a string on decode. All identity
// comparisons go through this normalized form.
type PlayerID string

// UnmarshalJSON accepts both string and numeric encodings.
func (id *PlayerID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = PlayerID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quiz: player id is neither string nor number: %w", err)
	}
	*id = PlayerID(n.String())
	return nil
}

// String returns the normalized string form of the id.
func (id PlayerID) String() string {
	return string(id)
}

// Player is one game participant.
type Player struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

// Quiz is an authored question set.
type Quiz struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Questions []QuizQuestion `json:"questions"`
}

// QuizQuestion is a single question of a quiz.
//
// Index is not part of the question's own identity: it is injected
// client-side from the envelope field of the QuestionShow packet so that the
// UI knows which position in the quiz is currently live.
type QuizQuestion struct {
	ID                 uint         `json:"id"`
	Name               string       `json:"name"`
	Time               int          `json:"time"`
	Choices            []QuizChoice `json:"choices"`
	CorrectAnswerIndex int          `json:"correctAnswerIndex"`
	Index              int          `json:"index"`
	ImageURL           string       `json:"imageUrl,omitempty"`
}

// Clone returns a deep copy of the question.
func (q QuizQuestion) Clone() QuizQuestion {
	out := q
	out.Choices = make([]QuizChoice, len(q.Choices))
	copy(out.Choices, q.Choices)
	return out
}

// QuizChoice is one selectable answer of a question.
type QuizChoice struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Correct  bool   `json:"correct"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// LeaderboardEntry is one row of the server-ordered leaderboard. The
// sequence order defines rank; entries carry no rank field of their own.
type LeaderboardEntry struct {
	Name         string `json:"name"`
	Points       int    `json:"points"`
	CorrectCount int    `json:"correctCount"`
}
