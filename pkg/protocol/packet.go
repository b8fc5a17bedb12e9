package protocol

import "github.com/correctquiz/Correct-Quiz-project/pkg/quiz"

// PacketType identifies the packet variant carried by a frame.
type PacketType uint8

const (
	PacketConnect PacketType = iota
	PacketHostGame
	PacketQuestionShow
	PacketChangeGameState
	PacketPlayerJoin
	PacketStartGame
	PacketTick
	PacketAnswer
	PacketPlayerAnswerFeedback
	PacketAnswerReceived
	PacketQuestionReveal
	PacketPlayerReveal
	PacketLeaderboard
	PacketNextQuestion
	PacketPlayerRank
	PacketKickPlayer
	PacketHostLeave
	PacketPlayerLeave

	// packetTypeCount is the number of known packet types.
	packetTypeCount
)

// String returns the string representation of the packet type.
func (pt PacketType) String() string {
	switch pt {
	case PacketConnect:
		return "Connect"
	case PacketHostGame:
		return "HostGame"
	case PacketQuestionShow:
		return "QuestionShow"
	case PacketChangeGameState:
		return "ChangeGameState"
	case PacketPlayerJoin:
		return "PlayerJoin"
	case PacketStartGame:
		return "StartGame"
	case PacketTick:
		return "Tick"
	case PacketAnswer:
		return "Answer"
	case PacketPlayerAnswerFeedback:
		return "PlayerAnswerFeedback"
	case PacketAnswerReceived:
		return "AnswerReceived"
	case PacketQuestionReveal:
		return "QuestionReveal"
	case PacketPlayerReveal:
		return "PlayerReveal"
	case PacketLeaderboard:
		return "Leaderboard"
	case PacketNextQuestion:
		return "NextQuestion"
	case PacketPlayerRank:
		return "PlayerRank"
	case PacketKickPlayer:
		return "KickPlayer"
	case PacketHostLeave:
		return "HostLeave"
	case PacketPlayerLeave:
		return "PlayerLeave"
	default:
		return "Unknown"
	}
}

// Packet is one member of the closed union of wire packets. The tag is
// carried by the type, not by a payload field, so encoding cannot duplicate
// it into the JSON body.
type Packet interface {
	Tag() PacketType
}

// ConnectPacket is a player's request to join a game by room code.
type ConnectPacket struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// HostGamePacket requests hosting a quiz; the server echoes it back with
// the assigned room code in QuizID.
type HostGamePacket struct {
	QuizID string `json:"quizId"`
}

// QuestionShowPacket presents the live question. QuestionIndex is the
// envelope field merged into the question client-side.
type QuestionShowPacket struct {
	Question      quiz.QuizQuestion `json:"question"`
	QuestionIndex int               `json:"questionIndex"`
}

// ChangeGameStatePacket is the authoritative phase transition.
type ChangeGameStatePacket struct {
	State GameState `json:"state"`
	Code  string    `json:"code,omitempty"`
}

// PlayerJoinPacket announces a participant. Sent to the host for roster
// bookkeeping and to the joining player as its identity assignment.
type PlayerJoinPacket struct {
	Player quiz.Player `json:"player"`
}

// StartGamePacket asks the server to start the hosted game.
type StartGamePacket struct{}

// TickPacket is the countdown heartbeat for the current question.
type TickPacket struct {
	Tick int `json:"tick"`
}

// AnswerPacket carries a player's choice for a question.
type AnswerPacket struct {
	Question int `json:"question"`
	Choice   int `json:"choice"`
}

// PlayerAnswerFeedbackPacket is the per-answer verdict sent to one player.
type PlayerAnswerFeedbackPacket struct {
	CorrectAnswerIndex []int `json:"correctAnswerIndex"`
	IsCorrect          bool  `json:"isCorrect"`
	StreakBonus        int   `json:"streakBonus"`
	MaxStreak          int   `json:"maxStreak"`
}

// AnswerReceivedPacket acknowledges that an answer was accepted.
type AnswerReceivedPacket struct{}

// QuestionRevealPacket publishes the correct answers and the answer
// distribution for the question that just closed.
type QuestionRevealPacket struct {
	Question           quiz.QuizQuestion `json:"question"`
	CorrectAnswerIndex []int             `json:"correctAnswerIndex"`
	AnswerCounts       []int             `json:"answerCounts"`
	MaxStreak          int               `json:"maxStreak"`
}

// PlayerRevealPacket is a player's point total after a reveal.
type PlayerRevealPacket struct {
	Points int `json:"points"`
}

// LeaderboardPacket replaces the leaderboard wholesale. The server-chosen
// order of Points defines rank.
type LeaderboardPacket struct {
	Points []quiz.LeaderboardEntry `json:"points"`
}

// NextQuestionPacket asks the server to advance to the next question.
type NextQuestionPacket struct{}

// PlayerRankPacket is the server's explicit rank for one player. It is
// authoritative over any rank derived from the leaderboard.
type PlayerRankPacket struct {
	Rank int `json:"rank"`
}

// KickPlayerPacket is the host's request to remove a player.
type KickPlayerPacket struct {
	PlayerID string `json:"playerId"`
}

// HostLeavePacket announces that the host is abandoning the game.
type HostLeavePacket struct{}

// PlayerLeavePacket announces that a player left, voluntarily or not.
type PlayerLeavePacket struct {
	PlayerID quiz.PlayerID `json:"playerId"`
}

func (ConnectPacket) Tag() PacketType              { return PacketConnect }
func (HostGamePacket) Tag() PacketType             { return PacketHostGame }
func (QuestionShowPacket) Tag() PacketType         { return PacketQuestionShow }
func (ChangeGameStatePacket) Tag() PacketType      { return PacketChangeGameState }
func (PlayerJoinPacket) Tag() PacketType           { return PacketPlayerJoin }
func (StartGamePacket) Tag() PacketType            { return PacketStartGame }
func (TickPacket) Tag() PacketType                 { return PacketTick }
func (AnswerPacket) Tag() PacketType               { return PacketAnswer }
func (PlayerAnswerFeedbackPacket) Tag() PacketType { return PacketPlayerAnswerFeedback }
func (AnswerReceivedPacket) Tag() PacketType       { return PacketAnswerReceived }
func (QuestionRevealPacket) Tag() PacketType       { return PacketQuestionReveal }
func (PlayerRevealPacket) Tag() PacketType         { return PacketPlayerReveal }
func (LeaderboardPacket) Tag() PacketType          { return PacketLeaderboard }
func (NextQuestionPacket) Tag() PacketType         { return PacketNextQuestion }
func (PlayerRankPacket) Tag() PacketType           { return PacketPlayerRank }
func (KickPlayerPacket) Tag() PacketType           { return PacketKickPlayer }
func (HostLeavePacket) Tag() PacketType            { return PacketHostLeave }
func (PlayerLeavePacket) Tag() PacketType          { return PacketPlayerLeave }

// packetForTag returns a fresh zero value of the packet type for the tag,
// or nil for an unknown tag. The switch is deliberately exhaustive over all
// defined tags; TestPacketForTagCoversAllTags enforces it.
func packetForTag(pt PacketType) Packet {
	switch pt {
	case PacketConnect:
		return &ConnectPacket{}
	case PacketHostGame:
		return &HostGamePacket{}
	case PacketQuestionShow:
		return &QuestionShowPacket{}
	case PacketChangeGameState:
		return &ChangeGameStatePacket{}
	case PacketPlayerJoin:
		return &PlayerJoinPacket{}
	case PacketStartGame:
		return &StartGamePacket{}
	case PacketTick:
		return &TickPacket{}
	case PacketAnswer:
		return &AnswerPacket{}
	case PacketPlayerAnswerFeedback:
		return &PlayerAnswerFeedbackPacket{}
	case PacketAnswerReceived:
		return &AnswerReceivedPacket{}
	case PacketQuestionReveal:
		return &QuestionRevealPacket{}
	case PacketPlayerReveal:
		return &PlayerRevealPacket{}
	case PacketLeaderboard:
		return &LeaderboardPacket{}
	case PacketNextQuestion:
		return &NextQuestionPacket{}
	case PacketPlayerRank:
		return &PlayerRankPacket{}
	case PacketKickPlayer:
		return &KickPlayerPacket{}
	case PacketHostLeave:
		return &HostLeavePacket{}
	case PacketPlayerLeave:
		return &PlayerLeavePacket{}
	default:
		return nil
	}
}
