package client

import (
	"testing"

	"github.com/correctquiz/Correct-Quiz-project/pkg/protocol"
	"github.com/correctquiz/Correct-Quiz-project/pkg/quiz"
)

func TestHostQuizSendsRequestAndEchoSetsCode(t *testing.T) {
	ft := newFakeTransport()
	h := NewHost(ft)

	if err := h.HostQuiz("42"); err != nil {
		t.Fatalf("HostQuiz() error: %v", err)
	}

	sent := ft.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d packets, want 1", len(sent))
	}
	req, ok := sent[0].(protocol.HostGamePacket)
	if !ok || req.QuizID != "42" {
		t.Fatalf("sent %+v, want HostGamePacket{QuizID: 42}", sent[0])
	}
	if h.View().Snapshot().GameCode != "" {
		t.Fatal("game code set before the server echo")
	}

	ft.Deliver(&protocol.HostGamePacket{QuizID: "482913"})
	if got := h.View().Snapshot().GameCode; got != "482913" {
		t.Fatalf("GameCode = %q, want %q", got, "482913")
	}
}

func TestHostStateIsSetOnlyFromInboundEcho(t *testing.T) {
	ft := newFakeTransport()
	h := NewHost(ft)

	if err := h.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := h.Intermission(); err != nil {
		t.Fatalf("Intermission() error: %v", err)
	}
	if err := h.NextQuestion(); err != nil {
		t.Fatalf("NextQuestion() error: %v", err)
	}

	// Proposals only: nothing changes locally until the echo arrives.
	if got := h.View().Snapshot().State; got != protocol.LobbyState {
		t.Fatalf("State = %v after local proposals, want Lobby", got)
	}

	sent := ft.Sent()
	if len(sent) != 3 {
		t.Fatalf("sent %d packets, want 3", len(sent))
	}
	if _, ok := sent[0].(protocol.StartGamePacket); !ok {
		t.Errorf("sent[0] = %T, want StartGamePacket", sent[0])
	}
	cgs, ok := sent[1].(protocol.ChangeGameStatePacket)
	if !ok || cgs.State != protocol.IntermissionState {
		t.Errorf("sent[1] = %+v, want ChangeGameStatePacket{Intermission}", sent[1])
	}
	if _, ok := sent[2].(protocol.NextQuestionPacket); !ok {
		t.Errorf("sent[2] = %T, want NextQuestionPacket", sent[2])
	}

	ft.Deliver(&protocol.ChangeGameStatePacket{State: protocol.PlayState})
	if got := h.View().Snapshot().State; got != protocol.PlayState {
		t.Fatalf("State = %v, want Play", got)
	}
}

func TestHostKickPlayerRemovesOptimistically(t *testing.T) {
	ft := newFakeTransport()
	h := NewHost(ft)

	ft.Deliver(&protocol.PlayerJoinPacket{Player: quiz.Player{ID: "1", Name: "A"}})
	ft.Deliver(&protocol.PlayerJoinPacket{Player: quiz.Player{ID: "2", Name: "B"}})

	if err := h.KickPlayer("2"); err != nil {
		t.Fatalf("KickPlayer() error: %v", err)
	}

	// Removal happens immediately, before any inbound confirmation.
	players := h.View().Snapshot().Players
	if len(players) != 1 || players[0].ID != "1" || players[0].Name != "A" {
		t.Fatalf("roster = %+v, want [{1 A}]", players)
	}

	sent := ft.Sent()
	kick, ok := sent[len(sent)-1].(protocol.KickPlayerPacket)
	if !ok || kick.PlayerID != "2" {
		t.Fatalf("last sent = %+v, want KickPlayerPacket{PlayerID: 2}", sent[len(sent)-1])
	}
}

func TestHostPlayerJoinIsIdempotent(t *testing.T) {
	ft := newFakeTransport()
	h := NewHost(ft)

	ft.Deliver(&protocol.PlayerJoinPacket{Player: quiz.Player{ID: "1", Name: "A"}})
	ft.Deliver(&protocol.PlayerJoinPacket{Player: quiz.Player{ID: "1", Name: "A renamed"}})

	players := h.View().Snapshot().Players
	if len(players) != 1 {
		t.Fatalf("roster has %d entries after duplicate join, want 1", len(players))
	}
	if players[0].Name != "A renamed" {
		t.Errorf("duplicate join should refresh the entry, got %+v", players[0])
	}
}

func TestHostPlayerLeaveIsIDNormalized(t *testing.T) {
	ft := newFakeTransport()
	h := NewHost(ft)

	// Roster entry arrives with a numeric id on the wire.
	frame := append([]byte{byte(protocol.PacketPlayerJoin)}, []byte(`{"player":{"id":42,"name":"A"}}`)...)
	join, err := protocol.Decode(frame)
	if err != nil {
		t.Fatalf("decode join frame: %v", err)
	}
	ft.Deliver(join)
	ft.Deliver(&protocol.PlayerJoinPacket{Player: quiz.Player{ID: "7", Name: "B"}})

	// Leave arrives with the string form of the same id.
	ft.Deliver(&protocol.PlayerLeavePacket{PlayerID: "42"})

	players := h.View().Snapshot().Players
	if len(players) != 1 || players[0].ID != "7" {
		t.Fatalf("roster = %+v, want only player 7", players)
	}
}

func TestHostPlayerLeaveWithoutIDIsNoOp(t *testing.T) {
	ft := newFakeTransport()
	h := NewHost(ft)

	ft.Deliver(&protocol.PlayerJoinPacket{Player: quiz.Player{ID: "1", Name: "A"}})
	ft.Deliver(&protocol.PlayerLeavePacket{})

	if got := len(h.View().Snapshot().Players); got != 1 {
		t.Fatalf("roster has %d entries, want 1", got)
	}
}

func TestHostQuestionShowMergesEnvelopeIndex(t *testing.T) {
	ft := newFakeTransport()
	h := NewHost(ft)

	ft.Deliver(&protocol.QuestionShowPacket{
		Question:      quiz.QuizQuestion{ID: 10, Name: "q", Time: 20},
		QuestionIndex: 3,
	})

	q := h.View().Snapshot().CurrentQuestion
	if q == nil {
		t.Fatal("CurrentQuestion = nil")
	}
	if q.Index != 3 || q.ID != 10 {
		t.Fatalf("question = %+v, want ID 10 with injected index 3", q)
	}
}

func TestHostRevealIsAtomic(t *testing.T) {
	ft := newFakeTransport()
	h := NewHost(ft)

	var partial bool
	h.View().Subscribe(func(s Snapshot) {
		haveIndexes := len(s.CorrectAnswerIndex) > 0
		haveCounts := len(s.AnswerCounts) > 0
		if haveIndexes != s.ShowAnswer || haveCounts != s.ShowAnswer {
			partial = true
		}
	})

	ft.Deliver(&protocol.QuestionRevealPacket{
		CorrectAnswerIndex: []int{1},
		AnswerCounts:       []int{0, 5, 2, 1},
	})

	if partial {
		t.Fatal("observer saw a partially applied reveal")
	}
	got := h.View().Snapshot()
	if !got.ShowAnswer || len(got.CorrectAnswerIndex) != 1 || len(got.AnswerCounts) != 4 {
		t.Fatalf("reveal not applied: %+v", got)
	}
}

func TestHostLeaderboardReplacedWholesale(t *testing.T) {
	ft := newFakeTransport()
	h := NewHost(ft)

	ft.Deliver(&protocol.LeaderboardPacket{Points: []quiz.LeaderboardEntry{{Name: "A", Points: 10}}})
	ft.Deliver(&protocol.LeaderboardPacket{Points: []quiz.LeaderboardEntry{{Name: "B", Points: 50}}})

	lb := h.View().Snapshot().Leaderboard
	if len(lb) != 1 || lb[0].Name != "B" {
		t.Fatalf("leaderboard = %+v, want wholesale replacement with [B]", lb)
	}
}

func TestHostUnhostResetsAndOptionallyBroadcasts(t *testing.T) {
	ft := newFakeTransport()
	h := NewHost(ft)
	ft.Deliver(&protocol.HostGamePacket{QuizID: "482913"})

	h.Unhost(UnhostOptions{BroadcastEnd: false})
	if len(ft.Sent()) != 0 {
		t.Fatalf("Unhost without broadcast sent %v", ft.Sent())
	}
	if h.View().Snapshot().GameCode != "" {
		t.Fatal("Unhost did not reset the view")
	}

	h.SignalHostLeaving()
	sent := ft.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d packets, want 1", len(sent))
	}
	if _, ok := sent[0].(protocol.HostLeavePacket); !ok {
		t.Fatalf("sent %T, want HostLeavePacket", sent[0])
	}
}

func TestHostTerminalStateStopsHandling(t *testing.T) {
	ft := newFakeTransport()
	h := NewHost(ft)

	ft.Deliver(&protocol.ChangeGameStatePacket{State: protocol.GameEndedState})
	if got := h.View().Snapshot().State; got != protocol.GameEndedState {
		t.Fatalf("State = %v, want GameEnded", got)
	}

	ft.Deliver(&protocol.ChangeGameStatePacket{State: protocol.PlayState})
	ft.Deliver(&protocol.PlayerJoinPacket{Player: quiz.Player{ID: "1", Name: "late"}})

	got := h.View().Snapshot()
	if got.State != protocol.GameEndedState {
		t.Fatalf("State = %v after terminal state, want GameEnded", got.State)
	}
	if len(got.Players) != 0 {
		t.Fatal("roster mutated after terminal state")
	}
}

func TestHostDisconnectResetsView(t *testing.T) {
	ft := newFakeTransport()
	var navigated string
	h := NewHost(ft, WithHostNavigate(func(path string) { navigated = path }))
	ft.Deliver(&protocol.PlayerJoinPacket{Player: quiz.Player{ID: "1", Name: "A"}})

	ft.CloseWith(1006, "network gone")

	got := h.View().Snapshot()
	if len(got.Players) != 0 || got.GameCode != "" {
		t.Fatalf("view not reset on disconnect: %+v", got)
	}
	if navigated != RouteEntry {
		t.Fatalf("navigated to %q, want %q", navigated, RouteEntry)
	}
}

func TestHostTickUpdatesView(t *testing.T) {
	ft := newFakeTransport()
	h := NewHost(ft)

	ft.Deliver(&protocol.TickPacket{Tick: 17})
	if got := h.View().Snapshot().Tick; got != 17 {
		t.Fatalf("Tick = %d, want 17", got)
	}
}
