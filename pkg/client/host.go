package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/correctquiz/Correct-Quiz-project/pkg/protocol"
	"github.com/correctquiz/Correct-Quiz-project/pkg/quiz"
)

// Host is the state machine for the privileged (host) role. It is a
// passive reflector of game state, not an authority: Start, Intermission,
// and NextQuestion are proposals to the server, taking local effect only
// when echoed back as a ChangeGameStatePacket. The one exception is
// KickPlayer, which removes the player from the local roster optimistically
// so the host UI reflects the action without perceptible delay.
type Host struct {
	transport Transport
	view      *View
	logger    *slog.Logger
	navigate  func(path string)

	mu    sync.Mutex
	ended bool
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithHostLogger sets the host's logger. Default: slog.Default().
func WithHostLogger(logger *slog.Logger) HostOption {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithHostNavigate sets the navigation callback invoked when the session
// requires a route change.
func WithHostNavigate(fn func(path string)) HostOption {
	return func(h *Host) {
		h.navigate = fn
	}
}

// NewHost creates a host controller owning the given transport and a fresh
// View. The controller registers itself as the transport's packet and
// disconnect handler.
func NewHost(t Transport, opts ...HostOption) *Host {
	h := &Host{
		transport: t,
		view:      NewView(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}

	t.OnPacket(h.handlePacket)
	t.OnDisconnect(h.handleDisconnect)
	return h
}

// View returns the observable game state owned by this controller.
func (h *Host) View() *View {
	return h.view
}

// Connect opens the session's connection.
func (h *Host) Connect(ctx context.Context, endpoint, token string) error {
	return h.transport.Connect(ctx, endpoint, token)
}

// HostQuiz asks the server to host the given quiz. The room code arrives
// in the inbound echo, not in the return of this call.
func (h *Host) HostQuiz(quizID string) error {
	return h.transport.Send(protocol.HostGamePacket{QuizID: quizID})
}

// Start proposes starting the game.
func (h *Host) Start() error {
	return h.transport.Send(protocol.StartGamePacket{})
}

// Intermission proposes transitioning to the intermission phase.
func (h *Host) Intermission() error {
	return h.transport.Send(protocol.ChangeGameStatePacket{State: protocol.IntermissionState})
}

// NextQuestion proposes advancing to the next question.
func (h *Host) NextQuestion() error {
	return h.transport.Send(protocol.NextQuestionPacket{})
}

// KickPlayer asks the server to remove the player and removes it from the
// local roster immediately. There is no rollback on rejection: the roster
// resynchronizes on the next authoritative roster-affecting event.
func (h *Host) KickPlayer(playerID string) error {
	err := h.transport.Send(protocol.KickPlayerPacket{PlayerID: playerID})
	h.view.update(func(s *Snapshot) {
		s.Players = removePlayer(s.Players, quiz.PlayerID(playerID))
	})
	return err
}

// UnhostOptions controls Unhost behavior.
type UnhostOptions struct {
	// BroadcastEnd notifies the server so it can end the game for all
	// participants. Fire-and-forget: no acknowledgement is awaited.
	BroadcastEnd bool
}

// Unhost tears the session down locally, optionally broadcasting the end
// to the server first. The view resets unconditionally.
func (h *Host) Unhost(opts UnhostOptions) {
	if opts.BroadcastEnd {
		if err := h.transport.Send(protocol.HostLeavePacket{}); err != nil {
			h.logger.Debug("host leave send error", "error", err)
		}
	}
	h.view.Reset()
}

// SignalHostLeaving notifies the server of the host's departure and resets
// the view. Equivalent to Unhost with BroadcastEnd set.
func (h *Host) SignalHostLeaving() {
	h.Unhost(UnhostOptions{BroadcastEnd: true})
}

// Close closes the underlying connection with a normal closure.
func (h *Host) Close() {
	h.transport.Disconnect()
}

func (h *Host) handlePacket(p protocol.Packet) {
	h.mu.Lock()
	if h.ended {
		h.mu.Unlock()
		h.logger.Debug("packet after terminal state ignored", "type", p.Tag())
		return
	}
	h.mu.Unlock()

	switch pkt := p.(type) {
	case *protocol.HostGamePacket:
		// The echo carries the assigned room code in the quizId field.
		h.view.update(func(s *Snapshot) {
			s.GameCode = pkt.QuizID
		})

	case *protocol.ChangeGameStatePacket:
		h.view.update(func(s *Snapshot) {
			s.State = pkt.State
			if pkt.Code != "" {
				s.GameCode = pkt.Code
			}
		})
		if pkt.State.Terminal() {
			h.mu.Lock()
			h.ended = true
			h.mu.Unlock()
		}

	case *protocol.PlayerJoinPacket:
		// Joins are idempotent: a duplicate join for a known id replaces
		// the stored entry instead of appending a second roster row.
		h.view.update(func(s *Snapshot) {
			for i, existing := range s.Players {
				if existing.ID.String() == pkt.Player.ID.String() {
					s.Players[i] = pkt.Player
					return
				}
			}
			s.Players = append(s.Players, pkt.Player)
		})

	case *protocol.TickPacket:
		h.view.update(func(s *Snapshot) {
			s.Tick = pkt.Tick
		})

	case *protocol.QuestionShowPacket:
		h.view.update(func(s *Snapshot) {
			q := pkt.Question.Clone()
			q.Index = pkt.QuestionIndex
			s.CurrentQuestion = &q
		})

	case *protocol.QuestionRevealPacket:
		// One atomic update: readers never observe the answer indexes
		// without the counts and the reveal flag.
		h.view.update(func(s *Snapshot) {
			s.CorrectAnswerIndex = pkt.CorrectAnswerIndex
			s.AnswerCounts = pkt.AnswerCounts
			s.ShowAnswer = true
		})

	case *protocol.PlayerLeavePacket:
		if pkt.PlayerID == "" {
			return
		}
		h.view.update(func(s *Snapshot) {
			s.Players = removePlayer(s.Players, pkt.PlayerID)
		})

	case *protocol.LeaderboardPacket:
		h.view.update(func(s *Snapshot) {
			s.Leaderboard = pkt.Points
		})

	default:
		h.logger.Debug("unhandled packet", "type", p.Tag())
	}
}

func (h *Host) handleDisconnect(code int, reason string) {
	if code != normalClosure {
		h.logger.Warn("host connection lost", "code", code, "reason", reason)
	}
	h.view.Reset()
	if h.navigate != nil {
		h.navigate(RouteEntry)
	}
}

// removePlayer filters by normalized string id, tolerating mixed numeric
// and string encodings arriving over the wire.
func removePlayer(players []quiz.Player, id quiz.PlayerID) []quiz.Player {
	out := players[:0]
	for _, p := range players {
		if p.ID.String() != id.String() {
			out = append(out, p)
		}
	}
	return out
}
