package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/correctquiz/Correct-Quiz-project/pkg/protocol"
	"github.com/correctquiz/Correct-Quiz-project/pkg/quiz"
)

// Navigation targets surfaced to the UI layer.
const (
	// RouteEntry is the application entry view (join/host selection).
	RouteEntry = "/"
	// RoutePlay is the active-play view.
	RoutePlay = "/play"
)

const normalClosure = websocket.CloseNormalClosure

// Player is the state machine for the participant role. Beyond mirroring
// authoritative events into its View, it fans per-answer feedback out to
// any number of registered observers, so independent UI pieces can react
// to a verdict without sharing state.
type Player struct {
	transport Transport
	view      *View
	logger    *slog.Logger

	navigate    func(path string)
	onGameEnded func()
	onKicked    func()

	mu           sync.Mutex
	identity     quiz.Player
	explicitRank bool
	ended        bool
	handlers     []PacketHandler
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithPlayerLogger sets the player's logger. Default: slog.Default().
func WithPlayerLogger(logger *slog.Logger) PlayerOption {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithPlayerNavigate sets the navigation callback invoked when the session
// requires a route change (identity assigned, game ended, kicked).
func WithPlayerNavigate(fn func(path string)) PlayerOption {
	return func(p *Player) {
		p.navigate = fn
	}
}

// WithGameEndedHandler sets the callback fired when the host ends the game.
func WithGameEndedHandler(fn func()) PlayerOption {
	return func(p *Player) {
		p.onGameEnded = fn
	}
}

// WithKickedHandler sets the callback fired on abnormal disconnect, i.e.
// when the player was forcibly removed from the game.
func WithKickedHandler(fn func()) PlayerOption {
	return func(p *Player) {
		p.onKicked = fn
	}
}

// NewPlayer creates a player controller owning the given transport and a
// fresh View. The controller registers itself as the transport's packet
// and disconnect handler.
func NewPlayer(t Transport, opts ...PlayerOption) *Player {
	p := &Player{
		transport: t,
		view:      NewView(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	t.OnPacket(p.handlePacket)
	t.OnDisconnect(p.handleDisconnect)
	return p
}

// View returns the observable game state owned by this controller.
func (p *Player) View() *View {
	return p.view
}

// Identity returns the server-assigned identity, or the zero Player while
// none has been assigned yet.
func (p *Player) Identity() quiz.Player {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.identity
}

// Join connects to the endpoint with the auth token, then requests entry
// into the game room. No local state changes until the server assigns
// identity via a PlayerJoinPacket.
func (p *Player) Join(ctx context.Context, endpoint, code, name, token string) error {
	if err := p.transport.Connect(ctx, endpoint, token); err != nil {
		return err
	}
	return p.transport.Send(protocol.ConnectPacket{Code: code, Name: name})
}

// Answer submits the player's selection. No optimistic local change:
// correctness feedback arrives only from the server.
func (p *Player) Answer(questionIndex, choiceIndex int) error {
	return p.transport.Send(protocol.AnswerPacket{
		Question: questionIndex,
		Choice:   choiceIndex,
	})
}

// SignalPlayerLeaving notifies the server of a voluntary leave and resets
// local state. If no identity was ever assigned, only the local reset
// happens. The leave notice is best-effort and not awaited.
func (p *Player) SignalPlayerLeaving() {
	p.mu.Lock()
	id := p.identity.ID
	p.mu.Unlock()

	if id != "" {
		if err := p.transport.Send(protocol.PlayerLeavePacket{PlayerID: id}); err != nil {
			p.logger.Debug("leave notice send error", "error", err)
		}
	}
	p.reset()
}

// OnMessage registers an additional fan-out observer for the per-answer
// feedback packet. Observers run in registration order, before the
// controller's own view mutation for that packet.
func (p *Player) OnMessage(h PacketHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// Close closes the underlying connection with a normal closure.
func (p *Player) Close() {
	p.transport.Disconnect()
}

func (p *Player) handlePacket(pk protocol.Packet) {
	p.mu.Lock()
	if p.ended {
		p.mu.Unlock()
		p.logger.Debug("packet after terminal state ignored", "type", pk.Tag())
		return
	}
	p.mu.Unlock()

	switch pkt := pk.(type) {
	case *protocol.PlayerJoinPacket:
		// The only way the player's own identity becomes known: it is
		// assigned by the server, never chosen locally.
		p.mu.Lock()
		p.identity = pkt.Player
		p.mu.Unlock()
		if p.navigate != nil {
			p.navigate(RoutePlay)
		}

	case *protocol.ChangeGameStatePacket:
		if pkt.State.Terminal() {
			if p.onGameEnded != nil {
				p.onGameEnded()
			}
			if p.navigate != nil {
				p.navigate(RouteEntry)
			}
		}
		p.view.update(func(s *Snapshot) {
			s.State = pkt.State
		})
		if pkt.State.Terminal() {
			p.mu.Lock()
			p.ended = true
			p.mu.Unlock()
		}

	case *protocol.QuestionShowPacket:
		p.view.update(func(s *Snapshot) {
			q := pkt.Question.Clone()
			q.Index = pkt.QuestionIndex
			s.CurrentQuestion = &q
		})

	case *protocol.PlayerAnswerFeedbackPacket:
		for _, h := range p.feedbackHandlers() {
			h(pk)
		}
		p.view.update(func(s *Snapshot) {
			s.MaxStreak = pkt.MaxStreak
			s.StreakBonus = pkt.StreakBonus
		})

	case *protocol.PlayerRevealPacket:
		p.view.update(func(s *Snapshot) {
			s.Points = pkt.Points
		})

	case *protocol.LeaderboardPacket:
		p.mu.Lock()
		name := p.identity.Name
		explicit := p.explicitRank
		p.mu.Unlock()

		p.view.update(func(s *Snapshot) {
			s.Leaderboard = pkt.Points
			if explicit {
				return
			}
			// Best-effort fallback: derive rank by name match. An explicit
			// PlayerRankPacket is authoritative and suppresses this,
			// since names are not unique.
			for i, entry := range pkt.Points {
				if entry.Name == name {
					s.Rank = i + 1
					break
				}
			}
		})

	case *protocol.PlayerRankPacket:
		p.mu.Lock()
		p.explicitRank = true
		p.mu.Unlock()
		p.view.update(func(s *Snapshot) {
			s.Rank = pkt.Rank
		})

	default:
		p.logger.Debug("unhandled packet", "type", pk.Tag())
	}
}

func (p *Player) feedbackHandlers() []PacketHandler {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PacketHandler, len(p.handlers))
	copy(out, p.handlers)
	return out
}

func (p *Player) handleDisconnect(code int, reason string) {
	if code != normalClosure {
		p.logger.Warn("removed from game", "code", code, "reason", reason)
		if p.onKicked != nil {
			p.onKicked()
		}
		if p.navigate != nil {
			p.navigate(RouteEntry)
		}
	}
	p.reset()
}

// reset clears identity and view state. The session itself stays dead:
// rejoining requires a new controller/channel pair.
func (p *Player) reset() {
	p.mu.Lock()
	p.identity = quiz.Player{}
	p.explicitRank = false
	p.mu.Unlock()
	p.view.Reset()
}
