// Package gameserver is a minimal authoritative game server speaking the
// quiz wire protocol. It backs the integration tests and the `quizctl
// serve` demo; it keeps just enough game bookkeeping to exercise the
// client core and deliberately implements no scoring.
package gameserver

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/correctquiz/Correct-Quiz-project/pkg/protocol"
	"github.com/correctquiz/Correct-Quiz-project/pkg/quiz"
)

// QuizStore resolves quiz ids from HostGame requests to content.
type QuizStore interface {
	QuizByID(id string) (*quiz.Quiz, error)
}

// StaticQuizzes is an in-memory QuizStore.
type StaticQuizzes map[string]*quiz.Quiz

// QuizByID returns the quiz for id, or an error if absent.
func (s StaticQuizzes) QuizByID(id string) (*quiz.Quiz, error) {
	q, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("gameserver: quiz %q not found", id)
	}
	return q, nil
}

// session is one connected socket with a write lock, since multiple game
// events may fan in to the same connection.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) send(p protocol.Packet) error {
	frame, err := protocol.Encode(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (s *session) close(code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	s.mu.Lock()
	s.conn.WriteMessage(websocket.CloseMessage, msg)
	s.mu.Unlock()
	s.conn.Close()
}

type gamePlayer struct {
	id      uuid.UUID
	name    string
	session *session
}

type game struct {
	code          string
	quiz          *quiz.Quiz
	host          *session
	players       []*gamePlayer
	state         protocol.GameState
	questionIndex int
}

// Server hosts game rooms over one /ws endpoint.
type Server struct {
	logger   *slog.Logger
	quizzes  QuizStore
	upgrader websocket.Upgrader

	mu    sync.Mutex
	games map[string]*game
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server's logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a game server backed by the given quiz store.
func New(quizzes QuizStore, opts ...ServerOption) *Server {
	s := &Server{
		logger:  slog.Default(),
		quizzes: quizzes,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		games: make(map[string]*game),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler: /ws for the game socket, /healthz for
// liveness.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/ws", s.handleWS)
	return r
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("token") == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade error", "error", err)
		return
	}

	sess := &session{conn: conn}
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			s.handleGone(sess)
			return
		}

		pkt, err := protocol.Decode(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			continue
		}
		s.dispatch(sess, pkt)
	}
}

func (s *Server) dispatch(sess *session, pkt protocol.Packet) {
	switch p := pkt.(type) {
	case *protocol.HostGamePacket:
		s.handleHostGame(sess, p)
	case *protocol.ConnectPacket:
		s.handleConnect(sess, p)
	case *protocol.StartGamePacket:
		s.handleStart(sess)
	case *protocol.ChangeGameStatePacket:
		s.handleStateChange(sess, p)
	case *protocol.NextQuestionPacket:
		s.handleNextQuestion(sess)
	case *protocol.AnswerPacket:
		s.handleAnswer(sess, p)
	case *protocol.KickPlayerPacket:
		s.handleKick(sess, p)
	case *protocol.HostLeavePacket:
		s.handleHostLeave(sess)
	case *protocol.PlayerLeavePacket:
		s.handlePlayerLeave(sess, p)
	default:
		s.logger.Debug("unhandled packet", "type", pkt.Tag())
	}
}

func (s *Server) handleHostGame(sess *session, p *protocol.HostGamePacket) {
	q, err := s.quizzes.QuizByID(p.QuizID)
	if err != nil {
		s.logger.Warn("host request for unknown quiz", "quiz_id", p.QuizID)
		return
	}

	g := &game{
		code:  generateCode(),
		quiz:  q,
		host:  sess,
		state: protocol.LobbyState,
	}
	s.mu.Lock()
	s.games[g.code] = g
	s.mu.Unlock()

	// The echo carries the room code in the quizId field.
	sess.send(&protocol.HostGamePacket{QuizID: g.code})
	sess.send(&protocol.ChangeGameStatePacket{State: g.state, Code: g.code})
	s.logger.Info("game created", "code", g.code, "quiz", q.Name)
}

func (s *Server) handleConnect(sess *session, p *protocol.ConnectPacket) {
	g := s.gameByCode(p.Code)
	if g == nil {
		sess.close(4004, "game not found")
		return
	}

	player := &gamePlayer{id: uuid.New(), name: p.Name, session: sess}

	s.mu.Lock()
	g.players = append(g.players, player)
	s.mu.Unlock()

	join := &protocol.PlayerJoinPacket{Player: quiz.Player{
		ID:   quiz.PlayerID(player.id.String()),
		Name: player.name,
	}}
	// Identity assignment for the player, roster update for the host.
	sess.send(join)
	g.host.send(join)
	s.logger.Info("player joined", "code", g.code, "name", p.Name)
}

func (s *Server) handleStart(sess *session) {
	g := s.gameByHost(sess)
	if g == nil {
		return
	}

	s.mu.Lock()
	g.state = protocol.PlayState
	g.questionIndex = 0
	s.mu.Unlock()

	s.broadcast(g, &protocol.ChangeGameStatePacket{State: protocol.PlayState})
	s.showQuestion(g)
}

func (s *Server) handleStateChange(sess *session, p *protocol.ChangeGameStatePacket) {
	g := s.gameByHost(sess)
	if g == nil {
		return
	}
	if p.State != protocol.IntermissionState {
		// Hosts may only propose intermission; every other phase is
		// server-driven.
		return
	}

	s.mu.Lock()
	g.state = protocol.IntermissionState
	s.mu.Unlock()
	s.broadcast(g, &protocol.ChangeGameStatePacket{State: protocol.IntermissionState})
}

func (s *Server) handleNextQuestion(sess *session) {
	g := s.gameByHost(sess)
	if g == nil {
		return
	}

	s.mu.Lock()
	g.questionIndex++
	done := g.questionIndex >= len(g.quiz.Questions)
	if done {
		g.state = protocol.EndState
	} else {
		g.state = protocol.PlayState
	}
	s.mu.Unlock()

	if done {
		s.broadcast(g, &protocol.ChangeGameStatePacket{State: protocol.EndState})
		return
	}
	s.broadcast(g, &protocol.ChangeGameStatePacket{State: protocol.PlayState})
	s.showQuestion(g)
}

func (s *Server) handleAnswer(sess *session, _ *protocol.AnswerPacket) {
	g, player := s.gameByPlayer(sess)
	if g == nil || player == nil {
		return
	}
	player.session.send(&protocol.AnswerReceivedPacket{})
}

func (s *Server) handleKick(sess *session, p *protocol.KickPlayerPacket) {
	g := s.gameByHost(sess)
	if g == nil {
		return
	}

	s.mu.Lock()
	var kicked *gamePlayer
	for i, player := range g.players {
		if player.id.String() == p.PlayerID {
			kicked = player
			g.players = append(g.players[:i], g.players[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if kicked == nil {
		return
	}
	g.host.send(&protocol.PlayerLeavePacket{PlayerID: quiz.PlayerID(kicked.id.String())})
	kicked.session.close(4001, "kicked")
	s.logger.Info("player kicked", "code", g.code, "name", kicked.name)
}

func (s *Server) handleHostLeave(sess *session) {
	g := s.gameByHost(sess)
	if g == nil {
		return
	}
	s.endGame(g)
}

func (s *Server) handlePlayerLeave(sess *session, p *protocol.PlayerLeavePacket) {
	g, player := s.gameByPlayer(sess)
	if g == nil || player == nil {
		return
	}
	if p.PlayerID != "" && p.PlayerID.String() != player.id.String() {
		return
	}
	s.removePlayer(g, player)
}

// handleGone is invoked when a socket drops without a leave packet.
func (s *Server) handleGone(sess *session) {
	if g, player := s.gameByPlayer(sess); g != nil && player != nil {
		s.removePlayer(g, player)
		return
	}
	if g := s.gameByHost(sess); g != nil {
		s.endGame(g)
	}
}

func (s *Server) endGame(g *game) {
	s.mu.Lock()
	players := make([]*gamePlayer, len(g.players))
	copy(players, g.players)
	delete(s.games, g.code)
	s.mu.Unlock()

	end := &protocol.ChangeGameStatePacket{State: protocol.GameEndedState}
	for _, player := range players {
		player.session.send(end)
		player.session.close(websocket.CloseNormalClosure, "game ended")
	}
	s.logger.Info("game ended", "code", g.code)
}

func (s *Server) removePlayer(g *game, player *gamePlayer) {
	s.mu.Lock()
	for i, existing := range g.players {
		if existing == player {
			g.players = append(g.players[:i], g.players[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	g.host.send(&protocol.PlayerLeavePacket{PlayerID: quiz.PlayerID(player.id.String())})
	s.logger.Info("player left", "code", g.code, "name", player.name)
}

func (s *Server) showQuestion(g *game) {
	s.mu.Lock()
	idx := g.questionIndex
	s.mu.Unlock()
	if idx >= len(g.quiz.Questions) {
		return
	}
	s.broadcast(g, &protocol.QuestionShowPacket{
		Question:      g.quiz.Questions[idx],
		QuestionIndex: idx,
	})
}

// broadcast sends to the host and every player.
func (s *Server) broadcast(g *game, p protocol.Packet) {
	s.mu.Lock()
	players := make([]*gamePlayer, len(g.players))
	copy(players, g.players)
	s.mu.Unlock()

	if err := g.host.send(p); err != nil {
		s.logger.Debug("host send error", "error", err)
	}
	for _, player := range players {
		if err := player.session.send(p); err != nil {
			s.logger.Debug("player send error", "name", player.name, "error", err)
		}
	}
}

func (s *Server) gameByCode(code string) *game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.games[code]
}

func (s *Server) gameByHost(sess *session) *game {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.games {
		if g.host == sess {
			return g
		}
	}
	return nil
}

func (s *Server) gameByPlayer(sess *session) (*game, *gamePlayer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.games {
		for _, player := range g.players {
			if player.session == sess {
				return g, player
			}
		}
	}
	return nil, nil
}

// generateCode returns a 6-digit room code.
func generateCode() string {
	return fmt.Sprintf("%06d", rand.IntN(1000000))
}
