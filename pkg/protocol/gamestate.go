package protocol

// GameState is the protocol-level phase of a game session.
//
// The state is always assigned from an authoritative inbound
// ChangeGameStatePacket, never inferred client-side. The numeric values are
// part of the wire format and must not be reordered.
type GameState int

const (
	LobbyState GameState = iota
	PlayState
	IntermissionState
	RevealState
	EndState

	// GameEndedState is terminal: once observed, a controller performs no
	// further session transitions until a new session is created.
	GameEndedState
)

// String returns the string representation of the game state.
func (gs GameState) String() string {
	switch gs {
	case LobbyState:
		return "Lobby"
	case PlayState:
		return "Play"
	case IntermissionState:
		return "Intermission"
	case RevealState:
		return "Reveal"
	case EndState:
		return "End"
	case GameEndedState:
		return "GameEnded"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transitions are valid from gs.
func (gs GameState) Terminal() bool {
	return gs == GameEndedState
}
