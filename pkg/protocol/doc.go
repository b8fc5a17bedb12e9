// Package protocol implements the binary wire protocol spoken between the
// quiz client and the game server.
//
// Every message travels as one WebSocket binary frame:
//
//	┌─────────────┬────────────────────────────────────────────┐
//	│ Packet Tag  │ Payload                                    │
//	│ (1 byte)    │ (UTF-8 JSON object, tag field excluded)    │
//	└─────────────┴────────────────────────────────────────────┘
//
// The leading byte carries the packet tag (0–17) and uniquely determines the
// payload schema. The JSON body never repeats the tag; Decode reattaches it
// by selecting the Go type for the tag before unmarshalling.
//
// # Packets
//
// Packets form a closed tagged union: one struct per tag, all implementing
// the Packet interface. The tag→type mapping in packetForTag is exhaustive
// and covered by a test, so adding a tag without wiring its type fails CI.
//
//	Tag  Direction        Packet
//	 0   player → server  ConnectPacket
//	 1   host ↔ server    HostGamePacket
//	 2   server → client  QuestionShowPacket
//	 3   host ↔ server    ChangeGameStatePacket
//	 4   server → client  PlayerJoinPacket
//	 5   host → server    StartGamePacket
//	 6   server → host    TickPacket
//	 7   player → server  AnswerPacket
//	 8   server → player  PlayerAnswerFeedbackPacket
//	 9   server → player  AnswerReceivedPacket
//	10   server → host    QuestionRevealPacket
//	11   server → player  PlayerRevealPacket
//	12   server → client  LeaderboardPacket
//	13   host → server    NextQuestionPacket
//	14   server → player  PlayerRankPacket
//	15   host → server    KickPlayerPacket
//	16   host → server    HostLeavePacket
//	17   player ↔ server  PlayerLeavePacket
//
// # Error Handling
//
// Decode never panics. A zero-length buffer, an unknown tag, or a body that
// is not valid JSON for the tag's schema all yield an error wrapping
// ErrMalformedFrame. Callers treat such frames as dropped: logged, never
// fatal to the connection.
package protocol
