package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Codec errors.
var (
	// ErrMalformedFrame marks an inbound frame that cannot be decoded.
	// Receivers drop the frame; the connection stays up.
	ErrMalformedFrame = errors.New("protocol: malformed frame")

	// ErrUnknownPacket marks a frame whose tag byte has no registered
	// packet type. It wraps ErrMalformedFrame.
	ErrUnknownPacket = fmt.Errorf("%w: unknown packet tag", ErrMalformedFrame)
)

// Encode serializes a packet into a wire frame: the tag byte followed by
// the JSON encoding of the payload. The tag is carried only in the leading
// byte, never in the body.
func Encode(p Packet) ([]byte, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", p.Tag(), err)
	}

	frame := make([]byte, 1+len(body))
	frame[0] = byte(p.Tag())
	copy(frame[1:], body)
	return frame, nil
}

// Decode parses a wire frame back into its packet. The returned Packet is a
// pointer to the concrete type for the frame's tag (e.g. *TickPacket for
// tag 6); callers dispatch with a type switch.
//
// A zero-length frame, an unknown tag, or a body that is not valid JSON for
// the tag's schema yields an error wrapping ErrMalformedFrame.
func Decode(frame []byte) (Packet, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("%w: empty frame", ErrMalformedFrame)
	}

	tag := PacketType(frame[0])
	p := packetForTag(tag)
	if p == nil {
		return nil, fmt.Errorf("%w %d", ErrUnknownPacket, tag)
	}

	if err := json.Unmarshal(frame[1:], p); err != nil {
		return nil, fmt.Errorf("%w: %s body: %v", ErrMalformedFrame, tag, err)
	}
	return p, nil
}
