package client

import (
	"context"
	"sync"

	"github.com/correctquiz/Correct-Quiz-project/pkg/protocol"
)

// fakeTransport is an in-memory Transport for controller tests. Deliver
// injects inbound packets the way a channel's read loop would; CloseWith
// simulates the connection ending.
type fakeTransport struct {
	mu           sync.Mutex
	sent         []protocol.Packet
	connectErr   error
	connected    bool
	endpoint     string
	token        string
	onPacket     PacketHandler
	onDisconnect DisconnectHandler
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{}
}

func (f *fakeTransport) Connect(_ context.Context, endpoint, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	f.endpoint = endpoint
	f.token = token
	return nil
}

func (f *fakeTransport) Send(p protocol.Packet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, p)
	return nil
}

func (f *fakeTransport) Disconnect() {
	f.CloseWith(normalClosure, "")
}

func (f *fakeTransport) OnPacket(h PacketHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onPacket = h
}

func (f *fakeTransport) OnDisconnect(h DisconnectHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onDisconnect = h
}

func (f *fakeTransport) Deliver(p protocol.Packet) {
	f.mu.Lock()
	h := f.onPacket
	f.mu.Unlock()
	if h != nil {
		h(p)
	}
}

// DeliverWire round-trips the packet through the codec before delivery, so
// the controller sees exactly what a decoded frame would produce.
func (f *fakeTransport) DeliverWire(p protocol.Packet) error {
	frame, err := protocol.Encode(p)
	if err != nil {
		return err
	}
	decoded, err := protocol.Decode(frame)
	if err != nil {
		return err
	}
	f.Deliver(decoded)
	return nil
}

func (f *fakeTransport) CloseWith(code int, reason string) {
	f.mu.Lock()
	h := f.onDisconnect
	f.connected = false
	f.mu.Unlock()
	if h != nil {
		h(code, reason)
	}
}

func (f *fakeTransport) Sent() []protocol.Packet {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]protocol.Packet, len(f.sent))
	copy(out, f.sent)
	return out
}
