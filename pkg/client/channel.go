package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/correctquiz/Correct-Quiz-project/pkg/protocol"
)

// tracerName is the instrumentation scope for channel spans.
const tracerName = "correctquiz/client"

// Channel errors.
var (
	ErrAlreadyConnected = fmt.Errorf("client: channel already connected")
	ErrChannelClosed    = fmt.Errorf("client: channel closed")
)

// PacketHandler receives decoded inbound packets in wire-arrival order.
type PacketHandler func(protocol.Packet)

// DisconnectHandler receives the close code and reason when the connection
// ends. Code 1000 is a normal closure; anything else is abnormal.
type DisconnectHandler func(code int, reason string)

// Transport is the send/receive surface a controller needs from its
// connection. Channel is the production implementation; tests substitute
// an in-memory fake.
type Transport interface {
	Connect(ctx context.Context, endpoint, token string) error
	Send(p protocol.Packet) error
	Disconnect()
	OnPacket(h PacketHandler)
	OnDisconnect(h DisconnectHandler)
}

// Channel owns exactly one WebSocket connection's lifecycle: dial, ordered
// non-blocking send with pre-connect buffering, inbound dispatch to a
// single handler, and disconnect notification.
//
// A Channel is single-use. Connect may be called at most once; after the
// connection ends, construct a new Channel for a new session. There is no
// automatic reconnection and no heartbeat: the channel reports a disconnect
// only when the underlying transport signals closure.
type Channel struct {
	dialer  *websocket.Dialer
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer

	mu        sync.Mutex
	conn      *websocket.Conn
	ready     bool
	closed    bool
	connected bool
	pending   [][]byte

	onPacket     PacketHandler
	onDisconnect DisconnectHandler

	notifyOnce sync.Once
}

// ChannelOption configures a Channel.
type ChannelOption func(*Channel)

// WithLogger sets the channel's logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) ChannelOption {
	return func(c *Channel) {
		c.logger = logger
	}
}

// WithDialer sets the WebSocket dialer. Default: websocket.DefaultDialer.
func WithDialer(d *websocket.Dialer) ChannelOption {
	return func(c *Channel) {
		c.dialer = d
	}
}

// WithMetrics attaches a metrics collector to the channel.
func WithMetrics(m *Metrics) ChannelOption {
	return func(c *Channel) {
		c.metrics = m
	}
}

// NewChannel creates an unconnected channel. Register handlers before
// calling Connect.
func NewChannel(opts ...ChannelOption) *Channel {
	c := &Channel{
		dialer: websocket.DefaultDialer,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnPacket registers the single inbound packet handler. Registering again
// replaces the previous handler.
func (c *Channel) OnPacket(h PacketHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPacket = h
}

// OnDisconnect registers the disconnect handler. Registering again replaces
// the previous handler.
func (c *Channel) OnDisconnect(h DisconnectHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDisconnect = h
}

// Connect dials the endpoint with the auth token carried as a query
// parameter, then flushes every buffered packet exactly once, in enqueue
// order, before any later send. Connection establishment is bounded only
// by ctx; the channel itself enforces no handshake timeout.
func (c *Channel) Connect(ctx context.Context, endpoint, token string) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	c.connected = true
	c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "channel.connect",
		trace.WithAttributes(attribute.String("endpoint", endpoint)))
	defer span.End()

	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("client: parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, resp, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("client: dial %s: status %d: %w", endpoint, resp.StatusCode, err)
		}
		return fmt.Errorf("client: dial %s: %w", endpoint, err)
	}

	// Flush the pre-connect queue before flipping ready, holding the lock
	// so no later Send can interleave with the buffered packets.
	c.mu.Lock()
	c.conn = conn
	for _, frame := range c.pending {
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			c.logger.Error("queued frame write error", "error", err)
			c.mu.Unlock()
			c.teardownFromError(err)
			return fmt.Errorf("client: flush queued frames: %w", err)
		}
		c.metrics.recordFrameSent()
	}
	c.pending = nil
	c.metrics.setQueueDepth(0)
	c.ready = true
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// Send encodes the packet and transmits it if the channel is ready, or
// appends it to the pre-connect queue otherwise. It never blocks on an
// acknowledgement; delivery is at-most-once. A packet is transmitted
// exactly once per call, through the ready path or the later flush, never
// both.
func (c *Channel) Send(p protocol.Packet) error {
	frame, err := protocol.Encode(p)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		// Teardown drops queued frames; frames sent after teardown are
		// dropped the same way.
		return ErrChannelClosed
	}

	if !c.ready {
		c.pending = append(c.pending, frame)
		c.metrics.setQueueDepth(len(c.pending))
		return nil
	}

	if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		c.logger.Error("frame write error", "type", p.Tag(), "error", err)
		return fmt.Errorf("client: send %s: %w", p.Tag(), err)
	}
	c.metrics.recordFrameSent()
	return nil
}

// Disconnect closes the connection with the normal-closure code. It is a
// no-op if the channel never connected or is already closed. The disconnect
// handler fires with code 1000.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	if !c.ready || c.closed {
		c.mu.Unlock()
		return
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
		c.logger.Debug("close frame write error", "error", err)
	}
	c.mu.Unlock()

	c.teardown(websocket.CloseNormalClosure, "")
}

// readLoop reads frames until the connection ends, decoding each and
// invoking the packet handler synchronously so inbound packets are
// processed strictly in wire-arrival order.
func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			code, reason := closeInfo(err)
			c.teardown(code, reason)
			return
		}

		pkt, err := protocol.Decode(msg)
		if err != nil {
			// Malformed frames are dropped, never fatal to the channel.
			c.logger.Error("frame decode error", "error", err)
			c.metrics.recordFrameDropped()
			continue
		}
		c.metrics.recordFrameReceived()

		c.mu.Lock()
		handler := c.onPacket
		c.mu.Unlock()

		if handler != nil {
			_, span := c.tracer.Start(context.Background(), "channel.dispatch",
				trace.WithAttributes(attribute.String("packet", pkt.Tag().String())))
			handler(pkt)
			span.End()
		}
	}
}

// teardown closes the connection, drops any still-queued frames, and fires
// the disconnect handler exactly once.
func (c *Channel) teardown(code int, reason string) {
	c.mu.Lock()
	c.ready = false
	c.closed = true
	c.pending = nil
	c.metrics.setQueueDepth(0)
	conn := c.conn
	handler := c.onDisconnect
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}

	c.notifyOnce.Do(func() {
		c.metrics.recordDisconnect(code)
		if handler != nil {
			handler(code, reason)
		}
	})
}

func (c *Channel) teardownFromError(err error) {
	code, reason := closeInfo(err)
	c.teardown(code, reason)
}

// closeInfo extracts the close code and reason from a read error. Errors
// that carry no close frame (network failures, local closes) map to the
// abnormal-closure code 1006.
func closeInfo(err error) (int, string) {
	if ce, ok := err.(*websocket.CloseError); ok {
		return ce.Code, ce.Text
	}
	return websocket.CloseAbnormalClosure, err.Error()
}
