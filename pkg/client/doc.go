// Package client implements the client-side core of the Correct-Quiz live
// game: the WebSocket transport channel, the observable game view, and the
// host and player controllers that reconcile authoritative server events
// into local state.
//
// # Architecture
//
// UI-layer code calls controller methods (Host or Player). Controllers
// serialize intents into protocol packets and hand them to a Channel; the
// Channel decodes inbound frames and invokes the controller's packet
// handler synchronously, in wire-arrival order. Controllers mutate their
// View; UI-layer code observes the View through snapshots.
//
//	UI ──intent──▶ Controller ──packet──▶ Channel ──frame──▶ server
//	UI ◀─snapshot─ View ◀──mutation── Controller ◀─packet── Channel
//
// Each controller exclusively owns one Channel and one View. A session is
// not reusable: after a disconnect or a terminal game state, construct a
// new controller/channel pair.
//
// # Delivery Semantics
//
// Sends are fire-and-forget, at-most-once: no acknowledgement is awaited
// and no retry is attempted. Packets sent before the channel is ready are
// buffered and flushed exactly once, in order, upon connect. Rejected
// requests have no negative-acknowledgement in this protocol; the next
// authoritative event is the source of truth.
package client
