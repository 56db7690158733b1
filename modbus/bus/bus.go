// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package bus

import (
	"time"

	"go.uber.org/atomic"

	"github.com/modbuscore/modbuscore/modbus/crc"
	"github.com/modbuscore/modbuscore/modbus/framing"
	"github.com/modbuscore/modbuscore/modbus/packet"
	"github.com/modbuscore/modbuscore/modbus/proto"
	"github.com/modbuscore/modbuscore/modbus/wire"
)

// maxCacheBytes caps the receive cache. A transport that delivers faster
// than the host drains emitted packets (it can't — emission is synchronous
// from within Feed) or a stream that never resynchronizes would otherwise
// grow the cache without bound; oldest bytes are dropped first.
const maxCacheBytes = 8192

// EmissionCallback receives one parsed packet per recognized ADU, in wire
// order, called synchronously from within Feed.
type EmissionCallback func(packet.Packet)

// Bus is the host-visible engine: it binds a Transport, a Config, and an
// EmissionCallback, owns the receive cache, and tracks the open/closed
// lifecycle. The zero value is not usable; construct with New.
type Bus struct {
	transport Transport
	config    Config
	emit      EmissionCallback

	cache []byte

	closed      bool
	errorString string

	lastByteReceivedTime time.Time
	haveLastByteTime     bool

	// alive is shared with the closure registered on transport. The
	// closure checks it before calling Feed and returns immediately once
	// Close has run, so chunks the transport delivers afterwards never
	// reach the Bus.
	alive *atomic.Bool
}

// New constructs a Bus bound to transport, registers its receive handler,
// and returns an error if config is not constructible (RTU slave).
func New(transport Transport, config Config, emit EmissionCallback) (*Bus, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	b := &Bus{
		transport: transport,
		config:    config,
		emit:      emit,
		alive:     atomic.NewBool(true),
	}

	alive := b.alive
	transport.RegisterHandler(func(data []byte) {
		if !alive.Load() {
			return
		}
		b.Feed(data)
	})

	return b, nil
}

// Open reports whether the bus has not yet closed. Once it returns false
// it never returns true again.
func (b *Bus) Open() bool {
	return !b.closed
}

// ErrorString is the reason for the first transition to Closed; empty
// until then.
func (b *Bus) ErrorString() string {
	return b.errorString
}

// Close transitions the bus to Closed with reason "user", and detaches the
// liveness token so any byte chunk already in flight from the transport
// becomes a no-op.
func (b *Bus) Close() {
	b.close("user")
	b.alive.Store(false)
}

func (b *Bus) close(reason string) {
	if b.closed {
		return
	}
	b.closed = true
	b.errorString = reason
}

// RefreshTimeouts evaluates the silence-timeout policy against the
// current cache state without requiring new bytes to have arrived. Feed
// calls this internally; the host may also call it directly to age out a
// stalled partial frame.
func (b *Bus) RefreshTimeouts() {
	b.refreshTimeouts(false)
}

func (b *Bus) refreshTimeouts(gotBytes bool) {
	if b.closed || b.config.SilenceTimeout <= 0 || b.config.Now == nil {
		return
	}
	now := b.config.Now()
	if len(b.cache) > 0 && b.haveLastByteTime && now.Sub(b.lastByteReceivedTime) > b.config.SilenceTimeout {
		if b.config.CloseOnTimeout {
			b.close("timeout")
			return
		}
		b.cache = nil
	}
	if gotBytes {
		b.lastByteReceivedTime = now
		b.haveLastByteTime = true
	}
}

// Feed delivers a chunk of transport bytes into the bus. It is normally
// invoked by the transport via the handler registered in New, never
// directly by the host. Once closed, Feed silently discards.
func (b *Bus) Feed(data []byte) {
	b.refreshTimeouts(len(data) > 0)
	if b.closed {
		return
	}

	b.cache = append(b.cache, data...)
	if len(b.cache) > maxCacheBytes {
		b.cache = b.cache[len(b.cache)-maxCacheBytes:]
	}

	if len(b.cache) == 0 {
		return
	}

	role := framing.Role{
		IsMaster:     b.config.IsMaster,
		Address:      b.config.Address,
		CloseOnError: b.config.CloseOnError,
	}

	var res framing.Result
	if b.config.UseTCPFormat {
		res = framing.ExtractTCP(b.cache, role, b.safeEmit)
	} else {
		res = framing.ExtractRTU(b.cache, role, b.safeEmit)
	}

	b.cache = b.cache[res.Consumed:]
	if res.CloseReason != "" {
		b.close(res.CloseReason)
	}
}

func (b *Bus) safeEmit(pk packet.Packet) {
	if b.emit != nil {
		b.emit(pk)
	}
}

// Send frames pk per the configured wire format and hands the resulting
// ADU to the transport in a single call. Sending after Close still
// framers and forwards: the façade tolerates a transport that has already
// gone away, since it holds only a non-owning reference to it.
func (b *Bus) Send(pk packet.Packet) error {
	pdu := proto.Serialize(pk)

	var out []byte
	if b.config.UseTCPFormat {
		out = wire.PutU16BE(out, pk.Header.TransactionID)
		out = wire.PutU16BE(out, 0)
		out = wire.PutU16BE(out, uint16(len(pdu)+2))
		out = wire.PutU8(out, pk.Header.Address)
		out = wire.PutU8(out, functionByte(pk))
		out = append(out, pdu...)
	} else {
		out = wire.PutU8(out, pk.Header.Address)
		out = wire.PutU8(out, functionByte(pk))
		out = append(out, pdu...)
		out = wire.PutU16BE(out, crc.Checksum(out))
	}

	return b.transport.Send(out)
}

// functionByte recovers the wire function byte for a packet, including
// the exception bit for ErrorResponse — the one variant whose header
// carries the unmasked underlying function rather than the byte that was
// actually transmitted.
func functionByte(pk packet.Packet) uint8 {
	if pk.Kind == packet.ErrorResponse {
		return packet.Exception(pk.Header.Function)
	}
	return uint8(pk.Header.Function)
}
