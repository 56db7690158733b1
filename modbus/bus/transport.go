// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package bus binds a Transport, a Config, and an emission callback into
// the host-visible engine object: Bus. It owns the receive cache and the
// open/closed lifecycle; framing and parsing are delegated to
// modbus/framing and modbus/proto.
package bus

// Transport is the host-supplied byte pipe a Bus frames on top of. A
// transport does not know about ADUs, CRCs, or function codes — it only
// moves opaque chunks.
//
// RegisterHandler stores a callback invoked once per arriving chunk of
// bytes, of arbitrary size including zero. A transport calls at most one
// registered handler; registering again replaces the previous one.
//
// Send synchronously delivers one contiguous buffer. Unlike the minimal
// two-method contract this is modeled on, Send here returns an error: the
// underlying transports this engine targets (a TCP socket, a serial port)
// can fail a write, and swallowing that would leave the host unable to
// distinguish a framed-and-sent packet from one lost on the wire.
type Transport interface {
	RegisterHandler(func([]byte))
	Send([]byte) error
}
