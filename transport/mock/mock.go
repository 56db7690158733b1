// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package mock implements bus.Transport entirely in memory, for tests and
// for experimenting with the engine without a real socket or serial port.
package mock

// Transport is an in-memory bus.Transport. Feed delivers bytes as if they
// had arrived from the wire; Sent records every buffer handed to Send, in
// call order.
type Transport struct {
	handler func([]byte)
	Sent    [][]byte

	// FailNextSend, when true, makes the next Send call return SendErr
	// and resets itself to false.
	FailNextSend bool
	SendErr      error
}

// RegisterHandler implements bus.Transport.
func (t *Transport) RegisterHandler(f func([]byte)) {
	t.handler = f
}

// Send implements bus.Transport. It never blocks and always records the
// buffer, even when simulating a failure.
func (t *Transport) Send(data []byte) error {
	t.Sent = append(t.Sent, append([]byte(nil), data...))
	if t.FailNextSend {
		t.FailNextSend = false
		return t.SendErr
	}
	return nil
}

// Feed delivers data to whatever handler was last registered. Feeding
// before a handler is registered is a silent no-op, mirroring a transport
// that simply has nothing listening yet.
func (t *Transport) Feed(data []byte) {
	if t.handler != nil {
		t.handler(data)
	}
}
