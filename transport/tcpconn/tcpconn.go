// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package tcpconn adapts a net.Conn into a bus.Transport, for TCP master
// and TCP slave roles.
package tcpconn

import (
	"io"
	"log/slog"
	"net"
	"sync"
)

// readBufferSize bounds a single Read call; actual ADUs are far smaller
// than the maximum theoretical MBAP size (260 bytes), but a slow/chunking
// kernel socket buffer may hand back several queued ADUs at once.
const readBufferSize = 4096

// Transport wraps a connected net.Conn. Send writes synchronously; a
// background goroutine owned by this transport (not the engine) reads and
// forwards whatever bytes arrive to the registered handler, honoring the
// engine's "arbitrary chunking" contract.
type Transport struct {
	conn net.Conn

	mu      sync.Mutex
	handler func([]byte)
}

// New wraps conn. The caller remains responsible for conn's lifetime; Run
// returns once conn is closed or a read fails.
func New(conn net.Conn) *Transport {
	return &Transport{conn: conn}
}

// RegisterHandler implements bus.Transport.
func (t *Transport) RegisterHandler(f func([]byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = f
}

// Send implements bus.Transport.
func (t *Transport) Send(data []byte) error {
	_, err := t.conn.Write(data)
	return err
}

// Run pumps conn.Read into the registered handler until conn is closed or
// a read error occurs. Call it in its own goroutine once a handler has
// been registered.
func (t *Transport) Run() {
	buf := make([]byte, readBufferSize)
	for {
		n, err := t.conn.Read(buf)
		if n > 0 {
			t.deliver(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				slog.Error("tcpconn: read failed", "err", err)
			}
			return
		}
	}
}

func (t *Transport) deliver(data []byte) {
	t.mu.Lock()
	h := t.handler
	t.mu.Unlock()
	if h != nil {
		h(data)
	}
}

// Close closes the underlying connection, which unblocks Run.
func (t *Transport) Close() error {
	return t.conn.Close()
}
