// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package serialport adapts a github.com/grid-x/serial port into a
// bus.Transport, for the RTU master role.
package serialport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/grid-x/serial"
)

const readBufferSize = 256

// Transport owns a serial.Config and the opened port, guarded by a mutex
// as in the teacher's RTU client handler. The port is opened only by
// Connect; Send returns an error until then.
type Transport struct {
	serial.Config

	mu      sync.Mutex
	port    io.ReadWriteCloser
	handler func([]byte)
}

// New returns a Transport configured but not yet connected.
func New(cfg serial.Config) *Transport {
	return &Transport{Config: cfg}
}

// Connect opens the underlying serial port.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if t.port != nil {
		return nil
	}
	port, err := serial.Open(&t.Config)
	if err != nil {
		return fmt.Errorf("serialport: could not open %s: %w", t.Config.Address, err)
	}
	t.port = port
	return nil
}

// RegisterHandler implements bus.Transport.
func (t *Transport) RegisterHandler(f func([]byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = f
}

// Send implements bus.Transport.
func (t *Transport) Send(data []byte) error {
	t.mu.Lock()
	port := t.port
	t.mu.Unlock()
	if port == nil {
		return fmt.Errorf("serialport: not connected")
	}
	_, err := port.Write(data)
	return err
}

// Run pumps the serial port into the registered handler until Close is
// called or a read error occurs. Call it in its own goroutine after
// Connect succeeds.
func (t *Transport) Run() {
	buf := make([]byte, readBufferSize)
	for {
		t.mu.Lock()
		port := t.port
		t.mu.Unlock()
		if port == nil {
			return
		}

		n, err := port.Read(buf)
		if n > 0 {
			t.deliver(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				slog.Error("serialport: read failed", "err", err)
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

// Close closes the underlying serial port, which unblocks Run.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	return err
}
