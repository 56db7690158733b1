// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package framing implements the two streaming extraction sub-machines —
// TCP (MBAP) and RTU — that turn an arbitrarily fragmented byte cache into
// a sequence of typed packets. Both sub-machines share the same contract:
// given a cache and the engine's role/address configuration, advance as far
// as possible, invoke emit once per recognized ADU, and report how the
// cache should be mutated and whether the caller must close the bus.
package framing

import "github.com/modbuscore/modbuscore/modbus/packet"

// Role carries the subset of bus configuration the extraction loops need.
// It is duplicated from bus.Config rather than imported, so this package
// has no dependency on the façade above it.
type Role struct {
	IsMaster     bool
	Address      uint8
	CloseOnError bool
}

// accepts reports whether a packet received with the given ADU address
// should reach the emission callback. Masters accept every address; slaves
// only accept their own configured address or the broadcast address 0. A
// slave configured with address 0 accepts everything, matching "zero means
// accept any address".
func (r Role) accepts(aduAddress uint8) bool {
	if r.IsMaster {
		return true
	}
	if r.Address == 0 {
		return true
	}
	return aduAddress == r.Address || aduAddress == 0
}

// Result is the outcome of one Extract call.
type Result struct {
	// Consumed is the number of leading cache bytes the caller should drop,
	// regardless of CloseReason being set — bytes already dispatched (even
	// to a closing error) are never replayed.
	Consumed int

	// CloseReason is non-empty when the extraction loop hit a fatal
	// condition and the bus must close. Extraction stops immediately once
	// this is set; any bytes already consumed are still reported.
	CloseReason string
}

// Emit is invoked once per successfully decoded ADU, in wire order.
type Emit func(packet.Packet)
