// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package proto

import (
	"github.com/modbuscore/modbuscore/modbus/packet"
	"github.com/modbuscore/modbuscore/modbus/wire"
)

// parseErrorResponse handles any master-side response whose function byte
// carries the exception bit. Per the resolved open question, this applies
// regardless of which underlying function the exception masks: the low
// seven bits are not re-validated against the set of readable/writable
// functions.
func parseErrorResponse(header packet.Header, fn uint8, payload []byte) (packet.Packet, int) {
	if len(payload) < 1 {
		return packet.NotEnoughDataPacket, 0
	}
	ec, _ := wire.GetU8(payload, 0)
	header.Function = packet.Underlying(fn)
	return packet.Packet{
		Kind:   packet.ErrorResponse,
		Header: header,
		Error:  packet.ErrorCode(ec),
	}, 1
}

func serializeErrorResponse(pk packet.Packet) []byte {
	return wire.PutU8(nil, uint8(pk.Error))
}
