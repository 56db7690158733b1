// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package proto

import (
	"github.com/modbuscore/modbuscore/modbus/packet"
	"github.com/modbuscore/modbuscore/modbus/wire"
)

func parseWriteSingleHoldingRegister(header packet.Header, kind packet.Kind, payload []byte) (packet.Packet, int) {
	if len(payload) < 4 {
		return packet.NotEnoughDataPacket, 0
	}
	index, _ := wire.GetU16BE(payload, 0)
	value, _ := wire.GetU16BE(payload, 2)
	return packet.Packet{
		Kind:          kind,
		Header:        header,
		RegisterIndex: index,
		RegisterValue: value,
	}, 4
}

func serializeWriteSingleHoldingRegister(pk packet.Packet) []byte {
	var out []byte
	out = wire.PutU16BE(out, pk.RegisterIndex)
	out = wire.PutU16BE(out, pk.RegisterValue)
	return out
}
