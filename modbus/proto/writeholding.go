// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package proto

import (
	"github.com/modbuscore/modbuscore/modbus/packet"
	"github.com/modbuscore/modbuscore/modbus/wire"
)

func parseWriteHoldingRegistersRequest(header packet.Header, payload []byte) (packet.Packet, int) {
	if len(payload) < 5 {
		return packet.NotEnoughDataPacket, 0
	}
	first, _ := wire.GetU16BE(payload, 0)
	count, _ := wire.GetU16BE(payload, 2)
	n, _ := wire.GetU8(payload, 4)
	if n%2 != 0 {
		return packet.WithError(packet.PacketError, header), 0
	}
	if len(payload) < 5+int(n) {
		return packet.NotEnoughDataPacket, 0
	}
	content := make([]uint16, 0, int(n)/2)
	for i := 0; i < int(n); i += 2 {
		v, _ := wire.GetU16BE(payload, 5+i)
		content = append(content, v)
	}
	if uint16(len(content)) != count {
		return packet.WithError(packet.InternalError, header), 0
	}
	return packet.Packet{
		Kind:            packet.WriteHoldingRegistersRequest,
		Header:          header,
		FirstRegister:   first,
		RegisterContent: content,
	}, 5 + int(n)
}

func serializeWriteHoldingRegistersRequest(pk packet.Packet) []byte {
	out := wire.PutU16BE(nil, pk.FirstRegister)
	out = wire.PutU16BE(out, uint16(len(pk.RegisterContent)))
	out = wire.PutU8(out, byte(len(pk.RegisterContent)*2))
	for _, v := range pk.RegisterContent {
		out = wire.PutU16BE(out, v)
	}
	return out
}

func parseWriteHoldingRegistersResponse(header packet.Header, payload []byte) (packet.Packet, int) {
	if len(payload) < 4 {
		return packet.NotEnoughDataPacket, 0
	}
	first, _ := wire.GetU16BE(payload, 0)
	count, _ := wire.GetU16BE(payload, 2)
	return packet.Packet{
		Kind:          packet.WriteHoldingRegistersResponse,
		Header:        header,
		FirstRegister: first,
		RegisterCount: count,
	}, 4
}

func serializeWriteHoldingRegistersResponse(pk packet.Packet) []byte {
	var out []byte
	out = wire.PutU16BE(out, pk.FirstRegister)
	out = wire.PutU16BE(out, pk.RegisterCount)
	return out
}
