// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package proto

import (
	"github.com/modbuscore/modbuscore/modbus/packet"
	"github.com/modbuscore/modbuscore/modbus/wire"
)

func parseReadRegistersRequest(header packet.Header, kind packet.Kind, payload []byte) (packet.Packet, int) {
	if len(payload) < 4 {
		return packet.NotEnoughDataPacket, 0
	}
	first, _ := wire.GetU16BE(payload, 0)
	count, _ := wire.GetU16BE(payload, 2)
	return packet.Packet{
		Kind:          kind,
		Header:        header,
		FirstRegister: first,
		RegisterCount: count,
	}, 4
}

func serializeReadRegistersRequest(pk packet.Packet) []byte {
	var out []byte
	out = wire.PutU16BE(out, pk.FirstRegister)
	out = wire.PutU16BE(out, pk.RegisterCount)
	return out
}

func parseReadRegistersResponse(header packet.Header, kind packet.Kind, payload []byte) (packet.Packet, int) {
	if len(payload) < 1 {
		return packet.NotEnoughDataPacket, 0
	}
	n, _ := wire.GetU8(payload, 0)
	if len(payload) < 1+int(n) {
		return packet.NotEnoughDataPacket, 0
	}
	if n%2 != 0 {
		return packet.WithError(packet.PacketError, header), 0
	}
	data := make([]uint16, 0, int(n)/2)
	for i := 0; i < int(n); i += 2 {
		v, _ := wire.GetU16BE(payload, 1+i)
		data = append(data, v)
	}
	return packet.Packet{
		Kind:         kind,
		Header:       header,
		RegisterData: data,
	}, 1 + int(n)
}

func serializeReadRegistersResponse(pk packet.Packet) []byte {
	out := wire.PutU8(nil, byte(len(pk.RegisterData)*2))
	for _, v := range pk.RegisterData {
		out = wire.PutU16BE(out, v)
	}
	return out
}
