// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package proto

import (
	"github.com/modbuscore/modbuscore/modbus/packet"
	"github.com/modbuscore/modbuscore/modbus/wire"
)

func parseReadCoilsRequest(header packet.Header, payload []byte) (packet.Packet, int) {
	if len(payload) < 4 {
		return packet.NotEnoughDataPacket, 0
	}
	firstCoil, _ := wire.GetU16BE(payload, 0)
	coilCount, _ := wire.GetU16BE(payload, 2)
	return packet.Packet{
		Kind:      packet.ReadCoilsRequest,
		Header:    header,
		FirstCoil: firstCoil,
		CoilCount: coilCount,
	}, 4
}

func serializeReadCoilsRequest(pk packet.Packet) []byte {
	var out []byte
	out = wire.PutU16BE(out, pk.FirstCoil)
	out = wire.PutU16BE(out, pk.CoilCount)
	return out
}

func parseReadCoilsResponse(header packet.Header, payload []byte) (packet.Packet, int) {
	if len(payload) < 1 {
		return packet.NotEnoughDataPacket, 0
	}
	n, _ := wire.GetU8(payload, 0)
	if len(payload) < 1+int(n) {
		return packet.NotEnoughDataPacket, 0
	}
	raw := payload[1 : 1+int(n)]
	coilData := make([]bool, 0, int(n)*8)
	for _, b := range raw {
		for bit := 0; bit < 8; bit++ {
			coilData = append(coilData, (b&(1<<uint(bit))) != 0)
		}
	}
	return packet.Packet{
		Kind:     packet.ReadCoilsResponse,
		Header:   header,
		CoilData: coilData,
	}, 1 + int(n)
}

func serializeReadCoilsResponse(pk packet.Packet) []byte {
	data := append([]bool(nil), pk.CoilData...)
	for len(data)%8 != 0 {
		data = append(data, false)
	}
	n := len(data) / 8
	out := wire.PutU8(nil, byte(n))
	for i := 0; i < len(data); i += 8 {
		var b byte
		for bit := 0; bit < 8; bit++ {
			if data[i+bit] {
				b |= 1 << uint(bit)
			}
		}
		out = wire.PutU8(out, b)
	}
	return out
}
