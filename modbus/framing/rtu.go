// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package framing

import (
	"github.com/modbuscore/modbuscore/modbus/crc"
	"github.com/modbuscore/modbuscore/modbus/packet"
	"github.com/modbuscore/modbuscore/modbus/proto"
	"github.com/modbuscore/modbuscore/modbus/wire"
)

const rtuMinSize = 4

// ExtractRTU advances through cache extracting zero or more RTU ADUs. RTU
// carries no length field, so the payload length comes from the per-
// function parser itself; a frame is only accepted once its trailing CRC
// checks out. On a CRC mismatch or a PacketError, the loop resynchronizes
// by retrying every later offset in the cache rather than giving up — the
// engine never closes on a bad RTU frame, it just looks for the next valid
// one.
//
// address(1) | function(1) | pdu(var) | crc16(2, byte-swapped)
func ExtractRTU(cache []byte, role Role, emit Emit) Result {
	var consumed int

	for {
		remaining := cache[consumed:]
		if len(remaining) < rtuMinSize {
			return Result{Consumed: consumed}
		}

		frame, ok := findValidFrame(remaining, role)
		if !ok {
			return Result{Consumed: consumed}
		}

		pk, frameLen := frame.packet, frame.length
		consumed += frame.offset + frameLen
		if role.accepts(frame.address) {
			emit(pk)
		}
	}
}

type rtuFrame struct {
	offset  int
	address uint8
	length  int
	packet  packet.Packet
}

// findValidFrame scans offsets 0..len(remaining) looking for the first one
// at which a complete, CRC-valid ADU can be decoded. It returns ok=false
// when remaining does not (yet) contain enough bytes to confirm a frame at
// any offset — more bytes may still arrive.
func findValidFrame(remaining []byte, role Role) (rtuFrame, bool) {
	for offset := 0; offset <= len(remaining)-rtuMinSize; offset++ {
		candidate := remaining[offset:]

		address, _ := wire.GetU8(candidate, 0)
		function, _ := wire.GetU8(candidate, 1)
		header := packet.Header{Address: address}

		pk, n := proto.Dispatch(header, role.IsMaster, function, candidate[2:])
		if pk.Kind == packet.NotEnoughData {
			continue
		}
		if pk.Kind == packet.PacketError || pk.Kind == packet.UnknownPacketError || pk.Kind == packet.InternalError {
			continue
		}

		frameLen := 2 + n + 2
		if len(candidate) < frameLen {
			continue
		}

		wantCRC, _ := wire.GetU16BE(candidate, 2+n)
		gotCRC := crc.Checksum(candidate[:2+n])
		if wantCRC != gotCRC {
			continue
		}

		return rtuFrame{offset: offset, address: address, length: frameLen, packet: pk}, true
	}

	// No offset yielded a CRC-valid frame yet. More bytes may still arrive
	// and resolve a candidate that was merely short, or shift the noise
	// that is currently defeating every CRC check; the caller waits.
	return rtuFrame{}, false
}
