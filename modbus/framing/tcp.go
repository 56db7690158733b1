// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package framing

import (
	"github.com/modbuscore/modbuscore/modbus/packet"
	"github.com/modbuscore/modbuscore/modbus/proto"
	"github.com/modbuscore/modbuscore/modbus/wire"
)

const mbapHeaderSize = 8

// ExtractTCP advances through cache extracting zero or more MBAP ADUs,
// invoking emit for each one accepted by the address filter. It never
// mutates cache; the caller drops Result.Consumed bytes from the front
// after each call.
//
// transaction_id(2) | protocol_id(2)=0 | length(2) | address(1) |
// function(1) | pdu(length-2)
func ExtractTCP(cache []byte, role Role, emit Emit) Result {
	var consumed int

	for {
		remaining := cache[consumed:]
		if len(remaining) < mbapHeaderSize {
			return Result{Consumed: consumed}
		}

		transactionID, _ := wire.GetU16BE(remaining, 0)
		protocolID, _ := wire.GetU16BE(remaining, 2)
		length, _ := wire.GetU16BE(remaining, 4)
		address, _ := wire.GetU8(remaining, 6)
		function, _ := wire.GetU8(remaining, 7)

		if protocolID != 0 {
			return Result{Consumed: consumed, CloseReason: "invalid protocol id"}
		}
		if length < 2 {
			return Result{Consumed: consumed, CloseReason: "invalid length"}
		}

		pduLen := int(length) - 2
		if len(remaining) < mbapHeaderSize+pduLen {
			return Result{Consumed: consumed}
		}

		pdu := remaining[mbapHeaderSize : mbapHeaderSize+pduLen]
		header := packet.Header{TransactionID: transactionID, Address: address}

		pk, n := proto.Dispatch(header, role.IsMaster, function, pdu)
		consumed += mbapHeaderSize + pduLen

		switch pk.Kind {
		case packet.NotEnoughData:
			return Result{Consumed: consumed, CloseReason: "not enough data read: C/L"}
		case packet.PacketError, packet.UnknownPacketError, packet.InternalError:
			if role.CloseOnError {
				return Result{Consumed: consumed, CloseReason: "packet error"}
			}
			if role.accepts(address) {
				emit(pk)
			}
		default:
			if n != pduLen {
				return Result{Consumed: consumed, CloseReason: "not enough data read: C/L"}
			}
			if role.accepts(address) {
				emit(pk)
			}
		}
	}
}
