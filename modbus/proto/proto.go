// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package proto holds one parser and one serializer per Modbus function
// code the engine recognizes. Parsers consume a header plus the raw PDU
// payload bytes (function code already stripped) and yield a typed
// packet.Packet, packet.NotEnoughData, or a structured error variant.
// Serializers are the exact inverse: given a typed packet.Packet they
// produce the payload bytes a parser would consume back into the same
// value.
package proto

import "github.com/modbuscore/modbuscore/modbus/packet"

// Dispatch parses payload (the PDU bytes following address+function) into
// a packet.Packet. isMaster selects whether function codes are parsed as
// requests (slave-side engine) or responses (master-side engine); fn is
// the function byte exactly as it appeared on the wire, exception bit
// included.
//
// The returned int is the number of payload bytes the parse consumed; it
// is only meaningful when the returned Kind is a typed success variant.
func Dispatch(header packet.Header, isMaster bool, fn uint8, payload []byte) (packet.Packet, int) {
	if isMaster && packet.IsException(fn) {
		return parseErrorResponse(header, fn, payload)
	}

	function := packet.FunctionCode(fn)
	header.Function = function

	if isMaster {
		switch function {
		case packet.ReadCoils:
			return parseReadCoilsResponse(header, payload)
		case packet.ReadInputRegisters:
			return parseReadRegistersResponse(header, packet.ReadInputRegistersResponse, payload)
		case packet.ReadHoldingRegisters:
			return parseReadRegistersResponse(header, packet.ReadHoldingRegistersResponse, payload)
		case packet.WriteHoldingRegisters:
			return parseWriteHoldingRegistersResponse(header, payload)
		case packet.WriteSingleHoldingRegister:
			return parseWriteSingleHoldingRegister(header, packet.WriteSingleHoldingRegisterResponse, payload)
		default:
			return packet.WithError(packet.UnknownPacketError, header), 0
		}
	}

	switch function {
	case packet.ReadCoils:
		return parseReadCoilsRequest(header, payload)
	case packet.ReadInputRegisters:
		return parseReadRegistersRequest(header, packet.ReadInputRegistersRequest, payload)
	case packet.ReadHoldingRegisters:
		return parseReadRegistersRequest(header, packet.ReadHoldingRegistersRequest, payload)
	case packet.WriteHoldingRegisters:
		return parseWriteHoldingRegistersRequest(header, payload)
	case packet.WriteSingleHoldingRegister:
		return parseWriteSingleHoldingRegister(header, packet.WriteSingleHoldingRegisterRequest, payload)
	default:
		return packet.WithError(packet.UnknownPacketError, header), 0
	}
}

// Serialize produces the PDU payload bytes (function code not included)
// for pk. It is the exact inverse of Dispatch for every typed variant,
// except that a ReadCoilsResponse's CoilData is padded with false to a
// multiple of eight, which Dispatch then returns as decoded coils.
func Serialize(pk packet.Packet) []byte {
	switch pk.Kind {
	case packet.ReadCoilsRequest:
		return serializeReadCoilsRequest(pk)
	case packet.ReadCoilsResponse:
		return serializeReadCoilsResponse(pk)
	case packet.ReadInputRegistersRequest, packet.ReadHoldingRegistersRequest:
		return serializeReadRegistersRequest(pk)
	case packet.ReadInputRegistersResponse, packet.ReadHoldingRegistersResponse:
		return serializeReadRegistersResponse(pk)
	case packet.WriteHoldingRegistersRequest:
		return serializeWriteHoldingRegistersRequest(pk)
	case packet.WriteHoldingRegistersResponse:
		return serializeWriteHoldingRegistersResponse(pk)
	case packet.WriteSingleHoldingRegisterRequest, packet.WriteSingleHoldingRegisterResponse:
		return serializeWriteSingleHoldingRegister(pk)
	case packet.ErrorResponse:
		return serializeErrorResponse(pk)
	default:
		return nil
	}
}
