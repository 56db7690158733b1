// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package proto

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/modbuscore/modbuscore/modbus/packet"
)

func TestReadInputRegistersResponseWikipediaExample(t *testing.T) {
	header := packet.Header{Address: 0x01, Function: packet.ReadInputRegisters}
	pk, consumed := parseReadRegistersResponse(header, packet.ReadInputRegistersResponse, []byte{0x02, 0xff, 0xff})
	if pk.Kind != packet.ReadInputRegistersResponse {
		t.Fatalf("Kind = %v", pk.Kind)
	}
	if consumed != 3 {
		t.Fatalf("consumed = %d, want 3", consumed)
	}
	want := []uint16{0xffff}
	if diff := cmp.Diff(want, pk.RegisterData); diff != "" {
		t.Fatalf("RegisterData mismatch: %s", diff)
	}
}

func TestReadRegistersRequestRoundTrip(t *testing.T) {
	header := packet.Header{Address: 1, Function: packet.ReadInputRegisters}
	pk := packet.Packet{
		Kind:          packet.ReadInputRegistersRequest,
		Header:        header,
		FirstRegister: 0x35,
		RegisterCount: 0x27,
	}

	wire := Serialize(pk)
	got, consumed := parseReadRegistersRequest(header, packet.ReadInputRegistersRequest, wire)
	if consumed != len(wire) {
		t.Fatalf("consumed = %d, want %d", consumed, len(wire))
	}
	if diff := cmp.Diff(pk, got); diff != "" {
		t.Fatalf("round-trip mismatch: %s", diff)
	}
}

func TestReadCoilsResponseRoundTripOnByteBoundary(t *testing.T) {
	header := packet.Header{Address: 1, Function: packet.ReadCoils}
	pk := packet.Packet{
		Kind:     packet.ReadCoilsResponse,
		Header:   header,
		CoilData: []bool{true, false, true, false, false, true, true, true},
	}

	wire := serializeReadCoilsResponse(pk)
	got, consumed := parseReadCoilsResponse(header, wire)
	if consumed != len(wire) {
		t.Fatalf("consumed = %d, want %d", consumed, len(wire))
	}
	if diff := cmp.Diff(pk, got); diff != "" {
		t.Fatalf("round-trip mismatch: %s", diff)
	}
}

func TestWriteHoldingRegistersRequestRoundTrip(t *testing.T) {
	header := packet.Header{Address: 1, Function: packet.WriteHoldingRegisters}
	pk := packet.Packet{
		Kind:            packet.WriteHoldingRegistersRequest,
		Header:          header,
		FirstRegister:   0x10,
		RegisterContent: []uint16{1, 2, 3},
	}

	wire := Serialize(pk)
	got, consumed := parseWriteHoldingRegistersRequest(header, wire)
	if consumed != len(wire) {
		t.Fatalf("consumed = %d, want %d", consumed, len(wire))
	}
	if diff := cmp.Diff(pk, got); diff != "" {
		t.Fatalf("round-trip mismatch: %s", diff)
	}
}

func TestWriteHoldingRegistersRequestBadCountIsInternalError(t *testing.T) {
	header := packet.Header{Address: 1, Function: packet.WriteHoldingRegisters}
	// first(2) count=3(2) n=2(1) then only one register's worth of data.
	payload := []byte{0x00, 0x10, 0x00, 0x03, 0x02, 0xAA, 0xBB}

	pk, _ := parseWriteHoldingRegistersRequest(header, payload)
	if pk.Kind != packet.InternalError {
		t.Fatalf("Kind = %v, want InternalError", pk.Kind)
	}
}

func TestWriteHoldingRegistersRequestOddByteCountIsPacketError(t *testing.T) {
	header := packet.Header{Address: 1, Function: packet.WriteHoldingRegisters}
	payload := []byte{0x00, 0x10, 0x00, 0x01, 0x03, 0xAA, 0xBB, 0xCC}

	pk, _ := parseWriteHoldingRegistersRequest(header, payload)
	if pk.Kind != packet.PacketError {
		t.Fatalf("Kind = %v, want PacketError", pk.Kind)
	}
}

func TestMasterExceptionResponse(t *testing.T) {
	header := packet.Header{Address: 1}
	pk, consumed := Dispatch(header, true, packet.Exception(packet.ReadHoldingRegisters), []byte{0x02})
	if pk.Kind != packet.ErrorResponse {
		t.Fatalf("Kind = %v, want ErrorResponse", pk.Kind)
	}
	if consumed != 1 {
		t.Fatalf("consumed = %d, want 1", consumed)
	}
	if pk.Error != packet.IllegalDataAddress {
		t.Fatalf("Error = %v, want IllegalDataAddress", pk.Error)
	}
	if pk.Header.Function != packet.ReadHoldingRegisters {
		t.Fatalf("Header.Function = %v, want unmasked ReadHoldingRegisters", pk.Header.Function)
	}
}

func TestDispatchUnknownFunctionIsUnknownPacketError(t *testing.T) {
	header := packet.Header{Address: 1}
	pk, _ := Dispatch(header, true, 0x63, []byte{})
	if pk.Kind != packet.UnknownPacketError {
		t.Fatalf("Kind = %v, want UnknownPacketError", pk.Kind)
	}
}

func TestNotEnoughDataUntilFullPayload(t *testing.T) {
	header := packet.Header{Address: 1}
	pk, _ := Dispatch(header, false, uint8(packet.ReadCoils), []byte{0x01, 0x02})
	if pk.Kind != packet.NotEnoughData {
		t.Fatalf("Kind = %v, want NotEnoughData", pk.Kind)
	}
}
