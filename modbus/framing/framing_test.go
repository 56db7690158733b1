// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package framing

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/modbuscore/modbuscore/modbus/packet"
)

func collect(pks *[]packet.Packet) Emit {
	return func(pk packet.Packet) { *pks = append(*pks, pk) }
}

func TestExtractTCPSlaveCorrectAddress(t *testing.T) {
	cache := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x42, 0x01, 0x01, 0x00, 0x00, 0x01}
	role := Role{IsMaster: false, Address: 0x42}

	var got []packet.Packet
	res := ExtractTCP(cache, role, collect(&got))

	if res.CloseReason != "" {
		t.Fatalf("CloseReason = %q, want none", res.CloseReason)
	}
	if res.Consumed != len(cache) {
		t.Fatalf("Consumed = %d, want %d", res.Consumed, len(cache))
	}
	want := []packet.Packet{{
		Kind:      packet.ReadCoilsRequest,
		Header:    packet.Header{Address: 0x42, Function: packet.ReadCoils},
		FirstCoil: 0x0100,
		CoilCount: 1,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("emitted packets mismatch: %s", diff)
	}
}

func TestExtractTCPWrongAddressIsConsumedNotEmitted(t *testing.T) {
	cache := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x43, 0x01, 0x01, 0x00, 0x00, 0x01}
	role := Role{IsMaster: false, Address: 0x42}

	var got []packet.Packet
	res := ExtractTCP(cache, role, collect(&got))

	if res.CloseReason != "" {
		t.Fatalf("CloseReason = %q, want none", res.CloseReason)
	}
	if len(got) != 0 {
		t.Fatalf("got %d emissions, want 0", len(got))
	}
	if res.Consumed != len(cache) {
		t.Fatalf("Consumed = %d, want %d (cache still advances past a filtered ADU)", res.Consumed, len(cache))
	}
}

func TestExtractTCPFragmentedStreamEightCopies(t *testing.T) {
	single := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x42, 0x01, 0x01, 0x00, 0x00, 0x01}
	var stream []byte
	for i := 0; i < 8; i++ {
		stream = append(stream, single...)
	}
	role := Role{IsMaster: false, Address: 0x42}

	full := feedAll(stream, role, 1<<30)
	chunked := feedAll(stream, role, 13)

	if diff := cmp.Diff(full, chunked); diff != "" {
		t.Fatalf("fragmentation insensitivity violated: %s", diff)
	}
	if len(full) != 8 {
		t.Fatalf("got %d emissions, want 8", len(full))
	}
}

// feedAll simulates a bus cache fed chunkSize bytes at a time, draining
// everything ExtractTCP can consume after each chunk arrives.
func feedAll(stream []byte, role Role, chunkSize int) []packet.Packet {
	var cache []byte
	var got []packet.Packet
	emit := collect(&got)

	for offset := 0; offset < len(stream); offset += chunkSize {
		end := offset + chunkSize
		if end > len(stream) {
			end = len(stream)
		}
		cache = append(cache, stream[offset:end]...)

		res := ExtractTCP(cache, role, emit)
		cache = cache[res.Consumed:]
		if res.CloseReason != "" {
			break
		}
	}
	return got
}

func TestExtractTCPInvalidProtocolID(t *testing.T) {
	cache := []byte{0x00, 0x00, 0x00, 0x01, 0x00, 0x06, 0x42, 0x01, 0x01, 0x00, 0x00, 0x01}
	role := Role{IsMaster: false, Address: 0x42}

	var got []packet.Packet
	res := ExtractTCP(cache, role, collect(&got))

	if res.CloseReason != "invalid protocol id" {
		t.Fatalf("CloseReason = %q, want %q", res.CloseReason, "invalid protocol id")
	}
	if len(got) != 0 {
		t.Fatalf("got %d emissions, want 0", len(got))
	}
}

func TestExtractTCPMasterExceptionResponseCarriesUnmaskedFunction(t *testing.T) {
	cache := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0x01, 0x83, 0x02}
	role := Role{IsMaster: true}

	var got []packet.Packet
	res := ExtractTCP(cache, role, collect(&got))

	if res.Consumed != len(cache) {
		t.Fatalf("Consumed = %d, want %d", res.Consumed, len(cache))
	}
	want := []packet.Packet{{
		Kind:   packet.ErrorResponse,
		Header: packet.Header{Address: 0x01, Function: packet.ReadHoldingRegisters},
		Error:  packet.IllegalDataAddress,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("emitted packets mismatch: %s", diff)
	}
}

func TestExtractRTUMasterWikipediaExample(t *testing.T) {
	cache := []byte{0x01, 0x04, 0x02, 0xff, 0xff, 0xb8, 0x80}
	role := Role{IsMaster: true}

	var got []packet.Packet
	res := ExtractRTU(cache, role, collect(&got))

	if res.Consumed != len(cache) {
		t.Fatalf("Consumed = %d, want %d", res.Consumed, len(cache))
	}
	want := []packet.Packet{{
		Kind:         packet.ReadInputRegistersResponse,
		Header:       packet.Header{Address: 0x01, Function: packet.ReadInputRegisters},
		RegisterData: []uint16{0xffff},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("emitted packets mismatch: %s", diff)
	}
}

func TestExtractRTUResyncAfterNoiseByte(t *testing.T) {
	valid := []byte{0x01, 0x04, 0x02, 0xff, 0xff, 0xb8, 0x80}
	cache := append([]byte{0xAA}, valid...)
	role := Role{IsMaster: true}

	var got []packet.Packet
	res := ExtractRTU(cache, role, collect(&got))

	if len(got) != 1 {
		t.Fatalf("got %d emissions, want 1", len(got))
	}
	if res.Consumed != len(cache) {
		t.Fatalf("Consumed = %d, want %d (noise byte should be consumed along with the frame)", res.Consumed, len(cache))
	}
}

func TestExtractRTUMasterExceptionResponseCarriesUnmaskedFunction(t *testing.T) {
	cache := []byte{0x01, 0x83, 0x02, 0xc0, 0xf1}
	role := Role{IsMaster: true}

	var got []packet.Packet
	res := ExtractRTU(cache, role, collect(&got))

	if res.Consumed != len(cache) {
		t.Fatalf("Consumed = %d, want %d", res.Consumed, len(cache))
	}
	want := []packet.Packet{{
		Kind:   packet.ErrorResponse,
		Header: packet.Header{Address: 0x01, Function: packet.ReadHoldingRegisters},
		Error:  packet.IllegalDataAddress,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("emitted packets mismatch: %s", diff)
	}
}

func TestExtractRTUWaitsForMoreBytes(t *testing.T) {
	cache := []byte{0x01, 0x04, 0x02, 0xff} // truncated mid-payload
	role := Role{IsMaster: true}

	var got []packet.Packet
	res := ExtractRTU(cache, role, collect(&got))

	if res.Consumed != 0 {
		t.Fatalf("Consumed = %d, want 0", res.Consumed)
	}
	if res.CloseReason != "" {
		t.Fatalf("CloseReason = %q, want none", res.CloseReason)
	}
	if len(got) != 0 {
		t.Fatalf("got %d emissions, want 0", len(got))
	}
}
