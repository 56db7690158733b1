// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package packet

// Kind tags which variant of the closed packet sum type a Packet holds.
// Dispatch on Kind at the consumer side instead of a type hierarchy —
// the fields that are meaningful for a given Kind are documented next to
// that Kind's constant.
type Kind uint8

const (
	// NotEnoughData is the sentinel a parser returns when the buffered
	// bytes are insufficient. It is never emitted to the host.
	NotEnoughData Kind = iota

	// PacketError carries only Header: a malformed PDU was recognized as
	// such but could not be decoded further.
	PacketError

	// UnknownPacketError carries only Header: the function code (after
	// masking off the exception bit where relevant) is not one this
	// engine recognizes.
	UnknownPacketError

	// InternalError carries only Header: a structural invariant the
	// parser itself is responsible for maintaining was violated (e.g. a
	// declared register count that does not match the decoded byte
	// count).
	InternalError

	// ReadCoilsRequest carries Header, FirstCoil, CoilCount.
	ReadCoilsRequest

	// ReadCoilsResponse carries Header, CoilData.
	ReadCoilsResponse

	// ReadInputRegistersRequest carries Header, FirstRegister, RegisterCount.
	ReadInputRegistersRequest

	// ReadInputRegistersResponse carries Header, RegisterData.
	ReadInputRegistersResponse

	// ReadHoldingRegistersRequest carries Header, FirstRegister, RegisterCount.
	ReadHoldingRegistersRequest

	// ReadHoldingRegistersResponse carries Header, RegisterData.
	ReadHoldingRegistersResponse

	// WriteHoldingRegistersRequest carries Header, FirstRegister, RegisterContent.
	WriteHoldingRegistersRequest

	// WriteHoldingRegistersResponse carries Header, FirstRegister, RegisterCount.
	WriteHoldingRegistersResponse

	// WriteSingleHoldingRegisterRequest carries Header, RegisterIndex, RegisterValue.
	WriteSingleHoldingRegisterRequest

	// WriteSingleHoldingRegisterResponse carries Header, RegisterIndex, RegisterValue.
	WriteSingleHoldingRegisterResponse

	// ErrorResponse carries Header, Error.
	ErrorResponse
)

func (k Kind) String() string {
	switch k {
	case NotEnoughData:
		return "NotEnoughData"
	case PacketError:
		return "PacketError"
	case UnknownPacketError:
		return "UnknownPacketError"
	case InternalError:
		return "InternalError"
	case ReadCoilsRequest:
		return "ReadCoilsRequest"
	case ReadCoilsResponse:
		return "ReadCoilsResponse"
	case ReadInputRegistersRequest:
		return "ReadInputRegistersRequest"
	case ReadInputRegistersResponse:
		return "ReadInputRegistersResponse"
	case ReadHoldingRegistersRequest:
		return "ReadHoldingRegistersRequest"
	case ReadHoldingRegistersResponse:
		return "ReadHoldingRegistersResponse"
	case WriteHoldingRegistersRequest:
		return "WriteHoldingRegistersRequest"
	case WriteHoldingRegistersResponse:
		return "WriteHoldingRegistersResponse"
	case WriteSingleHoldingRegisterRequest:
		return "WriteSingleHoldingRegisterRequest"
	case WriteSingleHoldingRegisterResponse:
		return "WriteSingleHoldingRegisterResponse"
	case ErrorResponse:
		return "ErrorResponse"
	default:
		return "Kind(?)"
	}
}

// Packet is the parsed-packet sum type. Only the fields relevant to Kind
// are meaningful; see the Kind constants for which fields apply to each
// variant. A single struct (rather than an interface with one
// implementation per variant) keeps the zero-allocation path for the hot
// "not enough data, try again later" outcome, and keeps equality via
// go-cmp trivial for round-trip tests. Packet holds slices, so it is not
// comparable with ==.
type Packet struct {
	Kind Kind

	Header Header

	// read_coils
	FirstCoil uint16
	CoilCount uint16
	CoilData  []bool

	// read_holding_registers / read_input_registers / write_holding_registers
	FirstRegister   uint16
	RegisterCount   uint16
	RegisterData    []uint16
	RegisterContent []uint16

	// write_single_holding_register
	RegisterIndex uint16
	RegisterValue uint16

	// error_response
	Error ErrorCode
}

// NotEnoughDataPacket is the shared sentinel value parsers return; compare
// against it with Kind == packet.NotEnoughData rather than relying on
// struct equality.
var NotEnoughDataPacket = Packet{Kind: NotEnoughData}

// WithError builds a PacketError/UnknownPacketError/InternalError variant
// carrying only a header — the three "something is structurally wrong"
// outcomes that never reach the host's typed-field logic.
func WithError(kind Kind, header Header) Packet {
	return Packet{Kind: kind, Header: header}
}
