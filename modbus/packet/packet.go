// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package packet defines the closed set of Modbus function/error codes,
// the common ADU header, and the tagged-variant sum type the parsers in
// modbus/proto produce and the bus emits to the host.
package packet

import "fmt"

// FunctionCode identifies the Modbus operation carried by a PDU. The high
// bit (0x80) set on a function code received by a master indicates an
// exception response; FunctionCode values in this package are always the
// unmasked, recognized set.
type FunctionCode uint8

// Recognized function codes.
const (
	ReadCoils                  FunctionCode = 1
	ReadDiscreteInputs         FunctionCode = 2
	ReadHoldingRegisters       FunctionCode = 3
	ReadInputRegisters         FunctionCode = 4
	WriteSingleCoil            FunctionCode = 5
	WriteSingleHoldingRegister FunctionCode = 6
	WriteMultipleCoils         FunctionCode = 15
	WriteHoldingRegisters      FunctionCode = 16
)

// exceptionBit is set on the wire function byte of an exception response.
const exceptionBit = 0x80

// IsException reports whether fn, as received on the wire, carries the
// exception bit.
func IsException(fn uint8) bool {
	return fn&exceptionBit != 0
}

// Underlying strips the exception bit, yielding the function code the
// exception refers to.
func Underlying(fn uint8) FunctionCode {
	return FunctionCode(fn &^ exceptionBit)
}

// Exception sets the exception bit on fn.
func Exception(fn FunctionCode) uint8 {
	return uint8(fn) | exceptionBit
}

func (f FunctionCode) String() string {
	switch f {
	case ReadCoils:
		return "read_coils"
	case ReadDiscreteInputs:
		return "read_discrete_inputs"
	case ReadHoldingRegisters:
		return "read_holding_registers"
	case ReadInputRegisters:
		return "read_input_registers"
	case WriteSingleCoil:
		return "write_single_coil"
	case WriteSingleHoldingRegister:
		return "write_single_holding_register"
	case WriteMultipleCoils:
		return "write_multiple_coils"
	case WriteHoldingRegisters:
		return "write_holding_registers"
	default:
		return fmt.Sprintf("function(%d)", uint8(f))
	}
}

// ErrorCode enumerates the Modbus exception codes carried by ErrorResponse.
type ErrorCode uint8

const (
	IllegalFunction        ErrorCode = 1
	IllegalDataAddress     ErrorCode = 2
	IllegalDataValue       ErrorCode = 3
	SlaveDeviceFailure     ErrorCode = 4
	Acknowledge            ErrorCode = 5
	SlaveDeviceBusy        ErrorCode = 6
	NegativeAcknowledge    ErrorCode = 7
	MemoryParityError      ErrorCode = 8
	GatewayPathUnavailable ErrorCode = 10
	GatewayNoResponse      ErrorCode = 11
)

func (e ErrorCode) String() string {
	switch e {
	case IllegalFunction:
		return "illegal_function"
	case IllegalDataAddress:
		return "illegal_data_address"
	case IllegalDataValue:
		return "illegal_data_value"
	case SlaveDeviceFailure:
		return "slave_device_failure"
	case Acknowledge:
		return "acknowledge"
	case SlaveDeviceBusy:
		return "slave_device_busy"
	case NegativeAcknowledge:
		return "negative_acknowledge"
	case MemoryParityError:
		return "memory_parity_error"
	case GatewayPathUnavailable:
		return "gateway_path_unavailable"
	case GatewayNoResponse:
		return "gateway_no_response"
	default:
		return fmt.Sprintf("error_code(%d)", uint8(e))
	}
}

// Header is the common prefix carried by every packet variant.
// TransactionID is meaningful for TCP only; RTU packets carry zero.
type Header struct {
	TransactionID uint16
	Address       uint8
	Function      FunctionCode
}
