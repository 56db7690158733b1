// Copyright (c) 2014 Quoc-Viet Nguyen. All rights reserved.
// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package crc computes the Modbus/RTU CRC-16 (polynomial 0xA001, initial
// value 0xFFFF, byte-swapped on output).
package crc

// CRC is a running Modbus CRC-16 accumulator. The zero value is not ready
// to use; call Reset first.
type CRC struct {
	value uint16
}

// Reset reinitializes the accumulator and returns the receiver, so callers
// can chain Reset().PushBytes(...).
func (c *CRC) Reset() *CRC {
	c.value = 0xFFFF
	return c
}

// PushBytes folds data into the running checksum and returns the receiver.
func (c *CRC) PushBytes(data []byte) *CRC {
	for _, b := range data {
		c.value ^= uint16(b)
		for i := 0; i < 8; i++ {
			if c.value&1 != 0 {
				c.value = (c.value >> 1) ^ 0xA001
			} else {
				c.value >>= 1
			}
		}
	}
	return c
}

// Value returns the checksum computed so far, already byte-swapped the way
// the RTU framer expects to write it as a big-endian uint16.
func (c *CRC) Value() uint16 {
	return (c.value >> 8) | (c.value << 8)
}

// Checksum is a convenience one-shot helper equivalent to
// (&CRC{}).Reset().PushBytes(data).Value().
func Checksum(data []byte) uint16 {
	var c CRC
	return c.Reset().PushBytes(data).Value()
}
