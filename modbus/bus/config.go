// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package bus

import (
	"errors"
	"time"
)

// ErrRTUSlaveUnsupported is returned by New when a configuration requests
// RTU framing together with slave mode. An RTU slave needs auto-response
// logic this engine does not provide.
var ErrRTUSlaveUnsupported = errors.New("bus: RTU slave is not supported, slaves require TCP")

// Config is immutable for the lifetime of the Bus it configures.
type Config struct {
	// Now returns the current time on whatever monotonic scale the host
	// uses; its unit must be consistent with SilenceTimeout.
	Now func() time.Time

	// SilenceTimeout is the maximum quiet interval tolerated before the
	// partial-frame cache is discarded or the bus is closed, per
	// CloseOnTimeout. Zero disables the silence check entirely.
	SilenceTimeout time.Duration

	// CloseOnTimeout selects what happens when SilenceTimeout elapses: true
	// closes the bus, false clears the cache and continues.
	CloseOnTimeout bool

	// UseTCPFormat selects MBAP framing over RTU framing.
	UseTCPFormat bool

	// IsMaster selects response parsers (true) or request parsers (false).
	IsMaster bool

	// Address is the local station address. Zero means "accept any
	// address" for a slave; ignored by a master, which accepts every
	// address unconditionally.
	Address uint8

	// CloseOnError selects what happens when a PDU fails to parse: true
	// closes the bus with reason "packet error", false surfaces the
	// malformed-packet variant to the emission callback and continues.
	CloseOnError bool
}

func (c Config) validate() error {
	if !c.IsMaster && !c.UseTCPFormat {
		return ErrRTUSlaveUnsupported
	}
	return nil
}
