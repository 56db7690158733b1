// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// config holds everything modbusctl needs to build a transport and a bus.
type config struct {
	// Role selection.
	Role    string `mapstructure:"role"`    // "tcp-master", "tcp-slave", "rtu-master"
	Address byte   `mapstructure:"address"` // local station address for slave roles

	// TCP transport.
	TCPAddress string `mapstructure:"tcp_address"`

	// RTU transport.
	Device   string        `mapstructure:"device"`
	BaudRate int           `mapstructure:"baud_rate"`
	DataBits int           `mapstructure:"data_bits"`
	Parity   string        `mapstructure:"parity"`
	StopBits int           `mapstructure:"stop_bits"`
	Timeout  time.Duration `mapstructure:"timeout"`

	// Bus policy.
	SilenceTimeout time.Duration `mapstructure:"silence_timeout"`
	CloseOnTimeout bool          `mapstructure:"close_on_timeout"`
	CloseOnError   bool          `mapstructure:"close_on_error"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// loadConfig loads configuration from flags, then from a config file,
// matching the teacher's viper/pflag layering (flags win, file fills
// defaults, SetDefault covers the rest).
func loadConfig() (*config, error) {
	viper.SetDefault("role", "tcp-master")
	viper.SetDefault("address", 0)
	viper.SetDefault("tcp_address", "127.0.0.1:502")
	viper.SetDefault("device", "/dev/ttyUSB0")
	viper.SetDefault("baud_rate", 19200)
	viper.SetDefault("data_bits", 8)
	viper.SetDefault("parity", "N")
	viper.SetDefault("stop_bits", 1)
	viper.SetDefault("timeout", 500*time.Millisecond)
	viper.SetDefault("silence_timeout", 5*time.Second)
	viper.SetDefault("close_on_timeout", false)
	viper.SetDefault("close_on_error", false)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "")

	pflag.StringP("config", "c", "", "Configuration file path.")
	pflag.StringP("role", "r", viper.GetString("role"), "Engine role: tcp-master, tcp-slave, or rtu-master.")
	pflag.Uint8P("address", "a", byte(viper.GetInt("address")), "Local station address (slave roles); 0 accepts any.")
	pflag.StringP("tcp_address", "T", viper.GetString("tcp_address"), "TCP address to dial (master) or listen on (slave).")
	pflag.StringP("device", "p", viper.GetString("device"), "Serial port device name (RTU master).")
	pflag.IntP("baud_rate", "s", viper.GetInt("baud_rate"), "Serial port speed.")
	pflag.DurationP("timeout", "W", viper.GetDuration("timeout"), "Serial port read timeout.")
	pflag.DurationP("silence_timeout", "S", viper.GetDuration("silence_timeout"), "Silence timeout before the bus acts.")
	pflag.BoolP("close_on_timeout", "", viper.GetBool("close_on_timeout"), "Close the bus on silence timeout instead of clearing the cache.")
	pflag.BoolP("close_on_error", "", viper.GetBool("close_on_error"), "Close the bus on malformed PDUs instead of surfacing an error variant.")
	pflag.StringP("log_level", "v", viper.GetString("log_level"), "Log verbosity level (debug, info, warn, error).")
	pflag.StringP("log_file", "L", viper.GetString("log_file"), "Log file path ('-' or empty for stdout).")
	pflag.Parse()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, fmt.Errorf("failed to bind pflags: %w", err)
	}

	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Parity = strings.ToUpper(cfg.Parity)

	return &cfg, nil
}
