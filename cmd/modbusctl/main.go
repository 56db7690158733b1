// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// modbusctl is a demo host for the engine: it wires a reference transport
// (TCP or RTU-over-serial) to a bus.Bus and logs every emitted packet and
// every close event.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grid-x/serial"

	"github.com/modbuscore/modbuscore/modbus/bus"
	"github.com/modbuscore/modbuscore/modbus/packet"
	"github.com/modbuscore/modbuscore/transport/serialport"
	"github.com/modbuscore/modbuscore/transport/tcpconn"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel, cfg.LogFile)
	slog.Info("starting modbusctl", "role", cfg.Role)

	busCfg := bus.Config{
		Now:            time.Now,
		SilenceTimeout: cfg.SilenceTimeout,
		CloseOnTimeout: cfg.CloseOnTimeout,
		Address:        cfg.Address,
		CloseOnError:   cfg.CloseOnError,
	}

	var runner func() error

	switch cfg.Role {
	case "tcp-master":
		busCfg.UseTCPFormat = true
		busCfg.IsMaster = true
		runner = func() error { return runTCPMaster(cfg, busCfg) }
	case "tcp-slave":
		busCfg.UseTCPFormat = true
		busCfg.IsMaster = false
		runner = func() error { return runTCPSlave(cfg, busCfg) }
	case "rtu-master":
		busCfg.UseTCPFormat = false
		busCfg.IsMaster = true
		runner = func() error { return runRTUMaster(cfg, busCfg) }
	default:
		slog.Error("unknown role", "role", cfg.Role)
		os.Exit(1)
	}

	if err := runner(); err != nil {
		slog.Error("modbusctl exited with error", "err", err)
		os.Exit(1)
	}
}

func setupLogger(level, file string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	switch level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}

	var handler slog.Handler
	if file != "" && file != "-" {
		f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file, falling back to stdout: %v\n", err)
			handler = slog.NewTextHandler(os.Stdout, opts)
		} else {
			handler = slog.NewTextHandler(f, opts)
		}
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func logEmission(pk packet.Packet) {
	slog.Info("packet received",
		"kind", pk.Kind,
		"address", pk.Header.Address,
		"function", pk.Header.Function,
		"transaction_id", pk.Header.TransactionID,
	)
}

func waitForSignal() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}

func runTCPMaster(cfg *config, busCfg bus.Config) error {
	conn, err := net.Dial("tcp", cfg.TCPAddress)
	if err != nil {
		return fmt.Errorf("dial %s: %w", cfg.TCPAddress, err)
	}
	defer conn.Close()

	tr := tcpconn.New(conn)
	b, err := bus.New(tr, busCfg, logEmission)
	if err != nil {
		return err
	}
	go tr.Run()

	slog.Info("connected as tcp master", "addr", cfg.TCPAddress)
	waitForSignal()
	b.Close()
	return nil
}

func runTCPSlave(cfg *config, busCfg bus.Config) error {
	listener, err := net.Listen("tcp", cfg.TCPAddress)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.TCPAddress, err)
	}
	defer listener.Close()
	slog.Info("listening as tcp slave", "addr", cfg.TCPAddress, "station_address", cfg.Address)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				slog.Error("accept failed", "err", err)
				return
			}
			go handleSlaveConn(conn, busCfg)
		}
	}()

	waitForSignal()
	return nil
}

func handleSlaveConn(conn net.Conn, busCfg bus.Config) {
	defer conn.Close()
	tr := tcpconn.New(conn)
	b, err := bus.New(tr, busCfg, logEmission)
	if err != nil {
		slog.Error("failed to construct bus", "err", err)
		return
	}
	tr.Run()
	b.Close()
}

func runRTUMaster(cfg *config, busCfg bus.Config) error {
	tr := serialport.New(serial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   cfg.Parity,
		StopBits: cfg.StopBits,
		Timeout:  cfg.Timeout,
	})

	if err := tr.Connect(context.Background()); err != nil {
		return err
	}
	defer tr.Close()

	b, err := bus.New(tr, busCfg, logEmission)
	if err != nil {
		return err
	}
	go tr.Run()

	slog.Info("connected as rtu master", "device", cfg.Device, "baud_rate", cfg.BaudRate)
	waitForSignal()
	b.Close()
	return nil
}
