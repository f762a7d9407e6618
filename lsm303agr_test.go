// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm303agr

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

// newTestDev wires a driver to an I2C playback expecting exactly the given
// transactions, with the settling delays disabled.
func newTestDev(t *testing.T, ops []i2ctest.IO) (*Dev, *i2ctest.Playback) {
	t.Helper()
	pb := &i2ctest.Playback{Ops: ops}
	d := NewI2C(pb)
	d.SetSleepFunc(func(time.Duration) {})
	return d, pb
}

func donePlayback(t *testing.T, pb *i2ctest.Playback) {
	t.Helper()
	if err := pb.Close(); err != nil {
		t.Errorf("unconsumed bus transactions: %v", err)
	}
}

// flakyBus fails the first N transactions, then accepts and records
// everything.
type flakyBus struct {
	failures int
	writes   [][]byte
}

func (b *flakyBus) String() string { return "flaky" }

func (b *flakyBus) SetSpeed(physic.Frequency) error { return nil }

func (b *flakyBus) Tx(addr uint16, w, r []byte) error {
	if b.failures > 0 {
		b.failures--
		return errors.New("bus glitch")
	}
	b.writes = append(b.writes, append([]byte(nil), w...))
	for i := range r {
		r[i] = 0
	}
	return nil
}

func TestInit(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: AccelI2CAddr, W: []byte{0x23, 0x80}},
		{Addr: AccelI2CAddr, W: []byte{0x1F, 0xC0}},
		{Addr: MagI2CAddr, W: []byte{0x62, 0x10}},
	})
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	donePlayback(t, pb)
}

func TestDeviceIDs(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: AccelI2CAddr, W: []byte{0x0F}, R: []byte{AccelID}},
		{Addr: MagI2CAddr, W: []byte{0x4F}, R: []byte{MagID}},
	})
	if id, err := d.AccelerometerID(); err != nil || id != AccelID {
		t.Errorf("AccelerometerID = %#x, %v; want %#x", id, err, AccelID)
	}
	if id, err := d.MagnetometerID(); err != nil || id != MagID {
		t.Errorf("MagnetometerID = %#x, %v; want %#x", id, err, MagID)
	}
	donePlayback(t, pb)
}

func TestStatusDecode(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: AccelI2CAddr, W: []byte{0x27}, R: []byte{0x08}},
		{Addr: AccelI2CAddr, W: []byte{0x07}, R: []byte{0x44}},
	})
	status, err := d.AccelStatus()
	if err != nil {
		t.Fatalf("AccelStatus: %v", err)
	}
	if !status.XYZNewData || status.XYZOverrun || status.XNewData {
		t.Errorf("unexpected status decode: %+v", status)
	}
	ts, err := d.TemperatureStatus()
	if err != nil {
		t.Fatalf("TemperatureStatus: %v", err)
	}
	if !ts.Overrun || !ts.NewData {
		t.Errorf("unexpected temperature status decode: %+v", ts)
	}
	donePlayback(t, pb)
}

func TestTemperatureDecode(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: AccelI2CAddr, W: []byte{0x8C}, R: []byte{0xB3, 0xE2}},
	})
	temp, err := d.Temperature()
	if err != nil {
		t.Fatalf("Temperature: %v", err)
	}
	if temp.Raw() != -7501 {
		t.Errorf("Raw = %d, want -7501", temp.Raw())
	}
	if got := temp.Celsius(); got != -4.30078125 {
		t.Errorf("Celsius = %v, want -4.30078125", got)
	}
	donePlayback(t, pb)
}

func TestHalt(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: AccelI2CAddr, W: []byte{0x20, 0x47}},
		{Addr: AccelI2CAddr, W: []byte{0x20, 0x07}},
		{Addr: MagI2CAddr, W: []byte{0x60, 0x03}},
	})
	if err := d.SetAccelModeAndODR(AccelModeNormal, AccelODR50Hz); err != nil {
		t.Fatalf("SetAccelModeAndODR: %v", err)
	}
	if err := d.Halt(); err != nil {
		t.Fatalf("Halt: %v", err)
	}
	if d.GetAccelMode() != AccelModePowerDown {
		t.Errorf("mode after Halt = %v, want power-down", d.GetAccelMode())
	}
	donePlayback(t, pb)
}

func TestFailedWriteLeavesMirror(t *testing.T) {
	bus := &flakyBus{failures: 1}
	d := NewI2C(bus)
	d.SetSleepFunc(func(time.Duration) {})
	if err := d.SetAccelScale(AccelScale4G); err == nil {
		t.Fatal("SetAccelScale should have failed")
	}
	if got := d.GetAccelScale(); got != AccelScale2G {
		t.Errorf("scale after failed write = %v, want ±2g", got)
	}
	if err := d.SetAccelScale(AccelScale4G); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := d.GetAccelScale(); got != AccelScale4G {
		t.Errorf("scale after retry = %v, want ±4g", got)
	}
}

func TestFifoMode(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: AccelI2CAddr, W: []byte{0x24, 0x40}},
		{Addr: AccelI2CAddr, W: []byte{0x2E, 0x88}},
		{Addr: AccelI2CAddr, W: []byte{0x24, 0x00}},
		{Addr: AccelI2CAddr, W: []byte{0x2E, 0x00}},
	})
	// Threshold 40 exceeds the 5-bit field and is clamped to 8.
	if err := d.SetAccelFIFOMode(FifoModeStream, 40); err != nil {
		t.Fatalf("SetAccelFIFOMode(stream): %v", err)
	}
	if err := d.SetAccelFIFOMode(FifoModeBypass, 0); err != nil {
		t.Fatalf("SetAccelFIFOMode(bypass): %v", err)
	}
	donePlayback(t, pb)
}

func TestInterrupts(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: AccelI2CAddr, W: []byte{0x22, 0x10}},
		{Addr: AccelI2CAddr, W: []byte{0x22, 0x90}},
		{Addr: AccelI2CAddr, W: []byte{0x22, 0x80}},
	})
	if err := d.EnableAccelInterrupt(InterruptDataReady1); err != nil {
		t.Fatalf("enable data ready: %v", err)
	}
	if err := d.EnableAccelInterrupt(InterruptClick); err != nil {
		t.Fatalf("enable click: %v", err)
	}
	if err := d.DisableAccelInterrupt(InterruptDataReady1); err != nil {
		t.Fatalf("disable data ready: %v", err)
	}
	donePlayback(t, pb)
}
