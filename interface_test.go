// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm303agr

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

func TestSPIFraming(t *testing.T) {
	port := &spitest.Playback{
		Playback: conntest.Playback{
			Ops: []conntest.IO{
				// Plain write: register then value.
				{W: []byte{0x23, 0x10}},
				// Single read: RW bit set, dummy byte clocked out.
				{W: []byte{0x8F, 0x00}, R: []byte{0x00, AccelID}},
				{W: []byte{0xCF, 0x00}, R: []byte{0x00, MagID}},
				// Multi-byte read: RW and MS bits set.
				{W: []byte{0xCC, 0x00, 0x00}, R: []byte{0x00, 0xB3, 0xE2}},
			},
		},
	}
	accelCS := &gpiotest.Pin{N: "cs-accel"}
	magCS := &gpiotest.Pin{N: "cs-mag"}
	d, err := NewSPI(port, accelCS, magCS)
	if err != nil {
		t.Fatalf("NewSPI: %v", err)
	}
	d.SetSleepFunc(func(time.Duration) {})

	if err := d.SetAccelScale(AccelScale4G); err != nil {
		t.Fatalf("SetAccelScale: %v", err)
	}
	if id, err := d.AccelerometerID(); err != nil || id != AccelID {
		t.Errorf("AccelerometerID = %#x, %v", id, err)
	}
	if id, err := d.MagnetometerID(); err != nil || id != MagID {
		t.Errorf("MagnetometerID = %#x, %v", id, err)
	}
	temp, err := d.Temperature()
	if err != nil {
		t.Fatalf("Temperature: %v", err)
	}
	if temp.Raw() != -7501 {
		t.Errorf("Raw = %d, want -7501", temp.Raw())
	}
	// Chip selects deasserted after the last transaction.
	if accelCS.L != gpio.High || magCS.L != gpio.High {
		t.Errorf("chip selects left asserted: accel=%v mag=%v", accelCS.L, magCS.L)
	}
	if err := port.Close(); err != nil {
		t.Errorf("unconsumed bus transactions: %v", err)
	}
}
