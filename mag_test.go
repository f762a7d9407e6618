// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm303agr

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestMagOneShotPollProtocol(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		// First call: no data, chip idle, trigger a measurement.
		{Addr: MagI2CAddr, W: []byte{0x67}, R: []byte{0x00}},
		{Addr: MagI2CAddr, W: []byte{0x60}, R: []byte{0x03}},
		{Addr: MagI2CAddr, W: []byte{0x60, 0x01}},
		// Second call: still no data, measurement already in progress, no
		// re-trigger.
		{Addr: MagI2CAddr, W: []byte{0x67}, R: []byte{0x00}},
		{Addr: MagI2CAddr, W: []byte{0x60}, R: []byte{0x01}},
		// Third call: data ready.
		{Addr: MagI2CAddr, W: []byte{0x67}, R: []byte{0x08}},
		{Addr: MagI2CAddr, W: []byte{0xE8}, R: []byte{0x10, 0x20, 0x10, 0x20, 0x10, 0x20}},
	})
	if _, err := d.MagneticField(); !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("first call: err = %v, want ErrWouldBlock", err)
	}
	if _, err := d.MagneticField(); !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("second call: err = %v, want ErrWouldBlock", err)
	}
	m, err := d.MagneticField()
	if err != nil {
		t.Fatalf("third call: %v", err)
	}
	want := int32(0x2010) * 150
	if x, y, z := m.NanoTesla(); x != want || y != want || z != want {
		t.Errorf("NanoTesla = %d %d %d, want %d", x, y, z, want)
	}
	donePlayback(t, pb)
}

func TestMagContinuousRoundTrip(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: MagI2CAddr, W: []byte{0x60, 0x00}},
		{Addr: MagI2CAddr, W: []byte{0xE8}, R: []byte{0x10, 0x20, 0x10, 0x20, 0x10, 0x20}},
		{Addr: MagI2CAddr, W: []byte{0x60, 0x03}},
	})
	c, err := d.IntoMagContinuous()
	if err != nil {
		t.Fatalf("IntoMagContinuous: %v", err)
	}
	// Continuous mode reads unconditionally, no status poll.
	m, err := c.MagneticField()
	if err != nil {
		t.Fatalf("MagneticField: %v", err)
	}
	if x, _, _ := m.NanoTesla(); x != int32(0x2010)*150 {
		t.Errorf("NanoTesla x = %d", x)
	}
	if _, err := c.IntoMagOneShot(); err != nil {
		t.Fatalf("IntoMagOneShot: %v", err)
	}
	donePlayback(t, pb)
}

func TestMagModeChangeFailureKeepsHandle(t *testing.T) {
	bus := &flakyBus{failures: 1}
	d := NewI2C(bus)
	d.SetSleepFunc(func(time.Duration) {})
	if _, err := d.IntoMagContinuous(); err == nil {
		t.Fatal("IntoMagContinuous should have failed")
	}
	if d.cfgRegAM.bits != defaultCfgRegAM {
		t.Errorf("mirror changed on failed transition: %#x", d.cfgRegAM.bits)
	}
	// The one-shot handle stays usable and a retry succeeds.
	if _, err := d.IntoMagContinuous(); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(bus.writes) != 1 || bus.writes[0][0] != 0x60 || bus.writes[0][1] != 0x00 {
		t.Errorf("retry wrote %v, want [0x60 0x00]", bus.writes)
	}
}

func TestSetMagModeAndODR(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: MagI2CAddr, W: []byte{0x60, 0x1F}},
		{Addr: MagI2CAddr, W: []byte{0x60, 0x07}},
	})
	if err := d.SetMagModeAndODR(MagModeLowPower, MagODR100Hz); err != nil {
		t.Fatalf("SetMagModeAndODR: %v", err)
	}
	if got := d.GetMagMode(); got != MagModeLowPower {
		t.Errorf("GetMagMode = %v, want low-power", got)
	}
	if err := d.SetMagModeAndODR(MagModeHighResolution, MagODR20Hz); err != nil {
		t.Fatalf("SetMagModeAndODR: %v", err)
	}
	if got := d.GetMagMode(); got != MagModeHighResolution {
		t.Errorf("GetMagMode = %v, want high-resolution", got)
	}
	donePlayback(t, pb)
}

func TestSetMagModeAndODRRedundantCallSkipsSettle(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: MagI2CAddr, W: []byte{0x60, 0x07}},
		{Addr: MagI2CAddr, W: []byte{0x60, 0x07}},
	})
	var sleeps []time.Duration
	d.SetSleepFunc(func(dt time.Duration) { sleeps = append(sleeps, dt) })

	if err := d.SetMagModeAndODR(MagModeHighResolution, MagODR20Hz); err != nil {
		t.Fatalf("SetMagModeAndODR: %v", err)
	}
	// Identical mode and rate: the register write repeats but the settling
	// wait must not.
	if err := d.SetMagModeAndODR(MagModeHighResolution, MagODR20Hz); err != nil {
		t.Fatalf("redundant SetMagModeAndODR: %v", err)
	}
	if len(sleeps) != 1 || sleeps[0] != 50*time.Millisecond {
		t.Errorf("sleeps = %v, want [50ms]", sleeps)
	}
	donePlayback(t, pb)
}

func TestMagTemperatureCompensation(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: MagI2CAddr, W: []byte{0x60, 0x83}},
		{Addr: MagI2CAddr, W: []byte{0x60, 0x03}},
	})
	if err := d.EnableMagTemperatureCompensation(); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := d.DisableMagTemperatureCompensation(); err != nil {
		t.Fatalf("disable: %v", err)
	}
	donePlayback(t, pb)
}

func TestMagOffsetCancellation(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		// One-shot needs the one-shot variant bit alongside OFF_CANC.
		{Addr: MagI2CAddr, W: []byte{0x61, 0x12}},
		{Addr: MagI2CAddr, W: []byte{0x61, 0x00}},
		{Addr: MagI2CAddr, W: []byte{0x60, 0x00}},
		{Addr: MagI2CAddr, W: []byte{0x61, 0x02}},
		{Addr: MagI2CAddr, W: []byte{0x61, 0x00}},
	})
	if err := d.EnableMagOffsetCancellation(); err != nil {
		t.Fatalf("enable one-shot: %v", err)
	}
	if err := d.DisableMagOffsetCancellation(); err != nil {
		t.Fatalf("disable one-shot: %v", err)
	}
	c, err := d.IntoMagContinuous()
	if err != nil {
		t.Fatalf("IntoMagContinuous: %v", err)
	}
	if err := c.EnableMagOffsetCancellation(); err != nil {
		t.Fatalf("enable continuous: %v", err)
	}
	if err := c.DisableMagOffsetCancellation(); err != nil {
		t.Fatalf("disable continuous: %v", err)
	}
	donePlayback(t, pb)
}

func TestMagLowPassFilter(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: MagI2CAddr, W: []byte{0x61, 0x01}},
		{Addr: MagI2CAddr, W: []byte{0x61, 0x00}},
	})
	if err := d.EnableMagLowPassFilter(); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := d.DisableMagLowPassFilter(); err != nil {
		t.Fatalf("disable: %v", err)
	}
	donePlayback(t, pb)
}

func TestMagDataReadyPin(t *testing.T) {
	d, pb := newTestDev(t, []i2ctest.IO{
		{Addr: MagI2CAddr, W: []byte{0x62, 0x01}},
		{Addr: MagI2CAddr, W: []byte{0x62, 0x00}},
	})
	if err := d.EnableMagDataReadyPin(); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := d.DisableMagDataReadyPin(); err != nil {
		t.Fatalf("disable: %v", err)
	}
	donePlayback(t, pb)
}

func TestMagTurnOnTime(t *testing.T) {
	cases := []struct {
		name     string
		old, new MagMode
		odr      MagOutputDataRate
		want     time.Duration
	}{
		{"to low-power", MagModeHighResolution, MagModeLowPower, MagODR10Hz, 9400 * time.Microsecond},
		{"to high-resolution", MagModeLowPower, MagModeHighResolution, MagODR10Hz, 6400 * time.Microsecond},
		{"rate-only 10Hz", MagModeHighResolution, MagModeHighResolution, MagODR10Hz, 100 * time.Millisecond},
		{"rate-only 100Hz", MagModeLowPower, MagModeLowPower, MagODR100Hz, 10 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := magTurnOnTime(tc.old, tc.new, tc.odr); got != tc.want {
			t.Errorf("%s: magTurnOnTime = %v, want %v", tc.name, got, tc.want)
		}
	}
}
