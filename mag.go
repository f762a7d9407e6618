// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm303agr

import (
	"time"
)

// magTurnOnTime is the settling delay after a magnetometer configuration
// change. A mode change uses the datasheet turn-on figure for the target
// mode; a rate-only change waits one output period.
func magTurnOnTime(old, new MagMode, odr MagOutputDataRate) time.Duration {
	if old != new {
		if new == MagModeLowPower {
			return 9400 * time.Microsecond
		}
		return 6400 * time.Microsecond
	}
	return time.Second / time.Duration(odr.Hertz())
}

// GetMagMode derives the magnetometer power mode from the register mirror.
// No bus traffic.
func (d *Dev) GetMagMode() MagMode {
	if d.cfgRegAM.isHigh(flagMagLP) {
		return MagModeLowPower
	}
	return MagModeHighResolution
}

// SetMagModeAndODR changes the magnetometer power mode and data rate with a
// single settling delay. The system mode bits (continuous/one-shot/idle) are
// preserved. The delay is skipped when neither the effective mode nor the
// rate changed.
func (d *Dev) SetMagModeAndODR(mode MagMode, odr MagOutputDataRate) error {
	old := d.GetMagMode()
	prev := d.cfgRegAM.bits
	bits := prev &^ (flagMagLP | magODRMask)
	if mode == MagModeLowPower {
		bits |= flagMagLP
	}
	bits |= odr.odrBits()
	if err := d.writeMagConfig(regCfgRegAM, &d.cfgRegAM, config{bits: bits}); err != nil {
		return err
	}
	if bits != prev {
		d.sleep(magTurnOnTime(old, mode, odr))
	}
	return nil
}

// IntoMagContinuous switches the magnetometer into continuous acquisition and
// returns the continuous-mode handle. On error the receiver is unchanged and
// remains usable. The receiver must not be used after a successful switch.
func (d *Dev) IntoMagContinuous() (*MagContinuousDev, error) {
	cfg := config{bits: d.cfgRegAM.bits&^magModeMask | magModeContinuous}
	if err := d.writeMagConfig(regCfgRegAM, &d.cfgRegAM, cfg); err != nil {
		return nil, err
	}
	return &MagContinuousDev{Dev: d}, nil
}

// IntoMagOneShot switches the magnetometer back to one-shot acquisition by
// idling it and returns the one-shot handle. On error the receiver is
// unchanged and remains usable.
func (c *MagContinuousDev) IntoMagOneShot() (*Dev, error) {
	cfg := config{bits: c.cfgRegAM.bits&^magModeMask | magModeIdle}
	if err := c.writeMagConfig(regCfgRegAM, &c.cfgRegAM, cfg); err != nil {
		return nil, err
	}
	return c.Dev, nil
}

// MagneticField polls a one-shot measurement. The first call triggers a
// single measurement and returns ErrWouldBlock; later calls return
// ErrWouldBlock until the data is ready, then deliver the sample. The chip
// returns to idle by itself after each measurement, so every completed read
// requires a new trigger.
func (d *Dev) MagneticField() (MagneticField, error) {
	status, err := d.MagStatus()
	if err != nil {
		return MagneticField{}, err
	}
	if status.XYZNewData {
		return d.readMagField()
	}
	// The MD bits must come from the chip, not the mirror: the chip idles
	// itself once the measurement completes.
	cfg, err := d.bus.readMag(regCfgRegAM)
	if err != nil {
		return MagneticField{}, err
	}
	if cfg&magModeMask != magModeSingle {
		// Trigger. The mirror is not committed because the chip reverts to
		// idle on its own.
		trigger := d.cfgRegAM.bits&^magModeMask | magModeSingle
		if err := d.bus.writeMag(regCfgRegAM, trigger); err != nil {
			return MagneticField{}, err
		}
	}
	return MagneticField{}, ErrWouldBlock
}

// MagneticField reads the latest continuous-mode sample. The chip refreshes
// the output registers on its own, so this is a single unconditional read.
func (c *MagContinuousDev) MagneticField() (MagneticField, error) {
	return c.readMagField()
}

func (d *Dev) readMagField() (MagneticField, error) {
	var buf [6]byte
	if err := d.bus.readMagBlock(regOutXLRegM, buf[:]); err != nil {
		return MagneticField{}, err
	}
	x, y, z := decodeXYZ(buf[:])
	return MagneticField{x: x, y: y, z: z}, nil
}

// EnableMagOffsetCancellation enables hard-iron offset cancellation. In
// one-shot acquisition the chip additionally needs the one-shot variant bit.
func (d *Dev) EnableMagOffsetCancellation() error {
	return d.writeMagConfig(regCfgRegBM, &d.cfgRegBM,
		d.cfgRegBM.withHigh(flagMagOffCanc|flagMagOffCancOneShot))
}

// DisableMagOffsetCancellation disables hard-iron offset cancellation.
func (d *Dev) DisableMagOffsetCancellation() error {
	return d.writeMagConfig(regCfgRegBM, &d.cfgRegBM,
		d.cfgRegBM.withLow(flagMagOffCanc|flagMagOffCancOneShot))
}

// EnableMagOffsetCancellation enables hard-iron offset cancellation for
// continuous acquisition.
func (c *MagContinuousDev) EnableMagOffsetCancellation() error {
	return c.writeMagConfig(regCfgRegBM, &c.cfgRegBM,
		c.cfgRegBM.withHigh(flagMagOffCanc))
}

// DisableMagOffsetCancellation disables hard-iron offset cancellation.
func (c *MagContinuousDev) DisableMagOffsetCancellation() error {
	return c.writeMagConfig(regCfgRegBM, &c.cfgRegBM,
		c.cfgRegBM.withLow(flagMagOffCanc))
}

// EnableMagLowPassFilter enables the output low-pass filter, halving the
// output bandwidth.
func (d *Dev) EnableMagLowPassFilter() error {
	return d.writeMagConfig(regCfgRegBM, &d.cfgRegBM, d.cfgRegBM.withHigh(flagMagLPF))
}

// DisableMagLowPassFilter disables the output low-pass filter.
func (d *Dev) DisableMagLowPassFilter() error {
	return d.writeMagConfig(regCfgRegBM, &d.cfgRegBM, d.cfgRegBM.withLow(flagMagLPF))
}

// EnableMagTemperatureCompensation enables temperature compensation of the
// magnetometer output. The datasheet recommends leaving it enabled.
func (d *Dev) EnableMagTemperatureCompensation() error {
	return d.writeMagConfig(regCfgRegAM, &d.cfgRegAM, d.cfgRegAM.withHigh(flagMagCompTempEn))
}

// DisableMagTemperatureCompensation disables temperature compensation.
func (d *Dev) DisableMagTemperatureCompensation() error {
	return d.writeMagConfig(regCfgRegAM, &d.cfgRegAM, d.cfgRegAM.withLow(flagMagCompTempEn))
}

// EnableMagDataReadyPin drives the magnetometer data-ready signal on the
// INT_MAG pin.
func (d *Dev) EnableMagDataReadyPin() error {
	return d.writeMagConfig(regCfgRegCM, &d.cfgRegCM, d.cfgRegCM.withHigh(flagMagInt))
}

// DisableMagDataReadyPin stops driving the data-ready signal.
func (d *Dev) DisableMagDataReadyPin() error {
	return d.writeMagConfig(regCfgRegCM, &d.cfgRegCM, d.cfgRegCM.withLow(flagMagInt))
}
