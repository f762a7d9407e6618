// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm303agr

import (
	"time"
)

// checkAccelModeODR validates a power mode / data rate pairing. The 1.620 kHz
// and 5.376 kHz rates only exist in low-power mode, and 1.344 kHz does not
// exist in low-power mode. Power-down is compatible with everything.
func checkAccelModeODR(mode AccelMode, odr AccelOutputDataRate) error {
	_, lpOnly, lpCompat := odr.rateBits()
	switch mode {
	case AccelModeLowPower:
		if !lpCompat {
			return ErrIncompatibleODRMode
		}
	case AccelModeNormal, AccelModeHighResolution:
		if lpOnly {
			return ErrIncompatibleODRMode
		}
	}
	return nil
}

// accelTurnOnTime is the settling delay after a mode or rate change, per the
// datasheet turn-on figures. hz of zero (no rate configured) needs no wait.
func accelTurnOnTime(old, new AccelMode, odr AccelOutputDataRate) time.Duration {
	hz := odr.Hertz()
	if new == AccelModePowerDown || hz == 0 {
		return 0
	}
	switch {
	case new == AccelModeHighResolution && old != AccelModeHighResolution:
		return time.Duration(7_000_000/hz) * time.Microsecond
	case old == AccelModePowerDown && new == AccelModeLowPower:
		return 1000 * time.Microsecond
	case old == AccelModePowerDown && new == AccelModeNormal:
		return 1600 * time.Microsecond
	}
	return time.Duration(1_000_000/hz) * time.Microsecond
}

// GetAccelMode derives the current power mode from the register mirrors. No
// bus traffic.
func (d *Dev) GetAccelMode() AccelMode {
	switch {
	case d.ctrlReg1A.bits&odrMaskA == 0:
		return AccelModePowerDown
	case d.ctrlReg4A.isHigh(flagHR):
		return AccelModeHighResolution
	case d.ctrlReg1A.isHigh(flagLPEn):
		return AccelModeLowPower
	}
	return AccelModeNormal
}

// GetAccelODR returns the configured data rate, AccelODRNone when powered
// down.
func (d *Dev) GetAccelODR() AccelOutputDataRate {
	return d.accelODR
}

// SetAccelMode changes the accelerometer power mode, keeping the configured
// data rate. Returns ErrIncompatibleODRMode without any bus traffic when the
// configured rate does not exist in the requested mode.
//
// The write ordering guarantees the chip never sees low-power and
// high-resolution enabled at the same time.
func (d *Dev) SetAccelMode(mode AccelMode) error {
	if err := checkAccelModeODR(mode, d.accelODR); err != nil {
		return err
	}
	old := d.GetAccelMode()
	switch mode {
	case AccelModeHighResolution:
		if err := d.writeAccelConfig(regCtrlReg1A, &d.ctrlReg1A, d.ctrlReg1A.withLow(flagLPEn)); err != nil {
			return err
		}
		if err := d.writeAccelConfig(regCtrlReg4A, &d.ctrlReg4A, d.ctrlReg4A.withHigh(flagHR)); err != nil {
			return err
		}
	case AccelModeNormal:
		if err := d.writeAccelConfig(regCtrlReg1A, &d.ctrlReg1A, d.ctrlReg1A.withLow(flagLPEn)); err != nil {
			return err
		}
		if err := d.writeAccelConfig(regCtrlReg4A, &d.ctrlReg4A, d.ctrlReg4A.withLow(flagHR)); err != nil {
			return err
		}
	case AccelModeLowPower:
		if err := d.writeAccelConfig(regCtrlReg4A, &d.ctrlReg4A, d.ctrlReg4A.withLow(flagHR)); err != nil {
			return err
		}
		if err := d.writeAccelConfig(regCtrlReg1A, &d.ctrlReg1A, d.ctrlReg1A.withHigh(flagLPEn)); err != nil {
			return err
		}
	case AccelModePowerDown:
		// Only the rate nibble is cleared; the LP bit keeps its value so
		// the previous mode is restored by the next rate write.
		if err := d.writeAccelConfig(regCtrlReg1A, &d.ctrlReg1A, d.ctrlReg1A.withLow(odrMaskA)); err != nil {
			return err
		}
		d.accelODR = AccelODRNone
	}
	d.sleep(accelTurnOnTime(old, mode, d.accelODR))
	return nil
}

// SetAccelODR changes the accelerometer data rate. Rates that only exist in
// one power mode adjust the mode as a side effect: the low-power-only rates
// switch the device into low-power mode, and 1.344 kHz leaves low-power mode.
func (d *Dev) SetAccelODR(odr AccelOutputDataRate) error {
	mask, lpOnly, lpCompat := odr.rateBits()
	old := d.GetAccelMode()
	var lpFlag byte
	switch {
	case d.ctrlReg1A.isHigh(flagLPEn) && !lpCompat:
		lpFlag = 0
	case d.ctrlReg1A.isHigh(flagLPEn):
		lpFlag = flagLPEn
	case lpOnly:
		// Low-power and high-resolution are mutually exclusive; drop HR
		// before raising the LP bit.
		if err := d.writeAccelConfig(regCtrlReg4A, &d.ctrlReg4A, d.ctrlReg4A.withLow(flagHR)); err != nil {
			return err
		}
		lpFlag = flagLPEn
	}
	reg1 := config{bits: d.ctrlReg1A.bits&^(flagLPEn|odrMaskA) | mask | lpFlag}
	if err := d.writeAccelConfig(regCtrlReg1A, &d.ctrlReg1A, reg1); err != nil {
		return err
	}
	d.accelODR = odr
	d.sleep(accelTurnOnTime(old, d.GetAccelMode(), odr))
	return nil
}

// SetAccelModeAndODR changes power mode and data rate together with a single
// settling delay. Returns ErrIncompatibleODRMode without any bus traffic when
// the pairing is invalid.
func (d *Dev) SetAccelModeAndODR(mode AccelMode, odr AccelOutputDataRate) error {
	if err := checkAccelModeODR(mode, odr); err != nil {
		return err
	}
	old := d.GetAccelMode()
	if mode == AccelModePowerDown {
		if err := d.writeAccelConfig(regCtrlReg1A, &d.ctrlReg1A, d.ctrlReg1A.withLow(odrMaskA)); err != nil {
			return err
		}
		d.accelODR = AccelODRNone
		return nil
	}
	// HR must never overlap with a lower-precision mode: clear it before the
	// rate write when leaving, set it after the rate write when entering.
	if old == AccelModeHighResolution && mode != AccelModeHighResolution {
		if err := d.writeAccelConfig(regCtrlReg4A, &d.ctrlReg4A, d.ctrlReg4A.withLow(flagHR)); err != nil {
			return err
		}
	}
	mask, _, _ := odr.rateBits()
	var lpFlag byte
	if mode == AccelModeLowPower {
		lpFlag = flagLPEn
	}
	reg1 := config{bits: d.ctrlReg1A.bits&^(flagLPEn|odrMaskA) | mask | lpFlag}
	if err := d.writeAccelConfig(regCtrlReg1A, &d.ctrlReg1A, reg1); err != nil {
		return err
	}
	if mode == AccelModeHighResolution && old != AccelModeHighResolution {
		if err := d.writeAccelConfig(regCtrlReg4A, &d.ctrlReg4A, d.ctrlReg4A.withHigh(flagHR)); err != nil {
			return err
		}
	}
	d.accelODR = odr
	d.sleep(accelTurnOnTime(old, mode, odr))
	return nil
}

// SetAccelScale sets the full-scale range. Pure mirror update plus one write;
// the chosen scale is carried into subsequent Acceleration decodes.
func (d *Dev) SetAccelScale(s AccelScale) error {
	reg4 := config{bits: d.ctrlReg4A.bits&^fsMaskA | s.fsBits()}
	return d.writeAccelConfig(regCtrlReg4A, &d.ctrlReg4A, reg4)
}

// GetAccelScale returns the configured full-scale range. No bus traffic.
func (d *Dev) GetAccelScale() AccelScale {
	return AccelScale(d.ctrlReg4A.bits & fsMaskA >> fsShiftA)
}

// Acceleration reads one sample. Returns ErrWouldBlock when no new XYZ data
// is available yet.
func (d *Dev) Acceleration() (Acceleration, error) {
	status, err := d.AccelStatus()
	if err != nil {
		return Acceleration{}, err
	}
	if !status.XYZNewData {
		return Acceleration{}, ErrWouldBlock
	}
	var buf [6]byte
	if err := d.bus.readAccelBlock(regOutXLA, buf[:]); err != nil {
		return Acceleration{}, err
	}
	x, y, z := decodeXYZ(buf[:])
	return Acceleration{
		x: x, y: y, z: z,
		mode:  d.GetAccelMode(),
		scale: d.GetAccelScale(),
	}, nil
}

// SetAccelFIFOMode configures the FIFO. Bypass disables the FIFO engine;
// any other mode enables it. The threshold is clamped to the 5-bit field.
func (d *Dev) SetAccelFIFOMode(mode FifoMode, threshold byte) error {
	reg5 := d.ctrlReg5A.withLow(flagFifoEn)
	if mode != FifoModeBypass {
		reg5 = d.ctrlReg5A.withHigh(flagFifoEn)
	}
	if err := d.writeAccelConfig(regCtrlReg5A, &d.ctrlReg5A, reg5); err != nil {
		return err
	}
	ctrl := config{bits: byte(mode)<<fifoModeShift | threshold&fifoThrMask}
	return d.writeAccelConfig(regFifoCtrlRegA, &d.fifoCtrlRegA, ctrl)
}

// EnableAccelInterrupt routes the given interrupt source to the INT1 pin.
func (d *Dev) EnableAccelInterrupt(i Interrupt) error {
	return d.writeAccelConfig(regCtrlReg3A, &d.ctrlReg3A, d.ctrlReg3A.withHigh(byte(i)))
}

// DisableAccelInterrupt removes the given interrupt source from the INT1 pin.
func (d *Dev) DisableAccelInterrupt(i Interrupt) error {
	return d.writeAccelConfig(regCtrlReg3A, &d.ctrlReg3A, d.ctrlReg3A.withLow(byte(i)))
}
