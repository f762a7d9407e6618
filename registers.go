// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm303agr

// Accelerometer block register addresses.
const (
	regStatusRegAuxA = 0x07
	regOutTempLA     = 0x0C
	regWhoAmIA       = 0x0F
	regTempCfgRegA   = 0x1F
	regCtrlReg1A     = 0x20
	regCtrlReg3A     = 0x22
	regCtrlReg4A     = 0x23
	regCtrlReg5A     = 0x24
	regStatusRegA    = 0x27
	regOutXLA        = 0x28
	regFifoCtrlRegA  = 0x2E
)

// Magnetometer block register addresses.
const (
	regWhoAmIM    = 0x4F
	regCfgRegAM   = 0x60
	regCfgRegBM   = 0x61
	regCfgRegCM   = 0x62
	regStatusRegM = 0x67
	regOutXLRegM  = 0x68
)

// WHO_AM_I values for device-presence verification.
const (
	// AccelID is the fixed WHO_AM_I_A value.
	AccelID = 0x33
	// MagID is the fixed WHO_AM_I_M value.
	MagID = 0x40
)

// CTRL_REG1_A bits.
const (
	flagLPEn     = 1 << 3
	flagZEn      = 1 << 2
	flagYEn      = 1 << 1
	flagXEn      = 1 << 0
	odrShiftA    = 4
	odrMaskA     = 0xF << odrShiftA
	axesMaskA    = flagXEn | flagYEn | flagZEn
	defaultReg1A = axesMaskA // X/Y/Z enabled at power-up
)

// CTRL_REG3_A interrupt bits.
const (
	flagI1Click   = 1 << 7
	flagI1AOI1    = 1 << 6
	flagI1AOI2    = 1 << 5
	flagI1DrdY1   = 1 << 4
	flagI1DrdY2   = 1 << 3
	flagI1WTM     = 1 << 2
	flagI1Overrun = 1 << 1
)

// CTRL_REG4_A bits.
const (
	flagAccelBDU = 1 << 7
	flagHR       = 1 << 3
	fsShiftA     = 4
	fsMaskA      = 0x3 << fsShiftA
)

// CTRL_REG5_A bits.
const flagFifoEn = 1 << 6

// FIFO_CTRL_REG_A layout: mode in bits 7:6, threshold in bits 4:0.
const (
	fifoModeShift = 6
	fifoThrMask   = 0x1F
)

// TEMP_CFG_REG_A bits. Both bits must be set to enable the sensor.
const flagTempEn = 0xC0

// CFG_REG_A_M bits. MD (bits 1:0) selects the system mode: 00 continuous,
// 01 single measurement, 10/11 idle.
const (
	flagMagCompTempEn = 1 << 7
	flagMagLP         = 1 << 4
	magODRShift       = 2
	magODRMask        = 0x3 << magODRShift
	magModeMask       = 0x3
	magModeContinuous = 0x0
	magModeSingle     = 0x1
	magModeIdle       = 0x3
	defaultCfgRegAM   = magModeIdle // chip powers up idle
)

// CFG_REG_B_M bits.
const (
	flagMagOffCanc        = 1 << 1
	flagMagOffCancOneShot = 1 << 4
	flagMagLPF            = 1 << 0
)

// CFG_REG_C_M bits.
const (
	flagMagBDU = 1 << 4
	flagMagInt = 1 << 0
)

// STATUS_REG_AUX_A bits.
const (
	flagTOR = 1 << 6
	flagTDA = 1 << 2
)

// config is the in-memory mirror of one writable control register. It must
// always equal what was last successfully written to the chip; a failed write
// leaves it untouched.
type config struct {
	bits byte
}

func (c config) withHigh(mask byte) config { return config{bits: c.bits | mask} }
func (c config) withLow(mask byte) config  { return config{bits: c.bits &^ mask} }
func (c config) isHigh(mask byte) bool     { return c.bits&mask != 0 }

// Status holds the decoded data-ready/overrun bits of STATUS_REG_A or
// STATUS_REG_M. Both registers share the same layout.
type Status struct {
	XYZOverrun bool
	XOverrun   bool
	YOverrun   bool
	ZOverrun   bool
	XYZNewData bool
	XNewData   bool
	YNewData   bool
	ZNewData   bool
}

func newStatus(b byte) Status {
	return Status{
		XYZOverrun: b&(1<<7) != 0,
		ZOverrun:   b&(1<<6) != 0,
		YOverrun:   b&(1<<5) != 0,
		XOverrun:   b&(1<<4) != 0,
		XYZNewData: b&(1<<3) != 0,
		ZNewData:   b&(1<<2) != 0,
		YNewData:   b&(1<<1) != 0,
		XNewData:   b&(1<<0) != 0,
	}
}

// TemperatureStatus holds the decoded bits of STATUS_REG_AUX_A.
type TemperatureStatus struct {
	Overrun bool
	NewData bool
}

func newTemperatureStatus(b byte) TemperatureStatus {
	return TemperatureStatus{
		Overrun: b&flagTOR != 0,
		NewData: b&flagTDA != 0,
	}
}
