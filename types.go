// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm303agr

import "errors"

// ErrWouldBlock is returned by Dev.MagneticField while a one-shot measurement
// is pending. It is a control-flow signal, not a failure: call again later.
var ErrWouldBlock = errors.New("lsm303agr: magnetometer measurement not ready yet")

// ErrIncompatibleODRMode is returned when a requested power mode and output
// data rate cannot be combined. No bus traffic has occurred when it is
// returned.
var ErrIncompatibleODRMode = errors.New("lsm303agr: output data rate incompatible with power mode")

// AccelMode is the accelerometer power/resolution mode.
type AccelMode int

const (
	// AccelModePowerDown disables sampling entirely.
	AccelModePowerDown AccelMode = iota
	// AccelModeLowPower yields 8-bit samples.
	AccelModeLowPower
	// AccelModeNormal yields 10-bit samples.
	AccelModeNormal
	// AccelModeHighResolution yields 12-bit samples.
	AccelModeHighResolution
)

func (m AccelMode) String() string {
	switch m {
	case AccelModePowerDown:
		return "power-down"
	case AccelModeLowPower:
		return "low-power"
	case AccelModeNormal:
		return "normal"
	case AccelModeHighResolution:
		return "high-resolution"
	}
	return "unknown"
}

// resolutionFactor is the divisor applied to the left-justified raw word to
// obtain the unscaled reading at this mode's bit depth.
func (m AccelMode) resolutionFactor() int32 {
	switch m {
	case AccelModeHighResolution:
		return 16 // 12-bit
	case AccelModeNormal:
		return 64 // 10-bit
	case AccelModeLowPower:
		return 256 // 8-bit
	}
	return 1
}

// AccelOutputDataRate is the accelerometer sampling frequency setting.
// The zero value means no rate is configured (powered down).
type AccelOutputDataRate int

const (
	// AccelODRNone means no output data rate is configured.
	AccelODRNone AccelOutputDataRate = iota
	// AccelODR1Hz: 1 Hz (all modes).
	AccelODR1Hz
	// AccelODR10Hz: 10 Hz (all modes).
	AccelODR10Hz
	// AccelODR25Hz: 25 Hz (all modes).
	AccelODR25Hz
	// AccelODR50Hz: 50 Hz (all modes).
	AccelODR50Hz
	// AccelODR100Hz: 100 Hz (all modes).
	AccelODR100Hz
	// AccelODR200Hz: 200 Hz (all modes).
	AccelODR200Hz
	// AccelODR400Hz: 400 Hz (all modes).
	AccelODR400Hz
	// AccelODR1344Hz: 1.344 kHz (high-resolution/normal only).
	AccelODR1344Hz
	// AccelODR1620HzLowPower: 1.620 kHz (low-power only).
	AccelODR1620HzLowPower
	// AccelODR5376HzLowPower: 5.376 kHz (low-power only).
	AccelODR5376HzLowPower
)

// rateBits returns the CTRL_REG1_A rate nibble (already shifted), whether the
// rate is defined only for low-power mode, and whether it is compatible with
// low-power mode at all.
func (r AccelOutputDataRate) rateBits() (mask byte, lpOnly, lpCompat bool) {
	switch r {
	case AccelODR1Hz:
		return 1 << odrShiftA, false, true
	case AccelODR10Hz:
		return 2 << odrShiftA, false, true
	case AccelODR25Hz:
		return 3 << odrShiftA, false, true
	case AccelODR50Hz:
		return 4 << odrShiftA, false, true
	case AccelODR100Hz:
		return 5 << odrShiftA, false, true
	case AccelODR200Hz:
		return 6 << odrShiftA, false, true
	case AccelODR400Hz:
		return 7 << odrShiftA, false, true
	case AccelODR1620HzLowPower:
		return 8 << odrShiftA, true, true
	case AccelODR1344Hz:
		return 9 << odrShiftA, false, false
	case AccelODR5376HzLowPower:
		return 9 << odrShiftA, true, true
	}
	return 0, false, true
}

// Hertz returns the configured rate in Hz, rounded down for the fractional
// kHz settings. Zero for AccelODRNone.
func (r AccelOutputDataRate) Hertz() int {
	switch r {
	case AccelODR1Hz:
		return 1
	case AccelODR10Hz:
		return 10
	case AccelODR25Hz:
		return 25
	case AccelODR50Hz:
		return 50
	case AccelODR100Hz:
		return 100
	case AccelODR200Hz:
		return 200
	case AccelODR400Hz:
		return 400
	case AccelODR1344Hz:
		return 1344
	case AccelODR1620HzLowPower:
		return 1620
	case AccelODR5376HzLowPower:
		return 5376
	}
	return 0
}

// AccelODRFromHertz maps an integer frequency to the matching rate setting.
// The second return value is false if the chip has no such setting.
func AccelODRFromHertz(hz int) (AccelOutputDataRate, bool) {
	for r := AccelODR1Hz; r <= AccelODR5376HzLowPower; r++ {
		if r.Hertz() == hz {
			return r, true
		}
	}
	return AccelODRNone, false
}

// AccelScale is the accelerometer full-scale range.
type AccelScale int

const (
	// AccelScale2G: ±2g.
	AccelScale2G AccelScale = iota
	// AccelScale4G: ±4g.
	AccelScale4G
	// AccelScale8G: ±8g.
	AccelScale8G
	// AccelScale16G: ±16g.
	AccelScale16G
)

func (s AccelScale) String() string {
	switch s {
	case AccelScale2G:
		return "±2g"
	case AccelScale4G:
		return "±4g"
	case AccelScale8G:
		return "±8g"
	case AccelScale16G:
		return "±16g"
	}
	return "unknown"
}

// RangeG returns the full-scale range in g.
func (s AccelScale) RangeG() int {
	switch s {
	case AccelScale4G:
		return 4
	case AccelScale8G:
		return 8
	case AccelScale16G:
		return 16
	}
	return 2
}

func (s AccelScale) fsBits() byte {
	return byte(s) << fsShiftA
}

// MagMode is the magnetometer power mode. Acquisition mode (one-shot vs.
// continuous) is a property of the handle type, not of this enum.
type MagMode int

const (
	// MagModeHighResolution is the default power mode.
	MagModeHighResolution MagMode = iota
	// MagModeLowPower trades noise for power.
	MagModeLowPower
)

func (m MagMode) String() string {
	if m == MagModeLowPower {
		return "low-power"
	}
	return "high-resolution"
}

// MagOutputDataRate is the magnetometer sampling frequency setting.
type MagOutputDataRate int

const (
	// MagODR10Hz: 10 Hz.
	MagODR10Hz MagOutputDataRate = iota
	// MagODR20Hz: 20 Hz.
	MagODR20Hz
	// MagODR50Hz: 50 Hz.
	MagODR50Hz
	// MagODR100Hz: 100 Hz.
	MagODR100Hz
)

// Hertz returns the configured rate in Hz.
func (r MagOutputDataRate) Hertz() int {
	switch r {
	case MagODR20Hz:
		return 20
	case MagODR50Hz:
		return 50
	case MagODR100Hz:
		return 100
	}
	return 10
}

// MagODRFromHertz maps an integer frequency to the matching rate setting.
func MagODRFromHertz(hz int) (MagOutputDataRate, bool) {
	switch hz {
	case 10:
		return MagODR10Hz, true
	case 20:
		return MagODR20Hz, true
	case 50:
		return MagODR50Hz, true
	case 100:
		return MagODR100Hz, true
	}
	return MagODR10Hz, false
}

func (r MagOutputDataRate) odrBits() byte {
	return byte(r) << magODRShift
}

// FifoMode selects the accelerometer FIFO behavior.
type FifoMode int

const (
	// FifoModeBypass disables the FIFO.
	FifoModeBypass FifoMode = iota
	// FifoModeFIFO stops collecting when full.
	FifoModeFIFO
	// FifoModeStream overwrites the oldest sample when full.
	FifoModeStream
	// FifoModeStreamToFIFO switches from stream to FIFO on interrupt.
	FifoModeStreamToFIFO
)

// Interrupt identifies one of the accelerometer INT1 interrupt sources in
// CTRL_REG3_A.
type Interrupt byte

const (
	// InterruptClick: click detection.
	InterruptClick Interrupt = flagI1Click
	// InterruptAOI1: AOI function 1.
	InterruptAOI1 Interrupt = flagI1AOI1
	// InterruptAOI2: AOI function 2.
	InterruptAOI2 Interrupt = flagI1AOI2
	// InterruptDataReady1: data ready signal 1.
	InterruptDataReady1 Interrupt = flagI1DrdY1
	// InterruptDataReady2: data ready signal 2.
	InterruptDataReady2 Interrupt = flagI1DrdY2
	// InterruptFifoWatermark: FIFO watermark.
	InterruptFifoWatermark Interrupt = flagI1WTM
	// InterruptFifoOverrun: FIFO overrun.
	InterruptFifoOverrun Interrupt = flagI1Overrun
)
