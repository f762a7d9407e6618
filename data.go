// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm303agr

import "encoding/binary"

// decodeXYZ decodes three little-endian 16-bit words.
func decodeXYZ(buf []byte) (x, y, z int16) {
	x = int16(binary.LittleEndian.Uint16(buf[0:2]))
	y = int16(binary.LittleEndian.Uint16(buf[2:4]))
	z = int16(binary.LittleEndian.Uint16(buf[4:6]))
	return x, y, z
}

// Acceleration is one accelerometer sample, tagged with the mode and scale it
// was captured at so conversions stay correct after later reconfiguration.
type Acceleration struct {
	x, y, z int16
	mode    AccelMode
	scale   AccelScale
}

// Raw returns the left-justified register words.
func (a Acceleration) Raw() (x, y, z int16) {
	return a.x, a.y, a.z
}

// Mode returns the power mode the sample was captured at.
func (a Acceleration) Mode() AccelMode {
	return a.mode
}

// Scale returns the full-scale range the sample was captured at.
func (a Acceleration) Scale() AccelScale {
	return a.scale
}

// milliGFactor is the per-LSB weight in milli-g after the raw word has been
// reduced to the mode's native bit depth.
func milliGFactor(mode AccelMode, scale AccelScale) int32 {
	g := int32(scale.RangeG())
	switch mode {
	case AccelModeHighResolution:
		return g / 2
	case AccelModeNormal:
		return g * 2
	case AccelModeLowPower:
		return g * 8
	}
	return 0
}

// Unscaled returns the readings reduced to the capture mode's native bit
// depth. The division happens before scaling so the truncation matches the
// chip's actual resolution.
func (a Acceleration) Unscaled() (x, y, z int32) {
	f := a.mode.resolutionFactor()
	return int32(a.x) / f, int32(a.y) / f, int32(a.z) / f
}

// MilliG returns the readings converted to thousandths of standard gravity.
func (a Acceleration) MilliG() (x, y, z int32) {
	ux, uy, uz := a.Unscaled()
	f := milliGFactor(a.mode, a.scale)
	return ux * f, uy * f, uz * f
}

// MagneticField is one magnetometer sample.
type MagneticField struct {
	x, y, z int16
}

// Raw returns the register words.
func (m MagneticField) Raw() (x, y, z int16) {
	return m.x, m.y, m.z
}

// NanoTesla returns the readings converted to nanotesla. The sensitivity is
// 1.5 mgauss/LSB at every configuration.
func (m MagneticField) NanoTesla() (x, y, z int32) {
	return int32(m.x) * 150, int32(m.y) * 150, int32(m.z) * 150
}

// Temperature is one temperature sample.
type Temperature struct {
	raw int16
}

// Raw returns the register word.
func (t Temperature) Raw() int16 {
	return t.raw
}

// Celsius returns the temperature in degrees Celsius. The sensor reads zero
// at 25 °C with 256 LSB per degree.
func (t Temperature) Celsius() float64 {
	return float64(t.raw)/256 + 25.0
}
