// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package lsm303agr is a register-level driver for the ST LSM303AGR
// accelerometer + magnetometer, reachable over I2C or SPI through the
// periph.io conn abstractions.
//
// The driver keeps an in-memory mirror of every writable control register and
// computes read-modify-write updates from the mirror instead of querying the
// chip. A failed bus write never updates the mirror, so after a
// communication error the in-memory state still describes the last committed
// register values.
//
// The magnetometer starts in one-shot acquisition mode. IntoMagContinuous
// returns a MagContinuousDev handle exposing the continuous-mode operations;
// the one-shot handle must not be used after a successful transition.
package lsm303agr

import (
	"encoding/binary"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"
)

// Dev is a handle to an LSM303AGR with the magnetometer in one-shot mode.
// It is not safe for concurrent use; callers needing shared access must
// serialize externally, since mirror updates are not atomic with bus writes.
type Dev struct {
	bus   transport
	sleep func(time.Duration)

	// Mirrors of the writable control registers.
	ctrlReg1A    config
	ctrlReg3A    config
	ctrlReg4A    config
	ctrlReg5A    config
	fifoCtrlRegA config
	tempCfgRegA  config
	cfgRegAM     config
	cfgRegBM     config
	cfgRegCM     config

	// Configured accelerometer rate; AccelODRNone when powered down.
	accelODR AccelOutputDataRate
}

// MagContinuousDev is a handle to the same device with the magnetometer in
// continuous mode. The embedded Dev provides all accelerometer and
// temperature operations; the magnetometer operations whose behavior differs
// per acquisition mode are shadowed here.
type MagContinuousDev struct {
	*Dev
}

func newDev(bus transport) *Dev {
	return &Dev{
		bus:       bus,
		sleep:     time.Sleep,
		ctrlReg1A: config{bits: defaultReg1A},
		cfgRegAM:  config{bits: defaultCfgRegAM},
	}
}

// NewI2C returns a driver handle communicating over the given I2C bus. No
// chip I/O happens until Init or the first operation.
func NewI2C(bus i2c.Bus) *Dev {
	return newDev(newI2CTransport(bus))
}

// NewSPI returns a driver handle communicating over SPI. The two chip-select
// pins frame transactions for the accelerometer and magnetometer sub-blocks
// respectively.
func NewSPI(p spi.Port, accelCS, magCS gpio.PinOut) (*Dev, error) {
	conn, err := p.Connect(spiFrequency, spiMode, spiBits)
	if err != nil {
		return nil, err
	}
	return newDev(&spiTransport{conn: conn, accelCS: accelCS, magCS: magCS}), nil
}

// SetSleepFunc replaces the delay hook used to honor the chip's settling
// times after mode and rate changes. The default is time.Sleep.
func (d *Dev) SetSleepFunc(f func(time.Duration)) {
	d.sleep = f
}

// writeAccelConfig writes an accelerometer control register and commits the
// mirror only on success.
func (d *Dev) writeAccelConfig(reg byte, mirror *config, val config) error {
	if err := d.bus.writeAccel(reg, val.bits); err != nil {
		return err
	}
	*mirror = val
	return nil
}

// writeMagConfig writes a magnetometer control register and commits the
// mirror only on success.
func (d *Dev) writeMagConfig(reg byte, mirror *config, val config) error {
	if err := d.bus.writeMag(reg, val.bits); err != nil {
		return err
	}
	*mirror = val
	return nil
}

// Init configures block data update for both sub-sensors and enables the
// temperature sensor. Call once after construction and after any chip reset;
// register state is not persisted across power cycles.
func (d *Dev) Init() error {
	if err := d.writeAccelConfig(regCtrlReg4A, &d.ctrlReg4A, d.ctrlReg4A.withHigh(flagAccelBDU)); err != nil {
		return err
	}
	if err := d.writeAccelConfig(regTempCfgRegA, &d.tempCfgRegA, d.tempCfgRegA.withHigh(flagTempEn)); err != nil {
		return err
	}
	return d.writeMagConfig(regCfgRegCM, &d.cfgRegCM, d.cfgRegCM.withHigh(flagMagBDU))
}

// AccelerometerID reads WHO_AM_I_A. The expected value is AccelID.
func (d *Dev) AccelerometerID() (byte, error) {
	return d.bus.readAccel(regWhoAmIA)
}

// MagnetometerID reads WHO_AM_I_M. The expected value is MagID.
func (d *Dev) MagnetometerID() (byte, error) {
	return d.bus.readMag(regWhoAmIM)
}

// AccelStatus reads and decodes STATUS_REG_A.
func (d *Dev) AccelStatus() (Status, error) {
	b, err := d.bus.readAccel(regStatusRegA)
	if err != nil {
		return Status{}, err
	}
	return newStatus(b), nil
}

// MagStatus reads and decodes STATUS_REG_M.
func (d *Dev) MagStatus() (Status, error) {
	b, err := d.bus.readMag(regStatusRegM)
	if err != nil {
		return Status{}, err
	}
	return newStatus(b), nil
}

// Temperature reads the temperature sensor. The sensor must have been
// enabled by Init and the accelerometer must be sampling.
func (d *Dev) Temperature() (Temperature, error) {
	var buf [2]byte
	if err := d.bus.readAccelBlock(regOutTempLA, buf[:]); err != nil {
		return Temperature{}, err
	}
	return Temperature{raw: int16(binary.LittleEndian.Uint16(buf[:]))}, nil
}

// TemperatureStatus reads and decodes STATUS_REG_AUX_A.
func (d *Dev) TemperatureStatus() (TemperatureStatus, error) {
	b, err := d.bus.readAccel(regStatusRegAuxA)
	if err != nil {
		return TemperatureStatus{}, err
	}
	return newTemperatureStatus(b), nil
}

// Halt powers down the accelerometer and idles the magnetometer. The bus
// remains owned by the caller and can be reused afterwards.
func (d *Dev) Halt() error {
	if err := d.SetAccelMode(AccelModePowerDown); err != nil {
		return err
	}
	return d.writeMagConfig(regCfgRegAM, &d.cfgRegAM,
		config{bits: d.cfgRegAM.bits&^magModeMask | magModeIdle})
}

// Halt powers down both sub-sensors. The returned handle semantics match
// Dev.Halt; the magnetometer leaves continuous mode as a side effect.
func (c *MagContinuousDev) Halt() error {
	return c.Dev.Halt()
}

// ReadAccelRegister reads a raw accelerometer-block register. Debug use.
func (d *Dev) ReadAccelRegister(addr byte) (byte, error) {
	return d.bus.readAccel(addr)
}

// ReadMagRegister reads a raw magnetometer-block register. Debug use.
func (d *Dev) ReadMagRegister(addr byte) (byte, error) {
	return d.bus.readMag(addr)
}

// WriteAccelRegister writes a raw accelerometer-block register, bypassing the
// mirror. Debug use only: subsequent read-modify-write operations are based
// on the mirror and will not see this write. Call Init to resynchronize.
func (d *Dev) WriteAccelRegister(addr, value byte) error {
	return d.bus.writeAccel(addr, value)
}

// WriteMagRegister writes a raw magnetometer-block register, bypassing the
// mirror. Debug use only.
func (d *Dev) WriteMagRegister(addr, value byte) error {
	return d.bus.writeMag(addr, value)
}
