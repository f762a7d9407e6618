// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm303agr

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Fixed 7-bit I2C addresses of the two sub-sensors.
const (
	// AccelI2CAddr is the accelerometer block address.
	AccelI2CAddr = 0x19
	// MagI2CAddr is the magnetometer block address.
	MagI2CAddr = 0x1E
)

// SPI framing bits, OR'ed into the first transferred byte.
const (
	spiRead = 1 << 7 // read transaction
	spiMS   = 1 << 6 // multi-byte address auto-increment
)

// I2C multi-byte reads set the high bit of the register address to enable
// address auto-increment.
const i2cAutoIncrement = 0x80

// transport is the bus transaction layer: it turns register-level operations
// into the exact byte sequences each bus type requires. Transport failures
// are propagated unchanged; the driver never inspects the underlying cause.
type transport interface {
	writeAccel(reg, value byte) error
	writeMag(reg, value byte) error
	readAccel(reg byte) (byte, error)
	readMag(reg byte) (byte, error)
	// readAccelBlock and readMagBlock read len(buf) consecutive registers
	// starting at reg, using the bus's auto-increment convention.
	readAccelBlock(reg byte, buf []byte) error
	readMagBlock(reg byte, buf []byte) error
}

// i2cTransport routes transactions to one of the two fixed device addresses
// depending on the targeted sub-sensor.
type i2cTransport struct {
	accel i2c.Dev
	mag   i2c.Dev
}

func newI2CTransport(bus i2c.Bus) *i2cTransport {
	return &i2cTransport{
		accel: i2c.Dev{Bus: bus, Addr: AccelI2CAddr},
		mag:   i2c.Dev{Bus: bus, Addr: MagI2CAddr},
	}
}

func (t *i2cTransport) writeAccel(reg, value byte) error {
	return t.accel.Tx([]byte{reg, value}, nil)
}

func (t *i2cTransport) writeMag(reg, value byte) error {
	return t.mag.Tx([]byte{reg, value}, nil)
}

func (t *i2cTransport) readAccel(reg byte) (byte, error) {
	var b [1]byte
	if err := t.accel.Tx([]byte{reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (t *i2cTransport) readMag(reg byte) (byte, error) {
	var b [1]byte
	if err := t.mag.Tx([]byte{reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (t *i2cTransport) readAccelBlock(reg byte, buf []byte) error {
	return t.accel.Tx([]byte{reg | i2cAutoIncrement}, buf)
}

func (t *i2cTransport) readMagBlock(reg byte, buf []byte) error {
	return t.mag.Tx([]byte{reg | i2cAutoIncrement}, buf)
}

// spiTransport frames every transaction with an explicit chip-select
// assert/deassert around the transfer. The bus is half-duplex shift-register
// style: a read clocks out the address byte followed by dummy bytes and keeps
// only the trailing response bytes.
type spiTransport struct {
	conn    spi.Conn
	accelCS gpio.PinOut
	magCS   gpio.PinOut
}

func (t *spiTransport) tx(cs gpio.PinOut, w, r []byte) error {
	if err := cs.Out(gpio.Low); err != nil {
		return err
	}
	err := t.conn.Tx(w, r)
	if csErr := cs.Out(gpio.High); err == nil {
		err = csErr
	}
	return err
}

func (t *spiTransport) write(cs gpio.PinOut, reg, value byte) error {
	return t.tx(cs, []byte{reg, value}, nil)
}

func (t *spiTransport) read(cs gpio.PinOut, reg byte) (byte, error) {
	w := []byte{spiRead | reg, 0}
	r := make([]byte, len(w))
	if err := t.tx(cs, w, r); err != nil {
		return 0, err
	}
	return r[1], nil
}

func (t *spiTransport) readBlock(cs gpio.PinOut, reg byte, buf []byte) error {
	w := make([]byte, 1+len(buf))
	w[0] = spiRead | spiMS | reg
	r := make([]byte, len(w))
	if err := t.tx(cs, w, r); err != nil {
		return err
	}
	copy(buf, r[1:])
	return nil
}

func (t *spiTransport) writeAccel(reg, value byte) error { return t.write(t.accelCS, reg, value) }
func (t *spiTransport) writeMag(reg, value byte) error   { return t.write(t.magCS, reg, value) }

func (t *spiTransport) readAccel(reg byte) (byte, error) { return t.read(t.accelCS, reg) }
func (t *spiTransport) readMag(reg byte) (byte, error)   { return t.read(t.magCS, reg) }

func (t *spiTransport) readAccelBlock(reg byte, buf []byte) error {
	return t.readBlock(t.accelCS, reg, buf)
}

func (t *spiTransport) readMagBlock(reg byte, buf []byte) error {
	return t.readBlock(t.magCS, reg, buf)
}

// SPI bus parameters per the datasheet: 10 MHz max, CPOL=1/CPHA=1.
var (
	spiFrequency = 10 * physic.MegaHertz
	spiMode      = spi.Mode3
	spiBits      = 8
)
