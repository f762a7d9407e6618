// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/relabs-tech/lsm303agr"
	"github.com/relabs-tech/lsm303agr/internal/accelmag"
	"github.com/relabs-tech/lsm303agr/internal/config"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Manager owns the single LSM303AGR device and serializes all access to it.
// The driver handle is not safe for concurrent use, so every read and every
// raw register operation goes through the manager's mutex.
type Manager struct {
	mu        sync.Mutex
	dev       *lsm303agr.Dev
	cont      *lsm303agr.MagContinuousDev
	available bool
}

// Package-level unexported variables for singleton pattern:
//   - sensorManager: unexported so other packages cannot bypass the mutex.
//   - managerOnce: ensures GetManager() constructs the manager exactly once.
//
// External code must use GetManager() to obtain the shared instance.
var (
	sensorManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the shared sensor manager. Call Init before first use.
func GetManager() *Manager {
	managerOnce.Do(func() {
		sensorManager = &Manager{}
	})
	return sensorManager
}

// Init opens the configured bus, constructs the driver, verifies chip
// identity, and applies the configured sensor settings. Safe to call again
// after a chip power cycle to resynchronize register state.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dev == nil {
		dev, err := openDevice()
		if err != nil {
			return err
		}
		m.dev = dev
	}
	m.cont = nil
	m.available = false

	if err := m.configureLocked(); err != nil {
		return err
	}
	m.available = true
	return nil
}

// openDevice opens the bus named in the configuration and returns an
// unconfigured driver handle.
func openDevice() (*lsm303agr.Dev, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("sensors: periph host init: %w", err)
	}

	cfg := config.Get()
	switch cfg.SensorBus {
	case "i2c":
		bus, err := i2creg.Open(cfg.SensorI2CBus)
		if err != nil {
			return nil, fmt.Errorf("sensors: open I2C bus %q: %w", cfg.SensorI2CBus, err)
		}
		return lsm303agr.NewI2C(bus), nil
	case "spi":
		port, err := spireg.Open(cfg.SensorSPIDevice)
		if err != nil {
			return nil, fmt.Errorf("sensors: open SPI port %q: %w", cfg.SensorSPIDevice, err)
		}
		accelCS := gpioreg.ByName(cfg.AccelCSPin)
		if accelCS == nil {
			return nil, fmt.Errorf("sensors: accel CS pin %q not found", cfg.AccelCSPin)
		}
		magCS := gpioreg.ByName(cfg.MagCSPin)
		if magCS == nil {
			return nil, fmt.Errorf("sensors: mag CS pin %q not found", cfg.MagCSPin)
		}
		dev, err := lsm303agr.NewSPI(port, accelCS, magCS)
		if err != nil {
			return nil, fmt.Errorf("sensors: SPI connect (%s): %w", cfg.SensorSPIDevice, err)
		}
		return dev, nil
	default:
		return nil, fmt.Errorf("sensors: unknown SENSOR_BUS %q", cfg.SensorBus)
	}
}

// configureLocked runs the full device bring-up: identity check, Init, and
// all configured sensor settings. Caller holds m.mu.
func (m *Manager) configureLocked() error {
	cfg := config.Get()

	if id, err := m.dev.AccelerometerID(); err != nil {
		return fmt.Errorf("sensors: read accel WHO_AM_I: %w", err)
	} else if id != lsm303agr.AccelID {
		log.Printf("sensors: WARNING: accel WHO_AM_I = 0x%02X, expected 0x%02X", id, lsm303agr.AccelID)
	}
	if id, err := m.dev.MagnetometerID(); err != nil {
		return fmt.Errorf("sensors: read mag WHO_AM_I: %w", err)
	} else if id != lsm303agr.MagID {
		log.Printf("sensors: WARNING: mag WHO_AM_I = 0x%02X, expected 0x%02X", id, lsm303agr.MagID)
	}

	if err := m.dev.Init(); err != nil {
		return fmt.Errorf("sensors: device init: %w", err)
	}

	if err := m.dev.SetAccelScale(lsm303agr.AccelScale(cfg.AccelRange)); err != nil {
		return fmt.Errorf("sensors: set accel range: %w", err)
	}
	log.Printf("sensors: accelerometer range set to %d (±%dg)", cfg.AccelRange,
		lsm303agr.AccelScale(cfg.AccelRange).RangeG())

	accelMode := accelModeFromConfig(cfg.AccelMode)
	accelODR, ok := lsm303agr.AccelODRFromHertz(cfg.AccelODRHz)
	if !ok {
		return fmt.Errorf("sensors: unsupported ACCEL_ODR_HZ %d", cfg.AccelODRHz)
	}
	if err := m.dev.SetAccelModeAndODR(accelMode, accelODR); err != nil {
		return fmt.Errorf("sensors: set accel mode/rate: %w", err)
	}
	log.Printf("sensors: accelerometer configured (%v, %d Hz)", accelMode, cfg.AccelODRHz)

	magMode := lsm303agr.MagModeHighResolution
	if cfg.MagMode == 1 {
		magMode = lsm303agr.MagModeLowPower
	}
	magODR, ok := lsm303agr.MagODRFromHertz(cfg.MagODRHz)
	if !ok {
		return fmt.Errorf("sensors: unsupported MAG_ODR_HZ %d", cfg.MagODRHz)
	}
	if err := m.dev.SetMagModeAndODR(magMode, magODR); err != nil {
		return fmt.Errorf("sensors: set mag mode/rate: %w", err)
	}
	if err := m.dev.EnableMagTemperatureCompensation(); err != nil {
		return fmt.Errorf("sensors: enable mag temperature compensation: %w", err)
	}
	log.Printf("sensors: magnetometer configured (%v, %d Hz)", magMode, cfg.MagODRHz)

	if cfg.MagLowPassFilter {
		if err := m.dev.EnableMagLowPassFilter(); err != nil {
			return fmt.Errorf("sensors: enable mag low-pass filter: %w", err)
		}
	}

	// Offset cancellation uses a different register value per acquisition
	// mode, so enable it after the continuous transition when configured.
	if cfg.MagContinuous {
		cont, err := m.dev.IntoMagContinuous()
		if err != nil {
			return fmt.Errorf("sensors: enter continuous mag mode: %w", err)
		}
		m.cont = cont
		if cfg.MagOffsetCancellation {
			if err := cont.EnableMagOffsetCancellation(); err != nil {
				return fmt.Errorf("sensors: enable mag offset cancellation: %w", err)
			}
		}
		log.Println("sensors: magnetometer in continuous mode")
	} else {
		if cfg.MagOffsetCancellation {
			if err := m.dev.EnableMagOffsetCancellation(); err != nil {
				return fmt.Errorf("sensors: enable mag offset cancellation: %w", err)
			}
		}
		log.Println("sensors: magnetometer in one-shot mode")
	}

	return nil
}

func accelModeFromConfig(mode byte) lsm303agr.AccelMode {
	switch mode {
	case 0:
		return lsm303agr.AccelModeLowPower
	case 2:
		return lsm303agr.AccelModeHighResolution
	default:
		return lsm303agr.AccelModeNormal
	}
}

// Available reports whether Init completed successfully.
func (m *Manager) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// Halt powers down both sub-sensors.
func (m *Manager) Halt() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev == nil {
		return nil
	}
	m.available = false
	m.cont = nil
	return m.dev.Halt()
}

// ReadSample reads acceleration, magnetic field, and temperature as one
// combined sample. Data-not-ready conditions are retried briefly; a one-shot
// magnetometer measurement is triggered and polled to completion.
func (m *Manager) ReadSample() (accelmag.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dev == nil {
		return accelmag.Sample{}, fmt.Errorf("sensors: manager not initialized")
	}

	accel, err := m.readAccelerationLocked()
	if err != nil {
		return accelmag.Sample{}, fmt.Errorf("sensors: read acceleration: %w", err)
	}
	mag, err := m.readMagneticFieldLocked()
	if err != nil {
		return accelmag.Sample{}, fmt.Errorf("sensors: read magnetic field: %w", err)
	}
	temp, err := m.dev.Temperature()
	if err != nil {
		return accelmag.Sample{}, fmt.Errorf("sensors: read temperature: %w", err)
	}

	ax, ay, az := accel.MilliG()
	mx, my, mz := mag.NanoTesla()
	return accelmag.Sample{
		Source: "lsm303agr",
		Ax:     ax,
		Ay:     ay,
		Az:     az,
		Mx:     mx,
		My:     my,
		Mz:     mz,
		TempC:  temp.Celsius(),
		Time:   time.Now().Format(time.RFC3339),
	}, nil
}

// pollRetries bounds the data-ready wait at roughly two sample periods of
// the slowest configured rate (1 Hz accel would still be excessive, so the
// cap is fixed rather than rate-derived).
const (
	pollRetries  = 100
	pollInterval = 2 * time.Millisecond
)

func (m *Manager) readAccelerationLocked() (lsm303agr.Acceleration, error) {
	for i := 0; i < pollRetries; i++ {
		a, err := m.dev.Acceleration()
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, lsm303agr.ErrWouldBlock) {
			return lsm303agr.Acceleration{}, err
		}
		time.Sleep(pollInterval)
	}
	return lsm303agr.Acceleration{}, fmt.Errorf("timed out waiting for new data")
}

func (m *Manager) readMagneticFieldLocked() (lsm303agr.MagneticField, error) {
	if m.cont != nil {
		return m.cont.MagneticField()
	}
	// One-shot: the first poll triggers a measurement, later polls wait for
	// completion.
	for i := 0; i < pollRetries; i++ {
		f, err := m.dev.MagneticField()
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, lsm303agr.ErrWouldBlock) {
			return lsm303agr.MagneticField{}, err
		}
		time.Sleep(pollInterval)
	}
	return lsm303agr.MagneticField{}, fmt.Errorf("timed out waiting for measurement")
}

// ReadRegister reads a raw register from the named block ("accel" or "mag").
func (m *Manager) ReadRegister(block string, addr byte) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev == nil {
		return 0, fmt.Errorf("sensors: manager not initialized")
	}
	switch block {
	case "accel":
		return m.dev.ReadAccelRegister(addr)
	case "mag":
		return m.dev.ReadMagRegister(addr)
	default:
		return 0, fmt.Errorf("sensors: unknown register block %q", block)
	}
}

// WriteRegister writes a raw register in the named block. The write bypasses
// the driver's register mirror; call Init afterwards to resynchronize before
// resuming normal sampling.
func (m *Manager) WriteRegister(block string, addr, value byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev == nil {
		return fmt.Errorf("sensors: manager not initialized")
	}
	switch block {
	case "accel":
		return m.dev.WriteAccelRegister(addr, value)
	case "mag":
		return m.dev.WriteMagRegister(addr, value)
	default:
		return fmt.Errorf("sensors: unknown register block %q", block)
	}
}

// ReadAllRegisters reads every register listed in the block's register map.
func (m *Manager) ReadAllRegisters(block string) (map[byte]byte, error) {
	var regMap []RegisterInfo
	switch block {
	case "accel":
		regMap = getAccelRegisterMap()
	case "mag":
		regMap = getMagRegisterMap()
	default:
		return nil, fmt.Errorf("sensors: unknown register block %q", block)
	}

	out := make(map[byte]byte, len(regMap))
	for _, info := range regMap {
		var addr byte
		if _, err := fmt.Sscanf(info.Address, "0x%X", &addr); err != nil {
			return nil, fmt.Errorf("sensors: bad register map address %q: %w", info.Address, err)
		}
		value, err := m.ReadRegister(block, addr)
		if err != nil {
			return nil, fmt.Errorf("sensors: read %s (%s): %w", info.Name, info.Address, err)
		}
		out[addr] = value
	}
	return out, nil
}

// GetAccelRegisterMap returns register metadata for the accelerometer block.
func (m *Manager) GetAccelRegisterMap() []RegisterInfo {
	return getAccelRegisterMap()
}

// GetMagRegisterMap returns register metadata for the magnetometer block.
func (m *Manager) GetMagRegisterMap() []RegisterInfo {
	return getMagRegisterMap()
}

type deviceSource struct {
	mgr *Manager
}

// NewDeviceSource wraps the shared manager as a sample source for the
// producer loop. The manager must already be initialized.
func NewDeviceSource() accelmag.SampleSource {
	return &deviceSource{mgr: GetManager()}
}

func (s *deviceSource) Next() (accelmag.Sample, error) {
	return s.mgr.ReadSample()
}
