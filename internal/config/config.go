// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicAccelMag string

	// Sensor bus: "i2c" (shared bus, fixed addresses) or "spi" (dedicated
	// chip selects per sub-sensor).
	SensorBus       string
	SensorI2CBus    string // i2creg name, empty for the default bus
	SensorSPIDevice string
	AccelCSPin      string
	MagCSPin        string

	// Accelerometer: 0=±2g, 1=±4g, 2=±8g, 3=±16g
	AccelRange byte
	// Accelerometer power mode: 0=low-power, 1=normal, 2=high-resolution
	AccelMode byte
	// Accelerometer output data rate in Hz (1, 10, 25, 50, 100, 200, 400,
	// 1344, 1620, 5376)
	AccelODRHz int

	// Magnetometer power mode: 0=high-resolution, 1=low-power
	MagMode byte
	// Magnetometer output data rate in Hz (10, 20, 50, 100)
	MagODRHz int
	// Magnetometer acquisition: continuous free-running vs. triggered
	// one-shot per sample
	MagContinuous         bool
	MagOffsetCancellation bool
	MagLowPassFilter      bool

	// Timing
	SampleInterval     int // milliseconds
	ConsoleLogInterval int // milliseconds

	// Web Server
	WebServerPort int

	// Display
	DisplayUpdateInterval int // milliseconds

	// Register debug
	RegisterDebugPort          int
	RegisterDebugAllowedRanges string // e.g. "0x1F-0x26,0x2E,0x60-0x62"

	// Producer
	UseMockSource bool
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported (lowercase) so other packages cannot access it directly.
//     This enforces encapsulation and prevents external code from modifying config without proper locking.
//     Has package-level scope (visible to all functions in this package, persists for program lifetime).
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock (Lock) for initialization,
//     read lock (RLock) for Get() allows multiple concurrent readers without blocking each other.
//
// External code must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_ACCELMAG":
		c.TopicAccelMag = value

	// Sensor bus
	case "SENSOR_BUS":
		if value != "i2c" && value != "spi" {
			return fmt.Errorf("SENSOR_BUS must be \"i2c\" or \"spi\", got %q", value)
		}
		c.SensorBus = value
	case "SENSOR_I2C_BUS":
		c.SensorI2CBus = value
	case "SENSOR_SPI_DEVICE":
		c.SensorSPIDevice = value
	case "ACCEL_CS_PIN":
		c.AccelCSPin = value
	case "MAG_CS_PIN":
		c.MagCSPin = value

	// Accelerometer
	case "ACCEL_RANGE":
		rangeVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_RANGE %q: %w", value, err)
		}
		if rangeVal < 0 || rangeVal > 3 {
			return fmt.Errorf("ACCEL_RANGE must be 0-3 (0=±2g, 1=±4g, 2=±8g, 3=±16g), got %d", rangeVal)
		}
		c.AccelRange = byte(rangeVal)
	case "ACCEL_MODE":
		val, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_MODE %q: %w", value, err)
		}
		if val < 0 || val > 2 {
			return fmt.Errorf("ACCEL_MODE must be 0-2 (0=low-power, 1=normal, 2=high-resolution), got %d", val)
		}
		c.AccelMode = byte(val)
	case "ACCEL_ODR_HZ":
		hz, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_ODR_HZ %q: %w", value, err)
		}
		switch hz {
		case 1, 10, 25, 50, 100, 200, 400, 1344, 1620, 5376:
		default:
			return fmt.Errorf("ACCEL_ODR_HZ must be one of 1, 10, 25, 50, 100, 200, 400, 1344, 1620, 5376, got %d", hz)
		}
		c.AccelODRHz = hz

	// Magnetometer
	case "MAG_MODE":
		val, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_MODE %q: %w", value, err)
		}
		if val < 0 || val > 1 {
			return fmt.Errorf("MAG_MODE must be 0-1 (0=high-resolution, 1=low-power), got %d", val)
		}
		c.MagMode = byte(val)
	case "MAG_ODR_HZ":
		hz, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_ODR_HZ %q: %w", value, err)
		}
		switch hz {
		case 10, 20, 50, 100:
		default:
			return fmt.Errorf("MAG_ODR_HZ must be one of 10, 20, 50, 100, got %d", hz)
		}
		c.MagODRHz = hz
	case "MAG_CONTINUOUS":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_CONTINUOUS %q: %w", value, err)
		}
		c.MagContinuous = enabled
	case "MAG_OFFSET_CANCELLATION":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_OFFSET_CANCELLATION %q: %w", value, err)
		}
		c.MagOffsetCancellation = enabled
	case "MAG_LOW_PASS_FILTER":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_LOW_PASS_FILTER %q: %w", value, err)
		}
		c.MagLowPassFilter = enabled

	// Timing
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.SampleInterval = interval
	case "CONSOLE_LOG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_LOG_INTERVAL %q: %w", value, err)
		}
		c.ConsoleLogInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	// Register debug
	case "REGISTER_DEBUG_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid REGISTER_DEBUG_PORT %q: %w", value, err)
		}
		c.RegisterDebugPort = port
	case "REGISTER_DEBUG_ALLOWED_RANGES":
		c.RegisterDebugAllowedRanges = value

	// Producer
	case "USE_MOCK_SOURCE":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid USE_MOCK_SOURCE %q: %w", value, err)
		}
		c.UseMockSource = enabled

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicAccelMag == "" {
		return fmt.Errorf("TOPIC_ACCELMAG is required")
	}
	if c.SensorBus == "" {
		return fmt.Errorf("SENSOR_BUS is required")
	}
	if c.SensorBus == "spi" {
		if c.SensorSPIDevice == "" {
			return fmt.Errorf("SENSOR_SPI_DEVICE is required when SENSOR_BUS=spi")
		}
		if c.AccelCSPin == "" || c.MagCSPin == "" {
			return fmt.Errorf("ACCEL_CS_PIN and MAG_CS_PIN are required when SENSOR_BUS=spi")
		}
	}
	if c.AccelODRHz == 0 {
		return fmt.Errorf("ACCEL_ODR_HZ is required")
	}
	if c.MagODRHz == 0 {
		return fmt.Errorf("MAG_ODR_HZ is required")
	}
	if c.SampleInterval == 0 {
		return fmt.Errorf("SAMPLE_INTERVAL is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
// Acquires write lock (configMu.Lock) during initialization to prevent concurrent access.
// This is the only function that can set globalConfig.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
// Uses read lock (configMu.RLock) to allow multiple concurrent readers without blocking.
// This is thread-safe and efficient for concurrent access across goroutines.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
