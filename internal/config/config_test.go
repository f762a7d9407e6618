// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accelmag_config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `# test configuration
MQTT_BROKER=tcp://localhost:1883
MQTT_CLIENT_ID_PRODUCER=accelmag-producer
TOPIC_ACCELMAG=accelmag/sample

SENSOR_BUS=i2c
ACCEL_RANGE=1
ACCEL_MODE=2
ACCEL_ODR_HZ=100
MAG_MODE=0
MAG_ODR_HZ=50
MAG_CONTINUOUS=true
SAMPLE_INTERVAL=100
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTTBroker != "tcp://localhost:1883" {
		t.Errorf("MQTTBroker = %q", cfg.MQTTBroker)
	}
	if cfg.SensorBus != "i2c" {
		t.Errorf("SensorBus = %q", cfg.SensorBus)
	}
	if cfg.AccelRange != 1 || cfg.AccelMode != 2 || cfg.AccelODRHz != 100 {
		t.Errorf("accel settings = %d %d %d", cfg.AccelRange, cfg.AccelMode, cfg.AccelODRHz)
	}
	if !cfg.MagContinuous {
		t.Error("MagContinuous = false")
	}
	if cfg.SampleInterval != 100 {
		t.Errorf("SampleInterval = %d", cfg.SampleInterval)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		line string
		want string
	}{
		{"unknown key", "BOGUS_KEY=1", "unknown config key"},
		{"bad bus", "SENSOR_BUS=uart", "SENSOR_BUS"},
		{"range out of bounds", "ACCEL_RANGE=4", "ACCEL_RANGE"},
		{"unsupported accel rate", "ACCEL_ODR_HZ=123", "ACCEL_ODR_HZ"},
		{"unsupported mag rate", "MAG_ODR_HZ=75", "MAG_ODR_HZ"},
		{"malformed line", "JUST_A_KEY", "invalid config line"},
	}
	for _, tc := range cases {
		_, err := Load(writeConfig(t, validConfig+tc.line+"\n"))
		if err == nil {
			t.Errorf("%s: Load accepted %q", tc.name, tc.line)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestLoadRequiresSPIPins(t *testing.T) {
	content := strings.Replace(validConfig, "SENSOR_BUS=i2c", "SENSOR_BUS=spi", 1)
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Fatal("Load accepted spi bus without device and CS pins")
	}
	content += "SENSOR_SPI_DEVICE=/dev/spidev0.0\nACCEL_CS_PIN=GPIO24\nMAG_CS_PIN=GPIO25\n"
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccelCSPin != "GPIO24" || cfg.MagCSPin != "GPIO25" {
		t.Errorf("CS pins = %q %q", cfg.AccelCSPin, cfg.MagCSPin)
	}
}

func TestLoadRequiredFields(t *testing.T) {
	for _, key := range []string{"MQTT_BROKER", "TOPIC_ACCELMAG", "SENSOR_BUS", "ACCEL_ODR_HZ", "MAG_ODR_HZ", "SAMPLE_INTERVAL"} {
		var kept []string
		for _, line := range strings.Split(validConfig, "\n") {
			if !strings.HasPrefix(line, key+"=") {
				kept = append(kept, line)
			}
		}
		_, err := Load(writeConfig(t, strings.Join(kept, "\n")))
		if err == nil || !strings.Contains(err.Error(), key) {
			t.Errorf("missing %s: err = %v", key, err)
		}
	}
}
