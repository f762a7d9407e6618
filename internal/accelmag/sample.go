// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package accelmag

// Sample is one combined accelerometer/magnetometer/temperature reading as
// published over MQTT.
type Sample struct {
	Source string `json:"source"` // "lsm303agr" or "mock"

	// Acceleration in milli-g
	Ax int32 `json:"ax"`
	Ay int32 `json:"ay"`
	Az int32 `json:"az"`

	// Magnetic field in nanotesla
	Mx int32 `json:"mx"`
	My int32 `json:"my"`
	Mz int32 `json:"mz"`

	// Temperature in degrees Celsius
	TempC float64 `json:"temp_c"`

	Time string `json:"time"` // RFC3339
}

// SampleSource produces samples for the producer loop.
type SampleSource interface {
	Next() (Sample, error)
}
