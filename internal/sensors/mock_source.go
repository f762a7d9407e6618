// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/lsm303agr/internal/accelmag"
)

type mockSource struct {
	start time.Time
}

// NewMockSource creates a mock sample source that generates smooth changing
// values, for running the pipeline without hardware.
func NewMockSource() accelmag.SampleSource {
	return &mockSource{start: time.Now()}
}

func (m *mockSource) Next() (accelmag.Sample, error) {
	elapsed := time.Since(m.start).Seconds()

	// A gently rocking board in Earth's field: ~1g on Z, ~50µT total field.
	return accelmag.Sample{
		Source: "mock",
		Ax:     int32(120 * math.Sin(elapsed)),
		Ay:     int32(80 * math.Cos(elapsed*0.7)),
		Az:     int32(1000 - 20*math.Sin(elapsed*0.3)),
		Mx:     int32(22000 * math.Cos(elapsed*0.2)),
		My:     int32(22000 * math.Sin(elapsed*0.2)),
		Mz:     int32(-43000 + 500*math.Sin(elapsed)),
		TempC:  25 + 0.5*math.Sin(elapsed*0.05),
		Time:   time.Now().Format(time.RFC3339),
	}, nil
}
