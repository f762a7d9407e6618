// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import "testing"

func TestIsRegisterWritable(t *testing.T) {
	ranges := "0x1F-0x26, 0x2E, 0x60-0x62"
	writable := []byte{0x1F, 0x20, 0x26, 0x2E, 0x60, 0x62}
	for _, addr := range writable {
		if !isRegisterWritable(addr, ranges) {
			t.Errorf("0x%02X should be writable", addr)
		}
	}
	blocked := []byte{0x0F, 0x1E, 0x27, 0x2D, 0x2F, 0x63, 0x68}
	for _, addr := range blocked {
		if isRegisterWritable(addr, ranges) {
			t.Errorf("0x%02X should be blocked", addr)
		}
	}
}

func TestIsRegisterWritableEmptyList(t *testing.T) {
	if isRegisterWritable(0x20, "") {
		t.Error("empty allowlist should block all writes")
	}
}

func TestIsRegisterWritableMalformed(t *testing.T) {
	// Malformed entries are skipped, valid ones still apply.
	ranges := "garbage, 0x30-0x20, 0x60"
	if isRegisterWritable(0x25, ranges) {
		t.Error("0x25 matched a malformed range")
	}
	if !isRegisterWritable(0x60, ranges) {
		t.Error("0x60 should be writable")
	}
}

func TestParseRange(t *testing.T) {
	cases := []struct {
		in     string
		lo, hi byte
		ok     bool
	}{
		{"0x20", 0x20, 0x20, true},
		{"0x1F-0x26", 0x1F, 0x26, true},
		{"32", 32, 32, true},
		{"0x30-0x20", 0, 0, false},
		{"xyz", 0, 0, false},
	}
	for _, tc := range cases {
		lo, hi, ok := parseRange(tc.in)
		if lo != tc.lo || hi != tc.hi || ok != tc.ok {
			t.Errorf("parseRange(%q) = %#x, %#x, %v; want %#x, %#x, %v",
				tc.in, lo, hi, ok, tc.lo, tc.hi, tc.ok)
		}
	}
}
