// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

// RegisterInfo describes one chip register for the register debug UI.
type RegisterInfo struct {
	Address     string     `json:"address"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R", "W", "RW"
	Default     string     `json:"default,omitempty"`
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// BitField describes one named field inside a register.
type BitField struct {
	Bits        string `json:"bits"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// getAccelRegisterMap returns metadata for the LSM303AGR accelerometer block
// registers. This provides register names, descriptions, access types, and
// bit field definitions for the register debug tool.
func getAccelRegisterMap() []RegisterInfo {
	return []RegisterInfo{
		// Status and Temperature
		{Address: "0x07", Name: "STATUS_REG_AUX_A", Description: "Temperature data status", Access: "R", Default: "0x00",
			BitFields: []BitField{
				{Bits: "6", Name: "TOR", Description: "Temperature data overrun", Values: "0=No overrun, 1=New data overwrote old"},
				{Bits: "2", Name: "TDA", Description: "Temperature new data available", Values: "0=Not ready, 1=Ready"},
			}},
		{Address: "0x0C", Name: "OUT_TEMP_L_A", Description: "Temperature Low Byte", Access: "R"},
		{Address: "0x0D", Name: "OUT_TEMP_H_A", Description: "Temperature High Byte", Access: "R"},

		// Device Identification
		{Address: "0x0F", Name: "WHO_AM_I_A", Description: "Accelerometer device ID (should be 0x33)", Access: "R", Default: "0x33"},

		// Configuration Registers
		{Address: "0x1F", Name: "TEMP_CFG_REG_A", Description: "Temperature sensor enable", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:6", Name: "TEMP_EN", Description: "Temperature sensor enable", Values: "00=Disabled, 11=Enabled"},
			}},
		{Address: "0x20", Name: "CTRL_REG1_A", Description: "Data rate, low-power enable, axes enable", Access: "RW", Default: "0x07",
			BitFields: []BitField{
				{Bits: "7:4", Name: "ODR", Description: "Output data rate", Values: "0=PowerDown, 1=1Hz, 2=10Hz, 3=25Hz, 4=50Hz, 5=100Hz, 6=200Hz, 7=400Hz, 8=1.620kHz(LP), 9=1.344kHz/5.376kHz(LP)"},
				{Bits: "3", Name: "LPen", Description: "Low-power mode enable", Values: "0=Normal/HR, 1=Low-power"},
				{Bits: "2", Name: "Zen", Description: "Z axis enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "1", Name: "Yen", Description: "Y axis enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "0", Name: "Xen", Description: "X axis enable", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: "0x22", Name: "CTRL_REG3_A", Description: "INT1 pin interrupt routing", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "I1_CLICK", Description: "Click interrupt on INT1", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6", Name: "I1_AOI1", Description: "AOI1 interrupt on INT1", Values: "0=Disabled, 1=Enabled"},
				{Bits: "5", Name: "I1_AOI2", Description: "AOI2 interrupt on INT1", Values: "0=Disabled, 1=Enabled"},
				{Bits: "4", Name: "I1_DRDY1", Description: "Data ready 1 on INT1", Values: "0=Disabled, 1=Enabled"},
				{Bits: "3", Name: "I1_DRDY2", Description: "Data ready 2 on INT1", Values: "0=Disabled, 1=Enabled"},
				{Bits: "2", Name: "I1_WTM", Description: "FIFO watermark on INT1", Values: "0=Disabled, 1=Enabled"},
				{Bits: "1", Name: "I1_OVERRUN", Description: "FIFO overrun on INT1", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: "0x23", Name: "CTRL_REG4_A", Description: "Block data update, full scale, high resolution", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "BDU", Description: "Block data update", Values: "0=Continuous, 1=Wait until MSB+LSB read"},
				{Bits: "5:4", Name: "FS", Description: "Full scale range", Values: "0=±2g, 1=±4g, 2=±8g, 3=±16g"},
				{Bits: "3", Name: "HR", Description: "High-resolution mode enable", Values: "0=Normal/LP, 1=High-resolution"},
				{Bits: "0", Name: "SPI_ENABLE", Description: "3-wire SPI enable", Values: "0=4-wire, 1=3-wire"},
			}},
		{Address: "0x24", Name: "CTRL_REG5_A", Description: "FIFO enable, memory reboot", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "BOOT", Description: "Reboot memory content", Values: "1=Reboot"},
				{Bits: "6", Name: "FIFO_EN", Description: "FIFO enable", Values: "0=Disabled, 1=Enabled"},
			}},

		// Status and Data
		{Address: "0x27", Name: "STATUS_REG_A", Description: "Axis data ready and overrun status", Access: "R", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "ZYXOR", Description: "X/Y/Z data overrun", Values: ""},
				{Bits: "6", Name: "ZOR", Description: "Z data overrun", Values: ""},
				{Bits: "5", Name: "YOR", Description: "Y data overrun", Values: ""},
				{Bits: "4", Name: "XOR", Description: "X data overrun", Values: ""},
				{Bits: "3", Name: "ZYXDA", Description: "X/Y/Z new data available", Values: ""},
				{Bits: "2", Name: "ZDA", Description: "Z new data available", Values: ""},
				{Bits: "1", Name: "YDA", Description: "Y new data available", Values: ""},
				{Bits: "0", Name: "XDA", Description: "X new data available", Values: ""},
			}},
		{Address: "0x28", Name: "OUT_X_L_A", Description: "Acceleration X Low Byte", Access: "R"},
		{Address: "0x29", Name: "OUT_X_H_A", Description: "Acceleration X High Byte", Access: "R"},
		{Address: "0x2A", Name: "OUT_Y_L_A", Description: "Acceleration Y Low Byte", Access: "R"},
		{Address: "0x2B", Name: "OUT_Y_H_A", Description: "Acceleration Y High Byte", Access: "R"},
		{Address: "0x2C", Name: "OUT_Z_L_A", Description: "Acceleration Z Low Byte", Access: "R"},
		{Address: "0x2D", Name: "OUT_Z_H_A", Description: "Acceleration Z High Byte", Access: "R"},

		// FIFO
		{Address: "0x2E", Name: "FIFO_CTRL_REG_A", Description: "FIFO mode and threshold", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:6", Name: "FM", Description: "FIFO mode", Values: "0=Bypass, 1=FIFO, 2=Stream, 3=Stream-to-FIFO"},
				{Bits: "4:0", Name: "FTH", Description: "FIFO threshold", Values: "0-31"},
			}},
		{Address: "0x2F", Name: "FIFO_SRC_REG_A", Description: "FIFO status", Access: "R",
			BitFields: []BitField{
				{Bits: "7", Name: "WTM", Description: "Watermark level exceeded", Values: ""},
				{Bits: "6", Name: "OVRN_FIFO", Description: "FIFO overrun", Values: ""},
				{Bits: "5", Name: "EMPTY", Description: "FIFO empty", Values: ""},
				{Bits: "4:0", Name: "FSS", Description: "Unread samples in FIFO", Values: "0-31"},
			}},
	}
}

// getMagRegisterMap returns metadata for the LSM303AGR magnetometer block
// registers. On I2C the block answers at address 0x1E; on SPI it has its own
// chip select.
func getMagRegisterMap() []RegisterInfo {
	return []RegisterInfo{
		// Hard-iron offset registers
		{Address: "0x45", Name: "OFFSET_X_REG_L_M", Description: "Hard-iron offset X Low Byte", Access: "RW", Default: "0x00"},
		{Address: "0x46", Name: "OFFSET_X_REG_H_M", Description: "Hard-iron offset X High Byte", Access: "RW", Default: "0x00"},
		{Address: "0x47", Name: "OFFSET_Y_REG_L_M", Description: "Hard-iron offset Y Low Byte", Access: "RW", Default: "0x00"},
		{Address: "0x48", Name: "OFFSET_Y_REG_H_M", Description: "Hard-iron offset Y High Byte", Access: "RW", Default: "0x00"},
		{Address: "0x49", Name: "OFFSET_Z_REG_L_M", Description: "Hard-iron offset Z Low Byte", Access: "RW", Default: "0x00"},
		{Address: "0x4A", Name: "OFFSET_Z_REG_H_M", Description: "Hard-iron offset Z High Byte", Access: "RW", Default: "0x00"},

		// Device Identification
		{Address: "0x4F", Name: "WHO_AM_I_M", Description: "Magnetometer device ID (should be 0x40)", Access: "R", Default: "0x40"},

		// Configuration Registers
		{Address: "0x60", Name: "CFG_REG_A_M", Description: "Power mode, data rate, system mode", Access: "RW", Default: "0x03",
			BitFields: []BitField{
				{Bits: "7", Name: "COMP_TEMP_EN", Description: "Temperature compensation", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6", Name: "REBOOT", Description: "Reboot memory content", Values: "1=Reboot"},
				{Bits: "5", Name: "SOFT_RST", Description: "Soft reset", Values: "1=Reset"},
				{Bits: "4", Name: "LP", Description: "Low-power mode", Values: "0=High-resolution, 1=Low-power"},
				{Bits: "3:2", Name: "ODR", Description: "Output data rate", Values: "0=10Hz, 1=20Hz, 2=50Hz, 3=100Hz"},
				{Bits: "1:0", Name: "MD", Description: "System mode", Values: "0=Continuous, 1=Single, 2/3=Idle"},
			}},
		{Address: "0x61", Name: "CFG_REG_B_M", Description: "Offset cancellation, low-pass filter", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "4", Name: "OFF_CANC_ONE_SHOT", Description: "Offset cancellation in single mode", Values: "0=Disabled, 1=Enabled"},
				{Bits: "2", Name: "SET_FREQ", Description: "Set pulse frequency", Values: "0=Every 63 ODR, 1=Only at power-on"},
				{Bits: "1", Name: "OFF_CANC", Description: "Offset cancellation", Values: "0=Disabled, 1=Enabled"},
				{Bits: "0", Name: "LPF", Description: "Low-pass filter", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: "0x62", Name: "CFG_REG_C_M", Description: "Block data update, data-ready pin", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "6", Name: "I2C_DIS", Description: "Disable I2C interface", Values: "0=Enabled, 1=Disabled"},
				{Bits: "4", Name: "BDU", Description: "Block data update", Values: "0=Continuous, 1=Wait until MSB+LSB read"},
				{Bits: "1", Name: "SELF_TEST", Description: "Self-test enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "0", Name: "INT_MAG", Description: "Data-ready signal on INT_MAG pin", Values: "0=Disabled, 1=Enabled"},
			}},

		// Status and Data
		{Address: "0x67", Name: "STATUS_REG_M", Description: "Axis data ready and overrun status", Access: "R", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "ZYXOR", Description: "X/Y/Z data overrun", Values: ""},
				{Bits: "3", Name: "ZYXDA", Description: "X/Y/Z new data available", Values: ""},
			}},
		{Address: "0x68", Name: "OUTX_L_REG_M", Description: "Magnetic field X Low Byte", Access: "R"},
		{Address: "0x69", Name: "OUTX_H_REG_M", Description: "Magnetic field X High Byte", Access: "R"},
		{Address: "0x6A", Name: "OUTY_L_REG_M", Description: "Magnetic field Y Low Byte", Access: "R"},
		{Address: "0x6B", Name: "OUTY_H_REG_M", Description: "Magnetic field Y High Byte", Access: "R"},
		{Address: "0x6C", Name: "OUTZ_L_REG_M", Description: "Magnetic field Z Low Byte", Access: "R"},
		{Address: "0x6D", Name: "OUTZ_H_REG_M", Description: "Magnetic field Z High Byte", Access: "R"},
	}
}
