// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/relabs-tech/lsm303agr/internal/config"
	"github.com/relabs-tech/lsm303agr/internal/sensors"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// RegisterDebugSession holds WebSocket connection state for register debugging
type RegisterDebugSession struct {
	Conn *websocket.Conn
}

// Response types
type RegisterResponse struct {
	Type        string                 `json:"type"`            // "register_data", "register_map", "status", "error"
	Block       string                 `json:"block,omitempty"` // "accel" or "mag"
	Address     string                 `json:"addr,omitempty"`
	Value       string                 `json:"value,omitempty"`
	Registers   map[string]string      `json:"registers,omitempty"` // for bulk read
	Timestamp   string                 `json:"timestamp,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Status      string                 `json:"status,omitempty"`
	RegisterMap []sensors.RegisterInfo `json:"register_map,omitempty"`
}

// RegisterConfigFile represents the JSON structure for exported register configuration
type RegisterConfigFile struct {
	Version   int               `json:"version"`
	Block     string            `json:"block"`
	Timestamp string            `json:"timestamp"`
	Registers map[string]string `json:"registers"` // hex address -> hex value
}

// HandleRegisterDebugWS handles the WebSocket connection for register debugging
func HandleRegisterDebugWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("register_debug: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	session := &RegisterDebugSession{Conn: conn}

	// Send register map on connection (accelerometer block by default)
	if err := session.sendRegisterMap("accel"); err != nil {
		log.Printf("register_debug: error sending register map: %v", err)
		return
	}

	// Message loop
	for {
		var rawMsg map[string]interface{}
		err := conn.ReadJSON(&rawMsg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("register_debug: websocket error: %v", err)
			}
			break
		}

		action, ok := rawMsg["action"].(string)
		if !ok {
			session.sendError("missing or invalid action field")
			continue
		}

		// Route based on action
		switch action {
		case "get_map":
			block, _ := rawMsg["block"].(string)
			if block == "" {
				block = "accel" // default
			}
			session.sendRegisterMap(block)
		case "read":
			session.handleRead(rawMsg)
		case "read_all":
			session.handleReadAll(rawMsg)
		case "write":
			session.handleWrite(rawMsg)
		case "init":
			session.handleInit()
		case "export_config":
			session.handleExportConfig(rawMsg)
		default:
			session.sendError(fmt.Sprintf("unknown action: %s", action))
		}
	}
}

func (s *RegisterDebugSession) handleRead(rawMsg map[string]interface{}) {
	block, _ := rawMsg["block"].(string)
	addr, _ := rawMsg["addr"].(string)

	if block == "" || addr == "" {
		s.sendError("missing block or addr field")
		return
	}

	// Parse hex address
	var addrByte byte
	if _, err := fmt.Sscanf(addr, "0x%X", &addrByte); err != nil {
		s.sendError(fmt.Sprintf("invalid address format: %s", addr))
		return
	}

	mgr := sensors.GetManager()
	value, err := mgr.ReadRegister(block, addrByte)
	if err != nil {
		s.sendError(fmt.Sprintf("read error: %v", err))
		return
	}

	// Send response
	resp := RegisterResponse{
		Type:      "register_data",
		Block:     block,
		Address:   addr,
		Value:     fmt.Sprintf("0x%02X", value),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) handleReadAll(rawMsg map[string]interface{}) {
	block, _ := rawMsg["block"].(string)
	if block == "" {
		s.sendError("missing block field")
		return
	}

	mgr := sensors.GetManager()
	registers, err := mgr.ReadAllRegisters(block)
	if err != nil {
		s.sendError(fmt.Sprintf("read all error: %v", err))
		return
	}

	// Convert to hex string map
	regMap := make(map[string]string)
	for addr, value := range registers {
		regMap[fmt.Sprintf("0x%02X", addr)] = fmt.Sprintf("0x%02X", value)
	}

	// Send response
	resp := RegisterResponse{
		Type:      "register_data",
		Block:     block,
		Registers: regMap,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) handleWrite(rawMsg map[string]interface{}) {
	block, _ := rawMsg["block"].(string)
	addr, _ := rawMsg["addr"].(string)
	valueStr, _ := rawMsg["value"].(string)

	if block == "" || addr == "" || valueStr == "" {
		s.sendError("missing block, addr, or value field")
		return
	}

	// Parse hex address and value
	var addrByte, valueByte byte
	if _, err := fmt.Sscanf(addr, "0x%X", &addrByte); err != nil {
		s.sendError(fmt.Sprintf("invalid address format: %s", addr))
		return
	}
	if _, err := fmt.Sscanf(valueStr, "0x%X", &valueByte); err != nil {
		s.sendError(fmt.Sprintf("invalid value format: %s", valueStr))
		return
	}

	// Validate write range
	cfg := config.Get()
	if !isRegisterWritable(addrByte, cfg.RegisterDebugAllowedRanges) {
		s.sendError(fmt.Sprintf("register 0x%02X not in allowed write ranges", addrByte))
		return
	}

	mgr := sensors.GetManager()
	if err := mgr.WriteRegister(block, addrByte, valueByte); err != nil {
		s.sendError(fmt.Sprintf("write error: %v", err))
		return
	}

	// Raw writes bypass the driver's register mirror; remind the client to
	// reinitialize before trusting read-modify-write operations again.
	resp := RegisterResponse{
		Type:      "register_data",
		Block:     block,
		Address:   addr,
		Value:     valueStr,
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   "write successful (send init to resynchronize driver state)",
	}
	s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) handleInit() {
	mgr := sensors.GetManager()
	if err := mgr.Init(); err != nil {
		s.sendError(fmt.Sprintf("reinit error: %v", err))
		return
	}

	resp := RegisterResponse{
		Type:    "status",
		Status:  "initialized",
		Message: "sensor reinitialized successfully",
	}
	s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) handleExportConfig(rawMsg map[string]interface{}) {
	block, _ := rawMsg["block"].(string)
	if block == "" {
		s.sendError("missing block field")
		return
	}

	mgr := sensors.GetManager()
	registers, err := mgr.ReadAllRegisters(block)
	if err != nil {
		s.sendError(fmt.Sprintf("export error: %v", err))
		return
	}

	// Convert to hex string map
	regMap := make(map[string]string)
	for addr, value := range registers {
		regMap[fmt.Sprintf("0x%02X", addr)] = fmt.Sprintf("0x%02X", value)
	}

	// Create config file structure
	configFile := RegisterConfigFile{
		Version:   1,
		Block:     block,
		Timestamp: time.Now().Format(time.RFC3339),
		Registers: regMap,
	}

	// Send as download
	configJSON, _ := json.Marshal(configFile)
	rawResp := map[string]interface{}{
		"type":     "export_config",
		"block":    block,
		"message":  "config exported",
		"config":   string(configJSON),
		"filename": fmt.Sprintf("lsm303agr_%s_%s_registers.json", block, time.Now().Format("20060102_150405")),
	}
	s.Conn.WriteJSON(rawResp)
}

func (s *RegisterDebugSession) sendRegisterMap(block string) error {
	mgr := sensors.GetManager()
	var regMap []sensors.RegisterInfo

	switch block {
	case "mag":
		regMap = mgr.GetMagRegisterMap()
	default:
		block = "accel"
		regMap = mgr.GetAccelRegisterMap()
	}

	resp := RegisterResponse{
		Type:        "register_map",
		Block:       block,
		RegisterMap: regMap,
	}
	return s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) sendError(message string) {
	resp := RegisterResponse{
		Type:    "error",
		Message: message,
	}
	s.Conn.WriteJSON(resp)
}

// HandleSampleData serves the latest combined sensor reading via REST API.
func HandleSampleData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	mgr := sensors.GetManager()
	sample, err := mgr.ReadSample()
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error": "%v"}`, err), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(sample)
}

// isRegisterWritable checks if a register address is in the allowed write
// ranges, given as a comma-separated list like "0x1F-0x26,0x2E,0x60-0x62".
// An empty list means no writes allowed.
func isRegisterWritable(addr byte, allowedRanges string) bool {
	for _, part := range strings.Split(allowedRanges, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, ok := parseRange(part)
		if !ok {
			log.Printf("register_debug: ignoring malformed range %q", part)
			continue
		}
		if addr >= lo && addr <= hi {
			return true
		}
	}
	return false
}

// parseRange parses "0x20" or "0x1F-0x26" into an inclusive byte range.
func parseRange(s string) (lo, hi byte, ok bool) {
	bounds := strings.SplitN(s, "-", 2)
	first, err := strconv.ParseUint(strings.TrimSpace(bounds[0]), 0, 8)
	if err != nil {
		return 0, 0, false
	}
	lo = byte(first)
	hi = lo
	if len(bounds) == 2 {
		second, err := strconv.ParseUint(strings.TrimSpace(bounds[1]), 0, 8)
		if err != nil {
			return 0, 0, false
		}
		hi = byte(second)
	}
	if lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}
