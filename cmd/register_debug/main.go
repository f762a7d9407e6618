// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/relabs-tech/lsm303agr/internal/app"
	"github.com/relabs-tech/lsm303agr/internal/config"
	"github.com/relabs-tech/lsm303agr/internal/sensors"
)

func main() {
	log.Println("starting LSM303AGR register debug tool (standalone)")

	if err := config.InitGlobal("accelmag_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	log.Println("Initializing sensor manager...")
	mgr := sensors.GetManager()
	if err := mgr.Init(); err != nil {
		log.Printf("Warning: sensor initialization had issues: %v", err)
		log.Println("Continuing anyway - raw register access may still work")
	}

	if mgr.Available() {
		log.Println("LSM303AGR available")
	} else {
		log.Println("Warning: LSM303AGR not fully configured")
	}

	http.HandleFunc("/ws", app.HandleRegisterDebugWS)

	// API endpoint for live sensor data
	http.HandleFunc("/api/accelmag", app.HandleSampleData)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/register_debug.html")
	})

	addr := fmt.Sprintf(":%d", config.Get().RegisterDebugPort)
	log.Printf("Register debug tool listening on %s", addr)
	log.Printf("Open http://localhost%s in your browser", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
