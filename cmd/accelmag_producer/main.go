package main

import (
	"log"

	"github.com/relabs-tech/lsm303agr/internal/app"
	"github.com/relabs-tech/lsm303agr/internal/config"
)

func main() {
	log.Println("starting accelmag producer (MQTT publisher)")

	// Load configuration
	if err := config.InitGlobal("accelmag_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunProducer(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
