package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/lsm303agr/internal/accelmag"
	"github.com/relabs-tech/lsm303agr/internal/config"
)

// RunConsole subscribes to the accelmag topic and prints each sample as an
// aligned console row.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicAccelMag, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s accelmag.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: sample unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[%-9s] ax=%6d ay=%6d az=%6d mg  mx=%8d my=%8d mz=%8d nT  temp=%6.2f°C\n",
			s.Source, s.Ax, s.Ay, s.Az, s.Mx, s.My, s.Mz, s.TempC,
		)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicAccelMag)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
