package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/relabs-tech/lsm303agr/internal/accelmag"
	"github.com/relabs-tech/lsm303agr/internal/config"
)

// RunWeb serves the latest published sample over a JSON API plus static
// files for the dashboard.
func RunWeb() error {
	cfg := config.Get()

	var (
		mu         sync.RWMutex
		lastSample accelmag.Sample
		haveSample bool
	)

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to the sample topic and update lastSample on each message
	token := client.Subscribe(cfg.TopicAccelMag, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s accelmag.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("web: MQTT payload unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastSample = s
		haveSample = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", cfg.TopicAccelMag)

	// 3) JSON API endpoint: latest sample
	http.HandleFunc("/api/accelmag", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveSample {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastSample); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
