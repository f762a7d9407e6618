package app

import (
	"encoding/json"
	"log"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/relabs-tech/lsm303agr/internal/accelmag"
	"github.com/relabs-tech/lsm303agr/internal/config"
	"github.com/relabs-tech/lsm303agr/internal/sensors"
)

// magNorm computes the magnitude of the magnetic field vector in nanotesla.
func magNorm(mx, my, mz int32) float64 {
	x := float64(mx)
	y := float64(my)
	z := float64(mz)
	return math.Sqrt(x*x + y*y + z*z)
}

// RunProducer reads samples from the LSM303AGR (or the mock source) and
// publishes them as JSON over MQTT.
func RunProducer() error {
	log.Println("starting accelmag producer")

	cfg := config.Get()

	// --- Choose sample source (mock vs real sensor) ---
	var src accelmag.SampleSource
	if cfg.UseMockSource {
		log.Println("producer: using mock sample source")
		src = sensors.NewMockSource()
	} else {
		mgr := sensors.GetManager()
		if err := mgr.Init(); err != nil {
			log.Printf("producer: sensor init failed: %v", err)
			return err
		}
		src = sensors.NewDeviceSource()
	}

	// --- Connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Printf("producer: MQTT connect error: %v", token.Error())
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Println("producer: connected to MQTT, starting publish loop")

	// main tick
	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for t := range ticker.C {
		sample, err := src.Next()
		if err != nil {
			log.Printf("producer: sample read error: %v", err)
			continue
		}

		payload, err := json.Marshal(sample)
		if err != nil {
			log.Printf("producer: json marshal error: %v", err)
			continue
		}
		if token := client.Publish(cfg.TopicAccelMag, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("producer: MQTT publish error: %v", token.Error())
			continue
		}

		mn := magNorm(sample.Mx, sample.My, sample.Mz)
		log.Printf("%s tick: accel ax=%d ay=%d az=%d mg | mag mx=%d my=%d mz=%d nT | |B|=%.0f nT | temp=%.2f°C",
			t.Format(time.RFC3339),
			sample.Ax, sample.Ay, sample.Az,
			sample.Mx, sample.My, sample.Mz,
			mn,
			sample.TempC,
		)
	}
	return nil
}
