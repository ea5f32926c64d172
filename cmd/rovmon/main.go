package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/robotalks/rov.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/rov.go/pkg/l1/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/rov/"
)

func init() {
	if val := os.Getenv("ROV_REGISTRY_URL"); val != "" {
		mqttURL = val
	} else if val := os.Getenv("ROV_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	broker, err := mqtt.ParseBrokerURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q := broker.NewQueue()
	if token := q.Connect(); !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		log.Fatalf("connect %s failed: %v", mqttURL, token.Error())
	}
	defer q.Close()

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		if info, ok := mqtt.ParseMeta(topic, payload); ok {
			log.Printf("%s: online %s/%s %q", topic, info.Ref.Type, info.Ref.ID, info.Meta.Description)
			return
		}
		if strings.HasSuffix(topic, "/meta") {
			log.Printf("%s: offline", topic)
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		log.Printf("%s: [%s] %s", topic,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
			msg.(msgs.SerializableMessage).Serializable().String())
	}))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}
