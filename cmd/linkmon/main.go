package main

import (
	"flag"
	"log"
	"os"
	"reflect"

	"github.com/robotalks/mculink/pkg/bridge/mqtt"
	"github.com/robotalks/mculink/pkg/bridge/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/mculink/"
)

func init() {
	if val := os.Getenv("MCULINK_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err = q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
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
	})); err != nil {
		log.Fatalln(err)
	}

	token := q.Connect()
	token.Wait()
	if err = token.Error(); err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
