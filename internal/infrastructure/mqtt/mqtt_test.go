package mqtt

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/casalab/casahub/internal/infrastructure/config"
)

func TestTopics(t *testing.T) {
	tests := []struct {
		name      string
		topics    Topics
		eventType string
		deviceID  string
		want      string
	}{
		{
			name:      "default prefix",
			topics:    Topics{},
			eventType: "TRANSICAO_ESTADO",
			deviceID:  "luz_sala",
			want:      "casahub/events/TRANSICAO_ESTADO/luz_sala",
		},
		{
			name:      "custom prefix",
			topics:    Topics{Prefix: "minha_casa"},
			eventType: "COMANDO_EXECUTADO",
			deviceID:  "porta_entrada",
			want:      "minha_casa/events/COMANDO_EXECUTADO/porta_entrada",
		},
		{
			name:      "prefix with stray slashes",
			topics:    Topics{Prefix: "/casa/"},
			eventType: "ERRO",
			deviceID:  "tomada_tv",
			want:      "casa/events/ERRO/tomada_tv",
		},
		{
			name:      "hub level event",
			topics:    Topics{},
			eventType: "ROTINA_EXECUTADA",
			deviceID:  "",
			want:      "casahub/events/ROTINA_EXECUTADA/hub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.topics.Event(tt.eventType, tt.deviceID); got != tt.want {
				t.Errorf("Event() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := (Topics{}).SystemStatus(); got != "casahub/system/status" {
		t.Errorf("SystemStatus() = %q, want casahub/system/status", got)
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := config.MQTTSinkConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "broker.local",
			Port:     1883,
			ClientID: "casahub-test",
		},
		Auth: config.MQTTAuthConfig{Username: "user", Password: "pass"},
		QoS:  1,
	}

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("expected 1 broker URL, got %d", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://broker.local:1883" {
		t.Errorf("broker URL = %q, want tcp://broker.local:1883", got)
	}
	if opts.ClientID != "casahub-test" {
		t.Errorf("ClientID = %q, want casahub-test", opts.ClientID)
	}
	if opts.Username != "user" {
		t.Errorf("Username = %q, want user", opts.Username)
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect should be enabled")
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := config.MQTTSinkConfig{
		Broker: config.MQTTBrokerConfig{Host: "broker.local", Port: 8883, TLS: true, ClientID: "casahub"},
	}

	opts := buildClientOptions(cfg)

	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("scheme = %q, want ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Fatal("TLSConfig should be set when TLS is enabled")
	}
}

func TestStatusPayloads(t *testing.T) {
	for name, payload := range map[string]string{
		"online":  buildOnlinePayload("casahub"),
		"offline": buildOfflinePayload("casahub"),
	} {
		var doc map[string]any
		if err := json.Unmarshal([]byte(payload), &doc); err != nil {
			t.Fatalf("%s payload is not valid JSON: %v", name, err)
		}
		if doc["status"] != name {
			t.Errorf("%s payload status = %v", name, doc["status"])
		}
		if doc["client_id"] != "casahub" {
			t.Errorf("%s payload client_id = %v", name, doc["client_id"])
		}
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{cfg: config.MQTTSinkConfig{QoS: 1}}

	if err := c.Publish("", []byte("x"), 1, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: err = %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("casahub/events/x/y", []byte("x"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("qos 3: err = %v, want ErrInvalidQoS", err)
	}
	if err := c.Publish("casahub/events/x/y", make([]byte, maxPayloadSize+1), 1, false); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("oversized payload: err = %v, want ErrPublishFailed", err)
	}
	if err := c.Publish("casahub/events/x/y", []byte("x"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected client: err = %v, want ErrNotConnected", err)
	}
}
