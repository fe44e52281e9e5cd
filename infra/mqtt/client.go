// Package mqtt publishes solved schedules and run summaries to an MQTT
// broker using Eclipse Paho.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coremetrics "github.com/kilianp07/unitcommit/core/metrics"
	"github.com/kilianp07/unitcommit/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker      string      `json:"broker"`
	ClientID    string      `json:"client_id"`
	Username    string      `json:"username"`
	Password    string      `json:"password"`
	TopicPrefix string      `json:"topic_prefix"`
	QoS         byte        `json:"qos"`
	Retain      bool        `json:"retain"`
	UseTLS      bool        `json:"use_tls"`
	ClientCert  string      `json:"client_cert"`
	ClientKey   string      `json:"client_key"`
	CABundle    string      `json:"ca_bundle"`
	AuthMethod  string      `json:"auth_method"`
	MaxRetries  int         `json:"max_retries"`
	BackoffMS   int         `json:"backoff_ms"`
	TLSConfig   *tls.Config `json:"-"`
}

// SetDefaults fills the client id, topic prefix and retry policy.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "unitcommit-" + uuid.NewString()[:8]
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "unitcommit"
	}
	c.TopicPrefix = strings.TrimSuffix(c.TopicPrefix, "/")
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 100
	}
}

// Validate checks the broker address and QoS.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	if c.QoS > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher sends schedules to MQTT topics below the configured prefix:
//
//	<prefix>/status          online/offline (retained, last will)
//	<prefix>/runs            one message per run
//	<prefix>/schedule        the full schedule
//	<prefix>/units/<name>    hourly power of one unit
type Publisher struct {
	cli     pahoClient
	cfg     Config
	log     logger.Logger
	backoff time.Duration
}

// NewPublisher connects to the broker.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	p := &Publisher{cfg: cfg, log: logger.New("mqtt-publisher"), backoff: time.Duration(cfg.BackoffMS) * time.Millisecond}
	opts.OnConnect = func(c paho.Client) {
		p.log.Infof("MQTT connected to %s", cfg.Broker)
		c.Publish(p.topic("status"), cfg.QoS, true, "online")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		p.log.Errorf("connection lost: %v", err)
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	p.cli = c
	return p, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.TopicPrefix != "" {
		opts.SetWill(cfg.TopicPrefix+"/status", "offline", cfg.QoS, true)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

func (p *Publisher) topic(parts ...string) string {
	return p.cfg.TopicPrefix + "/" + strings.Join(parts, "/")
}

// publish sends payload as JSON, retrying with exponential backoff.
func (p *Publisher) publish(topic string, retain bool, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		token := p.cli.Publish(topic, p.cfg.QoS, retain, data)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			return nil
		}
		p.log.Errorf("publish to %s attempt %d failed: %v", topic, attempt+1, publishErr)
		if attempt < p.cfg.MaxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

type runMessage struct {
	MessageID  string  `json:"message_id"`
	RunID      string  `json:"run_id"`
	Backend    string  `json:"backend"`
	State      string  `json:"state"`
	TotalCost  float64 `json:"total_cost"`
	DurationMS int64   `json:"duration_ms"`
	Error      string  `json:"error,omitempty"`
	Timestamp  int64   `json:"timestamp"`
}

// RecordRun publishes a run summary.
func (p *Publisher) RecordRun(ev coremetrics.RunEvent) error {
	return p.publish(p.topic("runs"), false, runMessage{
		MessageID:  uuid.NewString(),
		RunID:      ev.RunID,
		Backend:    ev.Backend,
		State:      ev.State,
		TotalCost:  ev.TotalCost,
		DurationMS: ev.Duration.Milliseconds(),
		Error:      ev.Error,
		Timestamp:  ev.Time.UnixMilli(),
	})
}

type hourPower struct {
	Hour  int       `json:"hour"`
	Start time.Time `json:"start"`
	Power float64   `json:"power_mw"`
}

type unitMessage struct {
	MessageID string      `json:"message_id"`
	RunID     string      `json:"run_id"`
	Unit      string      `json:"unit"`
	Role      string      `json:"role,omitempty"`
	Hours     []hourPower `json:"hours"`
}

type scheduleMessage struct {
	MessageID string                     `json:"message_id"`
	RunID     string                     `json:"run_id"`
	Start     time.Time                  `json:"start"`
	TotalCost float64                    `json:"total_cost"`
	Units     map[string]map[int]float64 `json:"units"`
}

// RecordSchedule publishes the full schedule and one message per unit.
func (p *Publisher) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	if ev.Schedule == nil {
		return nil
	}
	if err := p.publish(p.topic("schedule"), p.cfg.Retain, scheduleMessage{
		MessageID: uuid.NewString(),
		RunID:     ev.RunID,
		Start:     ev.Start,
		TotalCost: ev.Schedule.TotalCost,
		Units:     ev.Schedule.Units,
	}); err != nil {
		return err
	}

	names := make([]string, 0, len(ev.Schedule.Units))
	for n := range ev.Schedule.Units {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		hours := ev.Schedule.Units[n]
		msg := unitMessage{MessageID: uuid.NewString(), RunID: ev.RunID, Unit: n, Role: ev.Roles[n]}
		for h := 1; h <= len(hours); h++ {
			msg.Hours = append(msg.Hours, hourPower{Hour: h, Start: ev.HourTime(h), Power: hours[h]})
		}
		if err := p.publish(p.topic("units", n), p.cfg.Retain, msg); err != nil {
			return err
		}
	}
	return nil
}

// Close marks the publisher offline and disconnects.
func (p *Publisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Publish(p.topic("status"), p.cfg.QoS, true, "offline").Wait()
		p.cli.Disconnect(250)
	}
	return nil
}
