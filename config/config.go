/*
Copyright 2025 Spendtrail Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const DEFAULT_PORT = "5001"

var ConfigStore atomic.Value

type ServerConfig struct {
	Secure    bool   `json:"secure" envconfig:"SPENDTRAIL_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"SPENDTRAIL_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"SPENDTRAIL_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"SPENDTRAIL_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"SPENDTRAIL_REDIS_DNS"`
}

// TokenBucketConfig describes the per-identity-key bucket consulted by the
// admission gate: RefillRate tokens are added every IntervalSec seconds up to
// Capacity, and every inbound request costs RequestCost tokens.
type TokenBucketConfig struct {
	RefillRate  int64 `json:"refill_rate" envconfig:"SPENDTRAIL_ADMISSION_REFILL_RATE"`
	IntervalSec int64 `json:"interval_sec" envconfig:"SPENDTRAIL_ADMISSION_INTERVAL_SEC"`
	Capacity    int64 `json:"capacity" envconfig:"SPENDTRAIL_ADMISSION_CAPACITY"`
	RequestCost int64 `json:"request_cost" envconfig:"SPENDTRAIL_ADMISSION_REQUEST_COST"`
}

type AdmissionConfig struct {
	Disabled       bool              `json:"disabled" envconfig:"SPENDTRAIL_ADMISSION_DISABLED"`
	TokenBucket    TokenBucketConfig `json:"token_bucket"`
	BotAllow       []string          `json:"bot_allow" envconfig:"SPENDTRAIL_ADMISSION_BOT_ALLOW"`
	ShieldPatterns []string          `json:"shield_patterns"`
}

// RateLimitConfig drives the optional instance-wide tollbooth limiter. It is
// a coarse second line of defense behind the per-identity admission bucket
// and is disabled unless both RPS and burst are set.
type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"SPENDTRAIL_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"SPENDTRAIL_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"SPENDTRAIL_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type EventsConfig struct {
	Brokers []string `json:"brokers" envconfig:"SPENDTRAIL_EVENTS_BROKERS"`
	Topic   string   `json:"topic" envconfig:"SPENDTRAIL_EVENTS_TOPIC"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"SPENDTRAIL_PROJECT_NAME"`
	Server       ServerConfig     `json:"server"`
	DataSource   DataSourceConfig `json:"data_source"`
	Redis        RedisConfig      `json:"redis"`
	Admission    AdmissionConfig  `json:"admission"`
	RateLimit    RateLimitConfig  `json:"rate_limit"`
	Notification Notification     `json:"notification"`
	Events       EventsConfig     `json:"events"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("spendtrail", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called spendtrail.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Spendtrail Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	cnf.Admission.addDefaults()

	// Instance-wide rate limiting is disabled by default (both RPS and Burst nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	if cnf.Events.Topic == "" {
		cnf.Events.Topic = "transaction_created"
	}

	return nil
}

func (a *AdmissionConfig) addDefaults() {
	if a.TokenBucket.RefillRate <= 0 {
		a.TokenBucket.RefillRate = 5
	}
	if a.TokenBucket.IntervalSec <= 0 {
		a.TokenBucket.IntervalSec = 10
	}
	if a.TokenBucket.Capacity <= 0 {
		a.TokenBucket.Capacity = 10
	}
	if a.TokenBucket.RequestCost <= 0 {
		a.TokenBucket.RequestCost = 5
	}
	if len(a.BotAllow) == 0 {
		a.BotAllow = []string{"SEARCH_ENGINE"}
	}
}

// MockConfig loads a default configuration for tests. Callers may override
// fields on the returned value before use; the store holds a pointer.
func MockConfig(overrides *Configuration) *Configuration {
	cnf := Configuration{
		ProjectName: "Spendtrail Test",
		Server:      ServerConfig{Port: DEFAULT_PORT},
		DataSource:  DataSourceConfig{Dns: "postgres://postgres:@localhost:5432/spendtrail?sslmode=disable"},
		Redis:       RedisConfig{Dns: "localhost:6379"},
	}
	if overrides != nil {
		cnf = *overrides
	}
	cnf.Admission.addDefaults()
	ConfigStore.Store(&cnf)
	return &cnf
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
