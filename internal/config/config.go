package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sensor-management-system/orchestration-sub007/common/config"
	"gopkg.in/yaml.v3"
)

// Config 部署查询服务配置
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	Database struct {
		Enabled               bool `yaml:"enabled"`
		config.DatabaseConfig `yaml:",inline"`
	} `yaml:"database"`

	Redis config.RedisConfig `yaml:"redis"`

	// 安装记录快照缓存
	Cache struct {
		Enabled    bool `yaml:"enabled"`
		TTLSeconds int  `yaml:"ttl_seconds"`
	} `yaml:"cache"`

	MQTT struct {
		Enabled           bool   `yaml:"enabled"`
		Topic             string `yaml:"topic"`
		config.MQTTConfig `yaml:",inline"`
	} `yaml:"mqtt"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load 加载配置：默认值 -> CONFIG_FILE 指定的 YAML -> 环境变量
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.loadEnv()
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}

	cfg.HTTP.Addr = ":8080"

	cfg.Database.Enabled = true
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "sms"
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxConns = 25
	cfg.Database.MaxIdle = 5

	cfg.Redis.Addr = "localhost:6379"

	cfg.Cache.Enabled = true
	cfg.Cache.TTLSeconds = 60 // 1分钟

	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "wisefido-deployment"
	cfg.MQTT.QoS = 1
	cfg.MQTT.Topic = "sms/mount-actions/changed"

	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)

	c.Database.Enabled = getEnvBool("DB_ENABLED", c.Database.Enabled)
	c.Database.LoadFromEnv("DB")
	c.Redis.LoadFromEnv("REDIS")

	c.Cache.Enabled = getEnvBool("CACHE_ENABLED", c.Cache.Enabled)
	if ttl := getEnvInt("CACHE_TTL_SECONDS", c.Cache.TTLSeconds); ttl > 0 {
		c.Cache.TTLSeconds = ttl
	}

	c.MQTT.Enabled = getEnvBool("MQTT_ENABLED", c.MQTT.Enabled)
	c.MQTT.Topic = getEnv("MQTT_TOPIC", c.MQTT.Topic)
	c.MQTT.LoadFromEnv("MQTT")

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
