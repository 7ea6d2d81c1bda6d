// internal/pkg/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config 汇总 order-service 的全部运行时配置。
// 配置来源优先级：环境变量 > YAML 文件 > 内置默认值。
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	MySQL struct {
		DSN string `yaml:"dsn"`
	} `yaml:"mysql"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		EventTopic   string   `yaml:"event_topic"`
		CommandTopic string   `yaml:"command_topic"`
		GroupID      string   `yaml:"group_id"`
	} `yaml:"kafka"`
	Jaeger struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"jaeger"`
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.MySQL.DSN = "root:root@tcp(localhost:3306)/tienda?charset=utf8mb4&parseTime=True&loc=Local"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Kafka.EventTopic = "order-events"
	cfg.Kafka.CommandTopic = "order-commands"
	cfg.Kafka.GroupID = "order-service"
	cfg.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	return cfg
}

// Load 读取配置。path 为空或文件不存在时只用默认值加环境变量。
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config file %s", path)
			}
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := getEnv("SERVER_PORT", ""); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := getEnv("MYSQL_DSN", ""); v != "" {
		cfg.MySQL.DSN = v
	}
	if v := getEnv("REDIS_ADDR", ""); v != "" {
		cfg.Redis.Addr = v
	}
	if v := getEnv("KAFKA_BROKERS", ""); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getEnv("KAFKA_EVENT_TOPIC", ""); v != "" {
		cfg.Kafka.EventTopic = v
	}
	if v := getEnv("KAFKA_COMMAND_TOPIC", ""); v != "" {
		cfg.Kafka.CommandTopic = v
	}
	if v := getEnv("KAFKA_GROUP_ID", ""); v != "" {
		cfg.Kafka.GroupID = v
	}
	if v := getEnv("JAEGER_ENDPOINT", ""); v != "" {
		cfg.Jaeger.Endpoint = v
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
