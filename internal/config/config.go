package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	ModeWeb      = "web"
	ModeTerminal = "terminal"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Mode       string `yaml:"mode" env:"MODE" env-default:"web"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	SessionID  string `yaml:"session-id" env:"SESSION_ID" env-default:"local"`
	Redis      Redis  `yaml:"redis" env-prefix:"REDIS_"`
}

type Redis struct {
	Enabled  bool   `yaml:"enabled" env:"ENABLED" env-default:"false"`
	Host     string `yaml:"host" env:"HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PORT" env-default:"6379"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file, environment variables take precedence.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
