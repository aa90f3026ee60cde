package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	Port      string `envconfig:"PORT" default:"8080"`
	MongoURI  string `envconfig:"MONGOURI" required:"true"`
	DBName    string `envconfig:"DB" default:"rental_management"`
	RedisAddr string `envconfig:"REDIS_ADD" default:"localhost:6379"`
	RedisPass string `envconfig:"REDIS_PASS"`
	JWTKey    string `envconfig:"JWT_KEY" required:"true"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
