package main

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// SERVER_ADDR points at a running messenger server.
	ServerAddr string `envconfig:"SERVER_ADDR" default:"http://localhost:5000"`
	// ADMIN_KEY must match the server's provisioning key.
	AdminKey string `envconfig:"ADMIN_KEY" required:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
