package main

import "time"

type Config struct {
	Port                 int           `env:"PORT,default=5000"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	AdminKey             string        `env:"ADMIN_KEY,required=true"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=168h"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	HistoryLimit         int           `env:"HISTORY_LIMIT,default=1000"`
	HeartbeatInterval    time.Duration `env:"HEARTBEAT_INTERVAL,default=30s"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
}
