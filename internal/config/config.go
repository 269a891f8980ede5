package config

import "time"

type Config interface {
	EnvConfig
	BackendConfig
	SessionConfig
	StorageConfig
	EventsConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type BackendConfig interface {
	GetBackendURL() string
	GetBackendTimeout() time.Duration
	GetForwardCardSecurityFields() bool
}

type SessionConfig interface {
	GetTokenStorageKey() string
	GetDraftStorageKey() string
	GetBrowserCookieName() string
	GetSecureCookies() bool
	GetMaxDraftAge() time.Duration
}

type StorageConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

type EventsConfig interface {
	GetRabbitMQURL() string
	GetBookingConfirmedQueue() string
}

type mainConfig struct {
	EnvVars
	Backend
	Session
	Storage
	Events
	Security
}

func New() Config {
	return mainConfig{}
}
