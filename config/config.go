package config

import (
	"fmt"
)

type Configs struct {
	Env string

	Database    DatabaseConfigs
	ApiServer   ServerConfigs
	RelayServer ServerConfigs
	Kafka       KafkaConfigs
	Redis       RedisConfigs
	Relay       RelayConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type KafkaConfigs struct {
	Addr string
}

type RedisConfigs struct {
	Addr string
}

type RelayConfigs struct {
	// SessionBufferSize bounds the per-connection outgoing event queue. A
	// session whose queue is full is dropped instead of growing memory.
	SessionBufferSize int
}
