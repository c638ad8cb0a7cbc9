package util

import (
	"github.com/dawidkulpa/vesync2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		VeSync: config.VeSyncConfig{
			Username:             "test@example.com",
			Password:             "secret",
			TimeZone:             "America/New_York",
			RequestTimeoutMillis: 5000,
		},
		MQTT: config.MQTTConfig{
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "vesync2mqtt",
		},
		MonitorConfig: config.MonitorConfig{
			PollIntervalMillis:    10000,
			RescanIntervalMinutes: 0,
		},
		Port: 8080,
	}
}
