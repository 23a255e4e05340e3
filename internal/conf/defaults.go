// defaults.go: default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaultConfig registers the default value for every configuration key.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "PlanBoard")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/planboard.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "planboard.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "planboard")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "planboard")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.allowedorigins", []string{"*"})
	viper.SetDefault("webserver.bodylimit", "1M")
	viper.SetDefault("webserver.readtimeout", 30*time.Second)
	viper.SetDefault("webserver.writetimeout", 30*time.Second)
	viper.SetDefault("webserver.log.enabled", true)
	viper.SetDefault("webserver.log.path", "logs/webserver.log")

	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.apikey", "")
	viper.SetDefault("ai.model", "gemini-2.5-flash")
	viper.SetDefault("ai.endpoint", "")
	viper.SetDefault("ai.timeout", 30*time.Second)
	viper.SetDefault("ai.cache.enabled", true)
	viper.SetDefault("ai.cache.ttl", 24*time.Hour)
	viper.SetDefault("ai.dailyrequestlimit", 1000)
	viper.SetDefault("ai.dailytokenlimit", 500000)
}

// defaultSettings returns a Settings struct populated with the default values.
func defaultSettings() *Settings {
	return &Settings{
		Debug: false,
		Main: MainSettings{
			Name: "PlanBoard",
			Log: LogConfig{
				Enabled:  true,
				Path:     "logs/planboard.log",
				Rotation: RotationDaily,
				MaxSize:  1048576,
			},
		},
		Output: OutputSettings{
			SQLite: SQLiteSettings{
				Enabled: true,
				Path:    "planboard.db",
			},
			MySQL: MySQLSettings{
				Enabled:  false,
				Username: "planboard",
				Password: "secret",
				Database: "planboard",
				Host:     "localhost",
				Port:     "3306",
			},
		},
		WebServer: WebServerSettings{
			Enabled:        true,
			Port:           "8080",
			AllowedOrigins: []string{"*"},
			BodyLimit:      "1M",
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			Log: LogConfig{
				Enabled: true,
				Path:    "logs/webserver.log",
			},
		},
		AI: AISettings{
			Enabled:  false,
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			Timeout:  30 * time.Second,
			Cache: AICacheSettings{
				Enabled: true,
				TTL:     24 * time.Hour,
			},
			DailyRequestLimit: 1000,
			DailyTokenLimit:   500000,
		},
	}
}
