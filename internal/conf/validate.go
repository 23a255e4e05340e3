// validate.go: settings validation
package conf

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateSettings checks the loaded settings for inconsistencies that would
// prevent the application from starting.
func ValidateSettings(settings *Settings) error {
	var errs []string

	if settings.Output.SQLite.Enabled && settings.Output.MySQL.Enabled {
		errs = append(errs, "only one output database may be enabled at a time")
	}
	if !settings.Output.SQLite.Enabled && !settings.Output.MySQL.Enabled {
		errs = append(errs, "one output database must be enabled")
	}
	if settings.Output.SQLite.Enabled && settings.Output.SQLite.Path == "" {
		errs = append(errs, "output.sqlite.path must not be empty")
	}
	if settings.Output.MySQL.Enabled {
		if settings.Output.MySQL.Host == "" {
			errs = append(errs, "output.mysql.host must not be empty")
		}
		if settings.Output.MySQL.Database == "" {
			errs = append(errs, "output.mysql.database must not be empty")
		}
	}

	if settings.WebServer.Enabled {
		port, err := strconv.Atoi(settings.WebServer.Port)
		if err != nil || port < 1 || port > 65535 {
			errs = append(errs, fmt.Sprintf("webserver.port must be a valid port number, got %q", settings.WebServer.Port))
		}
	}

	if settings.AI.Enabled {
		if settings.AI.Provider != "gemini" {
			errs = append(errs, fmt.Sprintf("ai.provider %q is not supported", settings.AI.Provider))
		}
		if settings.AI.APIKey == "" {
			errs = append(errs, "ai.apikey must be set when ai.enabled is true")
		}
		if settings.AI.DailyRequestLimit < 0 || settings.AI.DailyTokenLimit < 0 {
			errs = append(errs, "ai daily limits must not be negative")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
