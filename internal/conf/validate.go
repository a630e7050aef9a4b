package conf

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateSettings checks the loaded settings for values that would fail at
// runtime. It returns a single error listing every problem found.
func ValidateSettings(settings *Settings) error {
	var problems []string

	if settings.WebServer.Enabled {
		port, err := strconv.Atoi(settings.WebServer.Port)
		if err != nil || port < 1 || port > 65535 {
			problems = append(problems, fmt.Sprintf("webserver.port must be a valid port number, got %q", settings.WebServer.Port))
		}
		if settings.WebServer.MaxUploadSizeMB <= 0 {
			problems = append(problems, "webserver.maxuploadsizemb must be positive")
		}
		if len(settings.WebServer.AllowedTypes) == 0 {
			problems = append(problems, "webserver.allowedtypes must list at least one extension")
		}
		for _, ext := range settings.WebServer.AllowedTypes {
			if !strings.HasPrefix(ext, ".") {
				problems = append(problems, fmt.Sprintf("webserver.allowedtypes entry %q must start with a dot", ext))
			}
		}
	}

	if settings.Detector.UseTrainedModel && settings.Detector.ModelPath == "" {
		problems = append(problems, "detector.modelpath must be set when detector.usetrainedmodel is true")
	}

	if settings.Output.SQLite.Enabled && settings.Output.SQLite.Path == "" {
		problems = append(problems, "output.sqlite.path must be set when output.sqlite.enabled is true")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}

	return nil
}
