package commands

import (
	"strings"

	"github.com/goliatone/go-contentjson/internal/logging"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

// CommandLogger scopes a logger to contentjson.commands.<area>, e.g.
// contentjson.commands.manifest. An empty area maps to "core".
func CommandLogger(provider interfaces.LoggerProvider, area string) interfaces.Logger {
	area = strings.ToLower(strings.TrimSpace(area))
	if area == "" {
		area = "core"
	}
	return logging.WithFields(
		logging.ModuleLogger(provider, "contentjson.commands."+area),
		map[string]any{"component": "command", "command_area": area},
	)
}
