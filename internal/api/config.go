package api

import (
	"time"

	"github.com/FocuswithJustin/JuniperReader/core/reader"
	"github.com/FocuswithJustin/JuniperReader/core/selection"
)

// Config holds server configuration.
type Config struct {
	Port     int
	DBPath   string
	Render   reader.RenderConfig // verse label and separator settings
	Debounce time.Duration       // drag-selection settle window (0 = default)
}

// DefaultConfig returns the configuration the serve command starts with.
func DefaultConfig() Config {
	return Config{
		Port:     8080,
		DBPath:   "reader.db",
		Render:   reader.DefaultRenderConfig(),
		Debounce: selection.DefaultDebounce,
	}
}
