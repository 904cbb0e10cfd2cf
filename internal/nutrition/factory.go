package nutrition

import (
	"strings"

	"github.com/slimreset/slimcoach/internal/config"
)

const (
	ModeMock   = "mock"
	ModeEdamam = "edamam"
)

func NewLookup(cfg *config.Config) Lookup {
	mode := strings.ToLower(strings.TrimSpace(cfg.NutritionMode))
	if mode == "" {
		mode = ModeMock
	}

	switch mode {
	case ModeEdamam:
		return NewEdamamLookup(cfg)
	default:
		return NewMockLookup()
	}
}
