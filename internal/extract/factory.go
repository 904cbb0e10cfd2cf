package extract

import (
	"strings"

	"github.com/slimreset/slimcoach/internal/config"
)

const (
	ModeMock   = "mock"
	ModeOpenAI = "openai"
	ModeGemini = "gemini"
)

func NewAnalyzer(cfg *config.Config) Analyzer {
	mode := strings.ToLower(strings.TrimSpace(cfg.ExtractMode))
	if mode == "" {
		mode = ModeMock
	}

	switch mode {
	case ModeOpenAI:
		return NewOpenAIAnalyzer(cfg)
	case ModeGemini:
		return NewGeminiAnalyzer(cfg)
	default:
		return NewMockAnalyzer()
	}
}
