package llm

import "time"

func NewGeminiGatewayWithGenerator(gen contentGenerator, cfg GeminiConfig, now func() time.Time) *GeminiGateway {
	return &GeminiGateway{models: gen, cfg: cfg.withDefaults(), now: now}
}
