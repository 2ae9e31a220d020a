package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"github.com/PabloGalante/rajbari-portal/internal/domain"
	"github.com/PabloGalante/rajbari-portal/internal/observability"
)

// contentGenerator is the part of the genai client the gateway uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiConfig struct {
	APIKey        string
	Model         string
	SearchTimeout time.Duration
	PlainTimeout  time.Duration
}

func (c GeminiConfig) withDefaults() GeminiConfig {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = DefaultSearchTimeout
	}
	if c.PlainTimeout <= 0 {
		c.PlainTimeout = DefaultPlainTimeout
	}
	return c
}

// GeminiGateway implements domain.Gateway on top of the Gemini API.
type GeminiGateway struct {
	models contentGenerator // nil when no credential is configured
	cfg    GeminiConfig
	now    func() time.Time
}

// NewGeminiGateway creates a gateway. An empty API key is not an error: the
// gateway is still returned and answers every call with CREDENTIAL_MISSING.
func NewGeminiGateway(ctx context.Context, cfg GeminiConfig) (*GeminiGateway, error) {
	cfg = cfg.withDefaults()
	g := &GeminiGateway{cfg: cfg, now: time.Now}

	if !hasCredential(cfg.APIKey) {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	g.models = client.Models
	return g, nil
}

func hasCredential(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != "undefined"
}

type generation struct {
	resp *genai.GenerateContentResponse
	err  error
}

// Call implements domain.Gateway.
func (g *GeminiGateway) Call(ctx context.Context, req domain.Request) domain.Result {
	started := time.Now()
	ctx, span := observability.Tracer().Start(ctx, "gemini.generate_content")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.model", g.cfg.Model),
		attribute.Bool("ai.use_search", req.UseSearch),
		attribute.String("ai.category", string(req.Category)),
	)

	res := g.call(ctx, req)

	span.SetAttributes(attribute.String("ai.mode", string(res.Mode)))
	if res.Failed() {
		transient := res.Error == domain.ErrCodeTimeout || res.Error == domain.ErrCodeGateway
		observability.RecordError(span, errors.New(res.Detail), string(res.Error), transient)
	}
	record(ctx, "gemini", req, res, started)
	return res
}

func (g *GeminiGateway) call(ctx context.Context, req domain.Request) domain.Result {
	if g.models == nil {
		return domain.Failure(domain.ErrCodeCredentialMissing, "no API key configured")
	}

	var contents []*genai.Content
	for _, t := range BuildTurns(req) {
		var role genai.Role = genai.RoleUser
		if t.Role == domain.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}

	temp := float32(0.1)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(BuildSystemInstruction(req, g.now()), genai.RoleUser),
		Temperature:       &temp,
	}
	if req.UseSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	timeout := g.cfg.PlainTimeout
	if req.UseSearch {
		timeout = g.cfg.SearchTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so a late provider answer never blocks the goroutine.
	done := make(chan generation, 1)
	go func() {
		resp, err := g.models.GenerateContent(callCtx, g.cfg.Model, contents, cfg)
		done <- generation{resp: resp, err: err}
	}()

	var out generation
	select {
	case out = <-done:
	case <-callCtx.Done():
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return domain.Failure(domain.ErrCodeTimeout, fmt.Sprintf("no answer within %s", timeout))
		}
		return domain.Failure(domain.ErrCodeGateway, callCtx.Err().Error())
	}

	if out.err != nil {
		if errors.Is(out.err, context.DeadlineExceeded) {
			return domain.Failure(domain.ErrCodeTimeout, out.err.Error())
		}
		return domain.Failure(domain.ErrCodeGateway, out.err.Error())
	}
	if out.resp == nil {
		return domain.Failure(domain.ErrCodeEmptyResponse, "nil response")
	}

	text := out.resp.Text()
	if strings.TrimSpace(text) == "" {
		return domain.Failure(domain.ErrCodeEmptyResponse, "response has no text")
	}

	return domain.Success(text, modeFor(req.UseSearch), groundingSources(out.resp))
}

func groundingSources(resp *genai.GenerateContentResponse) []domain.Source {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}

	var sources []domain.Source
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		sources = append(sources, domain.Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return cleanSources(sources)
}
