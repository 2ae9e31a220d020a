package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/PabloGalante/rajbari-portal/internal/domain"
)

const bridgeTimeout = 30 * time.Second

// WirePart, WireContent and WireTool mirror the provider's content shape on
// the bridge wire.
type WirePart struct {
	Text string `json:"text"`
}

type WireContent struct {
	Role  string     `json:"role"`
	Parts []WirePart `json:"parts"`
}

type WireTool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

// BridgeRequest is the body of POST /api/ai. Contents is either a JSON
// string or an array of WireContent.
type BridgeRequest struct {
	Contents          json.RawMessage `json:"contents"`
	SystemInstruction string          `json:"systemInstruction,omitempty"`
	Tools             []WireTool      `json:"tools,omitempty"`
	Category          string          `json:"category,omitempty"`
}

// BridgeResponse is the body returned by POST /api/ai.
type BridgeResponse struct {
	Text    string              `json:"text,omitempty"`
	Mode    domain.ResponseMode `json:"mode,omitempty"`
	Sources []domain.Source     `json:"sources,omitempty"`
	Error   string              `json:"error,omitempty"`
	Details string              `json:"details,omitempty"`
}

// NewBridgeRequest encodes a domain request for the wire.
func NewBridgeRequest(req domain.Request) (BridgeRequest, error) {
	turns := BuildTurns(req)
	contents := make([]WireContent, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, WireContent{Role: string(t.Role), Parts: []WirePart{{Text: t.Text}}})
	}
	raw, err := json.Marshal(contents)
	if err != nil {
		return BridgeRequest{}, fmt.Errorf("encoding contents: %w", err)
	}

	out := BridgeRequest{
		Contents:          raw,
		SystemInstruction: req.SystemInstruction,
		Category:          string(req.Category),
	}
	if req.UseSearch {
		out.Tools = []WireTool{{GoogleSearch: &struct{}{}}}
	}
	return out, nil
}

// DomainRequest decodes a wire request.
func (b BridgeRequest) DomainRequest() (domain.Request, error) {
	req := domain.Request{
		SystemInstruction: b.SystemInstruction,
		Category:          domain.Category(b.Category),
	}
	for _, tool := range b.Tools {
		if tool.GoogleSearch != nil {
			req.UseSearch = true
		}
	}

	raw := bytes.TrimSpace(b.Contents)
	if len(raw) == 0 {
		return req, errors.New("contents is required")
	}

	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &req.Prompt); err != nil {
			return req, fmt.Errorf("decoding contents: %w", err)
		}
		if strings.TrimSpace(req.Prompt) == "" {
			return req, errors.New("contents is required")
		}
		return req, nil
	}

	var contents []WireContent
	if err := json.Unmarshal(raw, &contents); err != nil {
		return req, fmt.Errorf("decoding contents: %w", err)
	}
	if len(contents) == 0 {
		return req, errors.New("contents is required")
	}
	for _, c := range contents {
		var text strings.Builder
		for _, p := range c.Parts {
			text.WriteString(p.Text)
		}
		req.Turns = append(req.Turns, domain.Turn{Role: domain.Role(c.Role), Text: text.String()})
	}
	return req, nil
}

// BridgeGateway implements domain.Gateway by posting to a portal bridge
// endpoint instead of calling the provider directly.
type BridgeGateway struct {
	endpoint string
	client   *http.Client
}

// NewBridgeGateway creates a bridge client. A non-positive timeout means 30s.
func NewBridgeGateway(baseURL string, timeout time.Duration) *BridgeGateway {
	if timeout <= 0 {
		timeout = bridgeTimeout
	}
	return &BridgeGateway{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/ai",
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Call implements domain.Gateway.
func (b *BridgeGateway) Call(ctx context.Context, req domain.Request) domain.Result {
	started := time.Now()
	res := b.call(ctx, req)
	record(ctx, "bridge", req, res, started)
	return res
}

func (b *BridgeGateway) call(ctx context.Context, req domain.Request) domain.Result {
	wire, err := NewBridgeRequest(req)
	if err != nil {
		return domain.Failure(domain.ErrCodeGateway, err.Error())
	}
	body, err := json.Marshal(wire)
	if err != nil {
		return domain.Failure(domain.ErrCodeGateway, fmt.Sprintf("encoding request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Failure(domain.ErrCodeGateway, fmt.Sprintf("building request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return domain.Failure(domain.ErrCodeTimeout, err.Error())
		}
		return domain.Failure(domain.ErrCodeGateway, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return domain.Failure(domain.ErrCodeTimeout, err.Error())
		}
		return domain.Failure(domain.ErrCodeGateway, fmt.Sprintf("reading response: %v", err))
	}

	var out BridgeResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr != nil || out.Error == "" {
			return domain.Failure(domain.ErrCodeGateway, fmt.Sprintf("bridge returned %d", resp.StatusCode))
		}
		return domain.Failure(bridgeErrorCode(out.Error), out.Details)
	}
	if decodeErr != nil {
		return domain.Failure(domain.ErrCodeGateway, fmt.Sprintf("decoding response: %v", decodeErr))
	}
	if strings.TrimSpace(out.Text) == "" {
		return domain.Failure(domain.ErrCodeEmptyResponse, "bridge returned no text")
	}

	return domain.Success(out.Text, modeFor(req.UseSearch), cleanSources(out.Sources))
}

func bridgeErrorCode(s string) domain.ErrorCode {
	switch code := domain.ErrorCode(s); code {
	case domain.ErrCodeCredentialMissing, domain.ErrCodeTimeout, domain.ErrCodeEmptyResponse,
		domain.ErrCodeGateway, domain.ErrCodeParseFailure:
		return code
	case "API_KEY_MISSING":
		return domain.ErrCodeCredentialMissing
	default:
		return domain.ErrCodeGateway
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
