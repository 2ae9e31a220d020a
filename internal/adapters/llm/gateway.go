package llm

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/domain"
	"github.com/PabloGalante/rajbari-portal/internal/observability"
)

const (
	DefaultModel         = "gemini-3-flash-preview"
	DefaultSearchTimeout = 45 * time.Second
	DefaultPlainTimeout  = 25 * time.Second
)

// modeFor picks the live mode for a successful call.
func modeFor(useSearch bool) domain.ResponseMode {
	if useSearch {
		return domain.ModeLiveSearch
	}
	return domain.ModeLive
}

// cleanSources drops entries without a usable URI and repeated URIs.
func cleanSources(in []domain.Source) []domain.Source {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.Source, 0, len(in))
	for _, s := range in {
		uri := strings.TrimSpace(s.URI)
		if uri == "" || uri == "#" || !strings.HasPrefix(uri, "http") {
			continue
		}
		if _, dup := seen[uri]; dup {
			continue
		}
		seen[uri] = struct{}{}
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = uri
		}
		out = append(out, domain.Source{Title: title, URI: uri})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// record logs and counts the outcome of one call.
func record(ctx context.Context, backend string, req domain.Request, res domain.Result, started time.Time) {
	elapsed := time.Since(started)
	observability.AICallDuration.WithLabelValues(strconv.FormatBool(req.UseSearch)).Observe(elapsed.Seconds())
	observability.AICallsTotal.WithLabelValues(string(res.Mode), string(res.Error)).Inc()

	log := observability.LoggerFromContext(ctx).With(
		"backend", backend,
		"use_search", req.UseSearch,
		"category", req.Category,
		"mode", res.Mode,
		"duration_ms", elapsed.Milliseconds(),
	)
	if res.Failed() {
		log.Warn("ai call failed", "error_code", res.Error, "detail", res.Detail)
		return
	}
	log.Info("ai call succeeded", "sources", len(res.Sources))
}
