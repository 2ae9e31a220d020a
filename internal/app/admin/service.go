package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/PabloGalante/rajbari-portal/internal/domain"
	"github.com/PabloGalante/rajbari-portal/internal/observability"
)

const (
	diagnosticPrompt      = "Hello, system check. Are you online?"
	diagnosticInstruction = "You are a diagnostic tool. Reply with exactly: 'SYSTEM_ONLINE'"
)

// Diagnostic is the result of a provider connection test.
type Diagnostic struct {
	Online    bool                `json:"online"`
	Mode      domain.ResponseMode `json:"mode"`
	Error     domain.ErrorCode    `json:"error,omitempty"`
	Message   string              `json:"message"`
	Reply     string              `json:"reply,omitempty"`
	LatencyMS int64               `json:"latencyMs"`
	CheckedAt time.Time           `json:"checkedAt"`
}

// Service guards the admin panel with a single PIN and runs diagnostics.
type Service struct {
	pinHash []byte
	gateway domain.Gateway
	now     func() time.Time
}

// NewService creates the admin service. An empty pinHash disables login.
func NewService(pinHash string, gateway domain.Gateway) *Service {
	return &Service{
		pinHash: []byte(strings.TrimSpace(pinHash)),
		gateway: gateway,
		now:     time.Now,
	}
}

func (s *Service) Enabled() bool {
	return len(s.pinHash) > 0
}

// Authenticate checks pin against the configured hash.
func (s *Service) Authenticate(ctx context.Context, pin string) error {
	log := observability.LoggerFromContext(ctx)
	if !s.Enabled() {
		log.Warn("admin login attempted but no pin is configured")
		return domain.ErrAdminDisabled
	}

	err := bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin))
	switch {
	case err == nil:
		log.Info("admin login succeeded")
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		log.Warn("admin login rejected")
		return domain.ErrInvalidPIN
	default:
		log.Error("admin pin hash is unusable", "error", err)
		return fmt.Errorf("verify pin: %w", err)
	}
}

// Diagnostics sends a fixed probe through the gateway and reports how it
// went in the same terms users see.
func (s *Service) Diagnostics(ctx context.Context) Diagnostic {
	started := s.now()
	res := s.gateway.Call(ctx, domain.Request{
		Prompt:            diagnosticPrompt,
		SystemInstruction: diagnosticInstruction,
	})
	d := Diagnostic{
		Mode:      res.Mode,
		Error:     res.Error,
		LatencyMS: s.now().Sub(started).Milliseconds(),
		CheckedAt: started,
	}

	if res.Failed() {
		d.Message = domain.ExplainError(res.Error)
	} else {
		d.Online = true
		d.Reply = res.TextOrEmpty()
		d.Message = fmt.Sprintf("জেমিনি এআই সফলভাবে সংযুক্ত হয়েছে! রেসপন্স মোড: %s", res.Mode)
	}

	observability.LoggerFromContext(ctx).Info("diagnostics completed",
		"online", d.Online,
		"mode", d.Mode,
		"error_code", d.Error,
		"latency_ms", d.LatencyMS)
	return d
}

// HashPIN produces the value to configure as the admin pin hash.
func HashPIN(pin string) (string, error) {
	if len(pin) < 4 {
		return "", errors.New("pin must have at least 4 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hash), nil
}
