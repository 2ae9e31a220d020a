package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/rajbari-portal/internal/domain"
)

// MockGateway answers without any network access. It is used for local
// development when no provider is configured.
type MockGateway struct{}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Call(_ context.Context, req domain.Request) domain.Result {
	if req.Category != "" {
		return domain.Success("[]", modeFor(req.UseSearch), nil)
	}

	turns := BuildTurns(req)
	last := turns[len(turns)-1].Text
	return domain.Success(
		fmt.Sprintf("আমি শুনছি। আপনি লিখেছেন %q। এটি অফলাইন ডেভেলপমেন্ট মোডের উত্তর।", last),
		modeFor(req.UseSearch),
		nil,
	)
}
