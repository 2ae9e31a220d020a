package railway_test

import (
	"strings"
	"testing"
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/app/railway"
	"github.com/PabloGalante/rajbari-portal/internal/domain"
)

func sampleTrain(departure string) domain.Train {
	return domain.Train{
		ID:            "t1",
		Name:          "মধুমতি এক্সপ্রেস",
		Route:         "রাজবাড়ী - ঢাকা",
		DetailedRoute: "রাজবাড়ী, পাংশা, কালুখালী, ভাটিয়াপাড়া, ভাঙ্গা জংশন",
		Departure:     departure,
		Type:          domain.TrainIntercity,
	}
}

func TestEstimatePositions(t *testing.T) {
	est := railway.NewEstimator()
	at := func(h, m int) time.Time {
		return time.Date(2026, 10, 15, h, m, 0, 0, est.Location())
	}

	tests := []struct {
		name      string
		departure string
		now       time.Time
		wantIdx   int
		wantSt    string
		departed  bool
	}{
		{"before departure", "06:10 AM", at(5, 0), 0, "রাজবাড়ী", false},
		{"at departure", "06:10 AM", at(6, 10), 0, "রাজবাড়ী", true},
		{"one stop later", "06:10 AM", at(6, 40), 1, "পাংশা", true},
		{"just short of next stop", "06:10 AM", at(7, 9), 1, "পাংশা", true},
		{"clamped to last station", "06:10 AM", at(23, 0), 4, "ভাঙ্গা জংশন", true},
		{"pm departure", "02:00 PM", at(15, 5), 2, "কালুখালী", true},
		{"bengali digits", "০৬:১০ AM", at(6, 40), 1, "পাংশা", true},
		{"malformed departure", "soon", at(12, 0), 0, "রাজবাড়ী", false},
		{"missing marker", "06:10", at(12, 0), 0, "রাজবাড়ী", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := est.Estimate(sampleTrain(tt.departure), tt.now, domain.ErrCodeGateway)
			if got.Index != tt.wantIdx {
				t.Fatalf("expected index %d, got %d", tt.wantIdx, got.Index)
			}
			if got.Station != tt.wantSt {
				t.Fatalf("expected station %q, got %q", tt.wantSt, got.Station)
			}
			if got.Departed != tt.departed {
				t.Fatalf("expected departed=%v, got %v", tt.departed, got.Departed)
			}
			if got.Confidence != railway.FallbackConfidence {
				t.Fatalf("expected confidence %v, got %v", railway.FallbackConfidence, got.Confidence)
			}
		})
	}
}

func TestEstimateUsesDhakaWallClock(t *testing.T) {
	est := railway.NewEstimator()
	// 00:40 UTC is 06:40 in Dhaka.
	now := time.Date(2026, 10, 15, 0, 40, 0, 0, time.UTC)

	got := est.Estimate(sampleTrain("06:10 AM"), now, domain.ErrCodeGateway)
	if got.Index != 1 {
		t.Fatalf("expected index 1, got %d", got.Index)
	}
}

func TestEstimateEmptyRoute(t *testing.T) {
	est := railway.NewEstimator()
	train := sampleTrain("06:10 AM")
	train.DetailedRoute = ""

	got := est.Estimate(train, time.Date(2026, 10, 15, 9, 0, 0, 0, est.Location()), domain.ErrCodeGateway)
	if got.Index != 0 || got.Station != "" {
		t.Fatalf("expected empty estimate, got index=%d station=%q", got.Index, got.Station)
	}
	if got.Message == "" {
		t.Fatalf("expected a message even without a route")
	}
}

func TestEstimateMessageMentionsCause(t *testing.T) {
	est := railway.NewEstimator()
	now := time.Date(2026, 10, 15, 6, 40, 0, 0, est.Location())

	timeout := est.Estimate(sampleTrain("06:10 AM"), now, domain.ErrCodeTimeout)
	other := est.Estimate(sampleTrain("06:10 AM"), now, domain.ErrCodeGateway)

	if timeout.Message == other.Message {
		t.Fatalf("expected timeout message to differ from generic one")
	}
	if !strings.Contains(timeout.Message, "অনেক সময় লাগছে") {
		t.Fatalf("timeout message missing delay note: %q", timeout.Message)
	}
	for _, msg := range []string{timeout.Message, other.Message} {
		if !strings.Contains(msg, "পাংশা") {
			t.Fatalf("message should name estimated station: %q", msg)
		}
		if !strings.Contains(msg, "আনুমানিক") {
			t.Fatalf("message should say the position is approximate: %q", msg)
		}
	}
}

func TestParseDeparture(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"06:10 AM", 6*60 + 10, true},
		{"12:05 AM", 5, true},
		{"12:30 PM", 12*60 + 30, true},
		{"11:59 pm", 23*60 + 59, true},
		{"০৭:৩০ PM", 19*60 + 30, true},
		{"13:00 PM", 0, false},
		{"6 AM", 0, false},
		{"", 0, false},
		{"06:61 AM", 0, false},
	}

	for _, tt := range tests {
		got, ok := railway.ParseDeparture(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseDeparture(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
