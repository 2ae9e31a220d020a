package railway_test

import (
	"testing"

	"github.com/PabloGalante/rajbari-portal/internal/app/railway"
)

func TestMatchStation(t *testing.T) {
	const route = "রাজবাড়ী, পাংশা, ভাঙ্গা জংশন"

	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"latin alias", "The train just passed bhanga and is running late", "ভাঙ্গা জংশন", true},
		{"latin alias upper case", "Currently at BHANGA junction", "ভাঙ্গা জংশন", true},
		{"bengali name", "ট্রেনটি এখন পাংশা স্টেশনে আছে", "পাংশা", true},
		{"bengali spelling variant", "ট্রেনটি রাজবাড়ি পার হয়েছে", "রাজবাড়ী", true},
		{"route order wins", "rajbari to bhanga", "রাজবাড়ী", true},
		{"station not on route", "The train is at Faridpur", "", false},
		{"empty text", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := railway.MatchStation(tt.text, route)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("MatchStation(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSplitRoute(t *testing.T) {
	got := railway.SplitRoute(" রাজবাড়ী ,পাংশা,, ভাঙ্গা জংশন ")
	want := []string{"রাজবাড়ী", "পাংশা", "ভাঙ্গা জংশন"}
	if len(got) != len(want) {
		t.Fatalf("expected %d stations, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("station %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
