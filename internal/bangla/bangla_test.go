package bangla_test

import (
	"testing"
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/bangla"
)

func TestDigitsRoundTrip(t *testing.T) {
	if got := bangla.ToBengaliDigits("06:10 AM"); got != "০৬:১০ AM" {
		t.Fatalf("ToBengaliDigits = %q", got)
	}
	if got := bangla.ToASCIIDigits("সকাল ০৬:১০"); got != "সকাল 06:10" {
		t.Fatalf("ToASCIIDigits = %q", got)
	}
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{4, "শুভ রাত্রি"},
		{5, "শুভ সকাল"},
		{11, "শুভ সকাল"},
		{12, "শুভ দুপুর"},
		{16, "শুভ অপরাহ্ন"},
		{18, "শুভ সন্ধ্যা"},
		{23, "শুভ রাত্রি"},
	}
	for _, tc := range tests {
		at := time.Date(2026, 10, 15, tc.hour, 0, 0, 0, time.UTC)
		if got := bangla.Greeting(at); got != tc.want {
			t.Errorf("Greeting(%02d:00) = %q, want %q", tc.hour, got, tc.want)
		}
	}
}

func TestLongDate(t *testing.T) {
	tests := []struct {
		day  int
		want string
	}{
		{1, "১লা অক্টোবর, ২০২৬ খ্রিস্টাব্দ"},
		{3, "৩রা অক্টোবর, ২০২৬ খ্রিস্টাব্দ"},
		{4, "৪ঠা অক্টোবর, ২০২৬ খ্রিস্টাব্দ"},
		{15, "১৫ই অক্টোবর, ২০২৬ খ্রিস্টাব্দ"},
		{21, "২১শে অক্টোবর, ২০২৬ খ্রিস্টাব্দ"},
	}
	for _, tc := range tests {
		at := time.Date(2026, 10, tc.day, 9, 0, 0, 0, time.UTC)
		if got := bangla.LongDate(at); got != tc.want {
			t.Errorf("LongDate(day %d) = %q, want %q", tc.day, got, tc.want)
		}
	}
}

func TestWeekday(t *testing.T) {
	at := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) // Thursday
	if got := bangla.Weekday(at); got != "বৃহস্পতিবার" {
		t.Fatalf("Weekday = %q", got)
	}
}
