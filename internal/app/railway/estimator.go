package railway

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/bangla"
	"github.com/PabloGalante/rajbari-portal/internal/domain"
)

const (
	// minutesPerStop is the assumed running time between listed stops.
	minutesPerStop = 30

	// FallbackConfidence is reported for schedule-based estimates.
	FallbackConfidence = 0.7
)

// Estimate is a schedule-based, non-authoritative train position.
type Estimate struct {
	Message    string
	Station    string // empty when the route has no stations
	Index      int
	Departed   bool
	Confidence float64
}

// Estimator computes offline train positions from the timetable.
type Estimator struct {
	loc *time.Location
}

// NewEstimator creates an estimator working in the Asia/Dhaka zone.
func NewEstimator() *Estimator {
	return &Estimator{loc: bangla.Dhaka()}
}

// Location returns the zone the estimator reads wall-clock time in.
func (e *Estimator) Location() *time.Location {
	return e.loc
}

// Estimate places the train on its route assuming a fixed running time
// between stops. A departure string that does not parse puts the train at
// the first station. cause selects the explanatory prefix of the message.
func (e *Estimator) Estimate(train domain.Train, now time.Time, cause domain.ErrorCode) Estimate {
	stations := SplitRoute(train.DetailedRoute)

	local := now.In(e.loc)
	nowMinutes := local.Hour()*60 + local.Minute()

	idx := 0
	departed := false
	if dep, ok := ParseDeparture(train.Departure); ok {
		if elapsed := nowMinutes - dep; elapsed >= 0 {
			departed = true
			idx = elapsed / minutesPerStop
		}
	}
	if idx > len(stations)-1 {
		idx = len(stations) - 1
	}
	if idx < 0 {
		idx = 0
	}

	station := ""
	if len(stations) > 0 {
		station = stations[idx]
	}

	return Estimate{
		Message:    fallbackMessage(train, station, departed, cause),
		Station:    station,
		Index:      idx,
		Departed:   departed,
		Confidence: FallbackConfidence,
	}
}

// ParseDeparture converts "hh:mm AM" (ASCII or Bengali digits) to minutes
// since midnight.
func ParseDeparture(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(bangla.ToASCIIDigits(s)))
	if s == "" {
		return 0, false
	}

	var clock, marker string
	switch {
	case strings.HasSuffix(s, "AM"):
		clock, marker = strings.TrimSpace(strings.TrimSuffix(s, "AM")), "AM"
	case strings.HasSuffix(s, "PM"):
		clock, marker = strings.TrimSpace(strings.TrimSuffix(s, "PM")), "PM"
	default:
		return 0, false
	}

	hh, mm, found := strings.Cut(clock, ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}

	hour %= 12
	if marker == "PM" {
		hour += 12
	}
	return hour*60 + minute, true
}

func fallbackMessage(train domain.Train, station string, departed bool, cause domain.ErrorCode) string {
	prefix := "সিস্টেম নোট (অফলাইন): বর্তমানে লাইভ এআই সার্ভার পাওয়া যাচ্ছে না।"
	if cause == domain.ErrCodeTimeout {
		prefix = "সিস্টেম নোট (অফলাইন): লাইভ ডাটা সার্চ করতে অনেক সময় লাগছে।"
	}

	var status string
	switch {
	case station == "":
		status = "এই ট্রেনের রুটের তথ্য পাওয়া যায়নি।"
	case !departed:
		status = fmt.Sprintf("ট্রেনটি এখনো যাত্রা শুরু করেনি, %s স্টেশন থেকে %s এ ছাড়ার কথা।", station, train.Departure)
	default:
		status = fmt.Sprintf("শিডিউল অনুযায়ী ট্রেনটি সম্ভবত %s এর কাছাকাছি আছে।", station)
	}

	return fmt.Sprintf("%s %s (%s): %s এটি শিডিউল অনুযায়ী আনুমানিক অবস্থান, নিশ্চিত লাইভ তথ্য নয়।",
		prefix, train.Name, train.Route, status)
}
