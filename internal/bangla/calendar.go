package bangla

import (
	"fmt"
	"strconv"
	"time"
)

var months = [...]string{
	"জানুয়ারী", "ফেব্রুয়ারী", "মার্চ", "এপ্রিল", "মে", "জুন",
	"জুলাই", "আগস্ট", "সেপ্টেম্বর", "অক্টোবর", "নভেম্বর", "ডিসেম্বর",
}

var weekdays = [...]string{
	"রবিবার", "সোমবার", "মঙ্গলবার", "বুধবার", "বৃহস্পতিবার", "শুক্রবার", "শনিবার",
}

// Greeting returns the time-of-day greeting for t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "শুভ সকাল"
	case h >= 12 && h < 16:
		return "শুভ দুপুর"
	case h >= 16 && h < 18:
		return "শুভ অপরাহ্ন"
	case h >= 18 && h < 23:
		return "শুভ সন্ধ্যা"
	default:
		return "শুভ রাত্রি"
	}
}

// Weekday returns the Bengali weekday name.
func Weekday(t time.Time) string {
	return weekdays[t.Weekday()]
}

// daySuffix is the ordinal suffix used in written Bengali dates.
func daySuffix(day int) string {
	switch {
	case day == 1:
		return "লা"
	case day == 2 || day == 3:
		return "রা"
	case day == 4:
		return "ঠা"
	case day >= 5 && day <= 18:
		return "ই"
	default:
		return "শে"
	}
}

// LongDate formats t as e.g. "১৫ই অক্টোবর, ২০২৬ খ্রিস্টাব্দ".
func LongDate(t time.Time) string {
	day := ToBengaliDigits(strconv.Itoa(t.Day()))
	year := ToBengaliDigits(strconv.Itoa(t.Year()))
	return fmt.Sprintf("%s%s %s, %s খ্রিস্টাব্দ", day, daySuffix(t.Day()), months[t.Month()-1], year)
}

// Clock formats t as a 12-hour clock with Bengali digits, e.g. "০৬:১০:০৫ PM".
func Clock(t time.Time) string {
	return ToBengaliDigits(t.Format("03:04:05 PM"))
}
