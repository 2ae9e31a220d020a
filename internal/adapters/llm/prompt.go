package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/bangla"
	"github.com/PabloGalante/rajbari-portal/internal/domain"
)

const baseSystemPrompt = `
আপনি রাজবাড়ী জেলার প্রধান ডিজিটাল অ্যাসিস্ট্যান্ট।
বর্তমান সময়: %s, %s (%s)।

আপনার দায়িত্ব:
- রাজবাড়ী জেলা (রাজবাড়ী সদর, গোয়ালন্দ, পাংশা, বালিয়াকান্দি, কালুখালী) সম্পর্কিত প্রশ্নের উত্তর দেওয়া।
- ট্রেন, খবর ও বাজারদরের জন্য সবসময় সর্বশেষ তথ্য ব্যবহার করা, পুরনো তথ্য না দেওয়া।
- ট্রেনের ক্ষেত্রে লোকাল রেলওয়ে ফেসবুক গ্রুপের পোস্টকে গুরুত্ব দেওয়া।

ভাষা: শুদ্ধ বাংলা। সংক্ষিপ্ত ও পরিষ্কার উত্তর দিন।
`

const jsonOnlyInstructions = `
ফরম্যাট: শুধুমাত্র একটি বৈধ JSON অ্যারে ফেরত দিন। JSON এর আগে বা পরে কোনো লেখা, ব্যাখ্যা বা markdown যোগ করবেন না।
`

// BuildSystemInstruction merges the baseline instruction for the current
// Dhaka time with the caller's instruction.
func BuildSystemInstruction(req domain.Request, now time.Time) string {
	local := now.In(bangla.Dhaka())
	system := fmt.Sprintf(baseSystemPrompt, bangla.LongDate(local), bangla.Clock(local), bangla.Weekday(local))

	if req.Category != "" {
		system += jsonOnlyInstructions
	}
	if extra := strings.TrimSpace(req.SystemInstruction); extra != "" {
		system += "\n" + extra + "\n"
	}
	return system
}

// BuildTurns normalizes the request contents. A bare prompt becomes a single
// user turn; turn roles other than model are sent as user.
func BuildTurns(req domain.Request) []domain.Turn {
	if len(req.Turns) == 0 {
		return []domain.Turn{{Role: domain.RoleUser, Text: req.Prompt}}
	}

	turns := make([]domain.Turn, 0, len(req.Turns))
	for _, t := range req.Turns {
		role := domain.RoleUser
		if t.Role == domain.RoleModel {
			role = domain.RoleModel
		}
		turns = append(turns, domain.Turn{Role: role, Text: t.Text})
	}
	return turns
}
