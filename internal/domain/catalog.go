package domain

type Category string

const (
	CategoryEmergency     Category = "emergency"
	CategoryDoctors       Category = "doctors"
	CategoryHospitals     Category = "hospitals"
	CategoryPersonalities Category = "personalities"
	CategoryPrayer        Category = "prayer"
	CategoryHolidays      Category = "holidays"
	CategoryEducation     Category = "education"
	CategoryTrains        Category = "trains"
	CategoryGovtServices  Category = "govt_services"
	CategoryNotices       Category = "notices"
	CategoryJobs          Category = "jobs"
	CategoryMarketPrice   Category = "market_price"
)

var categories = []Category{
	CategoryEmergency,
	CategoryDoctors,
	CategoryHospitals,
	CategoryPersonalities,
	CategoryPrayer,
	CategoryHolidays,
	CategoryEducation,
	CategoryTrains,
	CategoryGovtServices,
	CategoryNotices,
	CategoryJobs,
	CategoryMarketPrice,
}

// Categories returns every known category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory validates a category id.
func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}
