package scheduling

// Category mirrors entity.AppointmentCategory without importing the entity
// package, keeping this package free of persistence concerns.
type Category string

const (
	CategoryTreatment    Category = "treatment"
	CategoryConsultation Category = "consultation"
)

// providerBlocks is the provider double-booking rule as a decision table
// keyed by [existing booking category][new booking category].
//
// A consultation demands the provider's undivided presence, so an existing
// consultation blocks anything new. A provider may supervise several
// machine-based treatments at once, so an existing treatment only blocks a
// new consultation.
var providerBlocks = map[Category]map[Category]bool{
	CategoryConsultation: {
		CategoryConsultation: true,
		CategoryTreatment:    true,
	},
	CategoryTreatment: {
		CategoryConsultation: true,
		CategoryTreatment:    false,
	},
}

// ProviderCategoryBlocks reports whether an existing overlapping booking of
// category existing prevents a provider from taking a new booking of
// category next.
func ProviderCategoryBlocks(existing, next Category) bool {
	return providerBlocks[existing][next]
}

// ValidCategory reports whether c is a known appointment category.
func ValidCategory(c Category) bool {
	return c == CategoryTreatment || c == CategoryConsultation
}
