package domain

// Category enumerates maintenance specialties. The declaration order of
// Categories is the tie-break order for keyword classification.
type Category string

const (
	CategoryPlumbing    Category = "PLUMBING"
	CategoryElectrical  Category = "ELECTRICAL"
	CategoryHVAC        Category = "HVAC"
	CategoryStructural  Category = "STRUCTURAL"
	CategoryPestControl Category = "PEST_CONTROL"
	CategoryPainting    Category = "PAINTING"
	CategoryAppliance   Category = "APPLIANCE"
	CategoryGeneral     Category = "GENERAL"
)

// Categories lists the non-GENERAL categories in classification tie-break order.
var Categories = []Category{
	CategoryPlumbing,
	CategoryElectrical,
	CategoryHVAC,
	CategoryStructural,
	CategoryPestControl,
	CategoryPainting,
	CategoryAppliance,
}

// ValidCategory reports whether v is a known category value.
func ValidCategory(v Category) bool {
	if v == CategoryGeneral {
		return true
	}
	for _, c := range Categories {
		if c == v {
			return true
		}
	}
	return false
}
