package domain

type Category string

type ServiceName string

const (
	CategoryBuilding Category = "Home Building"
	CategoryDesign   Category = "Home Design"
	CategoryFinance  Category = "Home Finance"
)

type catalogEntry struct {
	category Category
	services []ServiceName
}

// catalog is the single source of truth for recognized services. Order is
// significant: it is the order listings and the catalog command display.
var catalog = []catalogEntry{
	{
		category: CategoryBuilding,
		services: []ServiceName{
			"General Contractor",
			"Custom Home Builder",
			"Electrician",
			"Plumber",
			"HVAC Technician",
			"Roofer",
			"Carpenter",
			"Mason",
			"Concrete Contractor",
			"Framing Contractor",
			"Drywall Installer",
			"Flooring Installer",
			"Painter",
			"Landscaper",
			"Home Inspector",
		},
	},
	{
		category: CategoryDesign,
		services: []ServiceName{
			"Architect",
			"Interior Designer",
			"Landscape Architect",
			"Kitchen Designer",
			"Bathroom Designer",
			"Lighting Designer",
			"Structural Engineer",
			"Drafting Specialist",
			"Home Stager",
		},
	},
	{
		category: CategoryFinance,
		services: []ServiceName{
			"Loan Officer",
			"Mortgage Broker",
			"Construction Loan Specialist",
			"Property Appraiser",
			"Credit Repair Expert",
			"Debt Management Counselor",
			"Debt Settlement Negotiator",
			"Architectural Finance Consultant",
			"Insurance Agent",
			"Tax Advisor",
		},
	},
}

var serviceIndex = buildServiceIndex()

func buildServiceIndex() map[ServiceName]Category {
	index := make(map[ServiceName]Category)
	for _, entry := range catalog {
		for _, service := range entry.services {
			if _, ok := index[service]; !ok {
				index[service] = entry.category
			}
		}
	}
	return index
}

func ListCategories() []Category {
	categories := make([]Category, 0, len(catalog))
	for _, entry := range catalog {
		categories = append(categories, entry.category)
	}
	return categories
}

// ListServices returns an empty slice for unknown categories.
func ListServices(category Category) []ServiceName {
	for _, entry := range catalog {
		if entry.category == category {
			services := make([]ServiceName, len(entry.services))
			copy(services, entry.services)
			return services
		}
	}
	return []ServiceName{}
}

func CategoryOf(service ServiceName) (Category, bool) {
	category, ok := serviceIndex[service]
	return category, ok
}

func InCatalog(service ServiceName) bool {
	_, ok := serviceIndex[service]
	return ok
}
