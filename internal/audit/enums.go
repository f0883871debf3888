package audit

// Severity indicates how serious an issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Order returns a sort key (lower = more severe).
func (s Severity) Order() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// deduction is the number of points an issue of this severity costs its category.
func (s Severity) deduction() int {
	switch s {
	case SeverityCritical:
		return 10
	case SeverityWarning:
		return 5
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Level rates impact or effort.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}

// Category is one of the five fixed audit categories.
type Category string

const (
	CategoryTechnical Category = "technical"
	CategoryContent   Category = "content"
	CategoryLocalSEO  Category = "localSeo"
	CategorySchema    Category = "schema"
	CategoryEEAT      Category = "eeat"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryTechnical,
	CategoryContent,
	CategoryLocalSEO,
	CategorySchema,
	CategoryEEAT,
}

var weights = map[Category]float64{
	CategoryTechnical: 0.25,
	CategoryContent:   0.25,
	CategoryLocalSEO:  0.25,
	CategorySchema:    0.15,
	CategoryEEAT:      0.10,
}

func (c Category) Valid() bool {
	_, ok := weights[c]
	return ok
}

// Weight returns the category's share of the overall score, or 0 for an unknown category.
func (c Category) Weight() float64 {
	return weights[c]
}

// Label returns a human-readable category name.
func (c Category) Label() string {
	switch c {
	case CategoryTechnical:
		return "technical SEO"
	case CategoryContent:
		return "content"
	case CategoryLocalSEO:
		return "local SEO"
	case CategorySchema:
		return "schema markup"
	case CategoryEEAT:
		return "E-E-A-T"
	default:
		return string(c)
	}
}
