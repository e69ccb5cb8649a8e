package domain

// Category groups habits for filtering and the category breakdown stats.
type Category string

const (
	CategoryHealth       Category = "health"
	CategoryProductivity Category = "productivity"
	CategoryMindfulness  Category = "mindfulness"
	CategoryLearning     Category = "learning"
	CategoryFitness      Category = "fitness"
	CategorySocial       Category = "social"
	CategoryCreative     Category = "creative"
	CategoryOther        Category = "other"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryHealth,
	CategoryProductivity,
	CategoryMindfulness,
	CategoryLearning,
	CategoryFitness,
	CategorySocial,
	CategoryCreative,
	CategoryOther,
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Frequency describes how often a habit is expected to be completed.
type Frequency string

const (
	// FrequencyDaily expects a completion every day.
	FrequencyDaily Frequency = "daily"
	// FrequencyWeekly expects completions on a weekly cadence.
	FrequencyWeekly Frequency = "weekly"
	// FrequencyCustom expects completions on the weekdays in TargetDays.
	FrequencyCustom Frequency = "custom"
)

// IsValid reports whether f is one of the known frequencies.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

// DefaultColor is the hex color assigned to habits created without one.
const DefaultColor = "#3B82F6"

// Habit is a recurring practice a user wants to build.
// Habits are owned by exactly one user and are soft-deleted so their
// completion history survives archival.
type Habit struct {
	Syncable
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	Color       string    `json:"color"`
	Frequency   Frequency `json:"frequency"`
	// TargetDays holds weekday numbers (0=Sunday..6=Saturday) for
	// custom-frequency habits. Empty for daily and weekly habits.
	TargetDays []int `json:"target_days,omitempty"`
	IsActive   bool  `json:"is_active"`
}

// ApplyDefaults fills zero-valued fields with their creation defaults.
func (h *Habit) ApplyDefaults() {
	if h.Category == "" {
		h.Category = CategoryOther
	}
	if h.Color == "" {
		h.Color = DefaultColor
	}
	if h.Frequency == "" {
		h.Frequency = FrequencyDaily
	}
}
