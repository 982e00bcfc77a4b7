package advice

// Priority ranks a suggestion or recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight orders priorities: high=3, medium=2, low=1.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Impact is the expected effect of applying a suggestion.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Snippet documents how a suggestion would be applied: an operation name
// and its parameters. It is descriptive only and never executed.
type Snippet struct {
	Operation string         `json:"operation"`
	Params    map[string]any `json:"params,omitempty"`
}

// FeatureSuggestion is one preprocessing or feature-engineering action.
type FeatureSuggestion struct {
	Column    string   `json:"column"`
	Technique string   `json:"technique"`
	Priority  Priority `json:"priority"`
	Reason    string   `json:"reason"`
	Impact    Impact   `json:"impact"`
	Snippet   Snippet  `json:"snippet"`
}

// Family groups model recommendations.
type Family string

const (
	FamilyGradientBoosting Family = "gradient_boosting"
	FamilyRandomForest     Family = "random_forest"
	FamilyLinear           Family = "linear"
	FamilyBalancedEnsemble Family = "balanced_ensemble"
)

// ModelRecommendation is one ranked model family.
type ModelRecommendation struct {
	Name            string         `json:"name"`
	Family          Family         `json:"family"`
	Priority        Priority       `json:"priority"`
	Score           int            `json:"score"`
	Reason          string         `json:"reason"`
	BestFor         []string       `json:"best_for"`
	Requirements    []string       `json:"requirements"`
	Hyperparameters map[string]any `json:"hyperparameters"`
	Pros            []string       `json:"pros"`
	Cons            []string       `json:"cons"`
	Snippet         Snippet        `json:"snippet"`
}
