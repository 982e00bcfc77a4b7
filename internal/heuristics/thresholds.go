// Package heuristics centralizes every threshold the advisory engines use.
// Changing a value here changes the advice produced for the same dataset.
package heuristics

// ============================================================================
// 1. STATISTICS
// ============================================================================

const (
	// MinStatValues is the minimum number of finite values for a stats block.
	MinStatValues = 2

	// MinMomentValues and MinMomentStd gate skewness and kurtosis.
	MinMomentValues = 3
	MinMomentStd    = 1e-10

	// IQRMultiplier sets the Tukey fences at q1-1.5*iqr and q3+1.5*iqr.
	IQRMultiplier = 1.5

	// MinNormalityValues is the sample size from which normality is tested.
	MinNormalityValues = 20
)

// ============================================================================
// 2. TYPE INFERENCE
// ============================================================================

const (
	DatetimeRatio = 0.7
	NumericRatio  = 0.9

	// Numeric family split.
	ContinuousUniqueRatio = 0.9
	ContinuousMinUnique   = 10
	OrdinalUniqueRatio    = 0.1
	OrdinalMaxUnique      = 10

	// Sequential integer keys (1, 2, 3, ...) read as identifiers.
	SequenceMinValues = 10

	// Text-like ladder.
	BinaryDistinct         = 2
	CategoricalUniqueRatio = 0.5
	CategoricalMaxDistinct = 50
	IdentifierUniqueRatio  = 0.95
	IdentifierMinValues    = 10
	TextMinMeanLength      = 50
	TextConfidence         = 0.8
	UnknownConfidence      = 0.5
	CertainConfidence      = 1.0
)

// ============================================================================
// 3. QUALITY RULES
// ============================================================================

const (
	OutlierHighPct    = 20.0
	OutlierMediumPct  = 5.0
	SkewThreshold     = 1.0
	LowVarianceStd    = 0.001
	MissingHighPct    = 50.0
	MissingMediumPct  = 20.0
	HighCardinality   = 50
	CorrelationReport = 0.8
	CorrelationMedium = 0.9
	SampleValueLimit  = 5

	// Score penalties.
	PenaltyHigh          = 5.0
	PenaltyMedium        = 2.0
	PenaltyLow           = 0.5
	PenaltyMissingHigh   = 10.0
	PenaltyMissingMedium = 5.0
	MaxScore             = 100.0
)

// ============================================================================
// 4. TASK DETECTION
// ============================================================================

const (
	ConfidenceBinaryLast      = 0.9
	ConfidenceCategoricalLast = 0.85
	ConfidenceRegressionLast  = 0.8
	ConfidenceCompleteLast    = 0.7
	ConfidenceOverride        = 0.95

	LastCategoricalMaxUnique  = 10
	LastRegressionUniqueRatio = 0.5

	// Candidate scoring.
	ScoreLastColumn     = 30
	ScoreBinary         = 40
	ScoreCategorical    = 35
	ScoreMeasure        = 30
	ScoreOrdinal        = 25
	ScoreComplete       = 20
	ScoreTargetKeyword  = 15
	ScoreValueKeyword   = 10
	CandidateCatMin     = 2
	CandidateCatMax     = 20
	CandidateMeasureMin = 10
	CandidateOrdinalMin = 3
	MaxPotentialTargets = 5

	ImbalanceRatio  = 0.3
	MinBalanceRatio = 0.001
)

// TargetKeywords and ValueKeywords are matched against lowercased column names.
var (
	TargetKeywords = []string{"target", "label", "class", "outcome", "result"}
	ValueKeywords  = []string{"score", "price", "amount", "value", "rating"}
)

// ============================================================================
// 5. FEATURE SUGGESTIONS
// ============================================================================

const (
	DropMissingPct         = 50.0
	HighPriorityMissingPct = 20.0
	RobustOutlierPct       = 5.0
	BinningMinUnique       = 50
	InteractionMinUnique   = 10
	LabelEncodingMax       = 2
	OneHotMax              = 10
	TargetEncodingMax      = 50
	TopCategories          = 20
)

// ============================================================================
// 6. MODEL RECOMMENDATIONS
// ============================================================================

const (
	SmallDatasetRows   = 1000
	LargeDatasetRows   = 10000
	ModelOutlierPct    = 5.0
	ModelHighCard      = 50
	LinearClassRatio   = 0.7
	LinearRegRatio     = 0.8
	LightGBMMinRows    = 1000
	GBRMaxRows         = 10000
	ManyFeatures       = 20
	FewFeatures        = 10
	LargeEstimatorRows = 1000
)
