package profile

// SemanticType is the inferred domain meaning of a column's values.
type SemanticType string

const (
	TypeDatetime    SemanticType = "datetime"
	TypeContinuous  SemanticType = "continuous"
	TypeNumeric     SemanticType = "numeric"
	TypeOrdinal     SemanticType = "ordinal"
	TypeCategorical SemanticType = "categorical"
	TypeBinary      SemanticType = "binary"
	TypeIdentifier  SemanticType = "identifier"
	TypeText        SemanticType = "text"
	TypeUnknown     SemanticType = "unknown"
	TypeEmpty       SemanticType = "empty"
)

// IsNumericLike covers the types that carry numeric statistics.
func (t SemanticType) IsNumericLike() bool {
	return t == TypeContinuous || t == TypeNumeric || t == TypeOrdinal
}

// IsMeasure is continuous or numeric, the types treated as regression targets.
func (t SemanticType) IsMeasure() bool {
	return t == TypeContinuous || t == TypeNumeric
}

// IsCategoryLike covers categorical and binary columns.
func (t SemanticType) IsCategoryLike() bool {
	return t == TypeCategorical || t == TypeBinary
}

// NumericStats is the descriptive statistics block of a numeric column.
// Absent when fewer than 2 finite values exist.
type NumericStats struct {
	Count             int      `json:"count"`
	Mean              float64  `json:"mean"`
	Median            float64  `json:"median"`
	Std               float64  `json:"std"`
	Variance          float64  `json:"variance"`
	Min               float64  `json:"min"`
	Max               float64  `json:"max"`
	Q1                float64  `json:"q1"`
	Q3                float64  `json:"q3"`
	IQR               float64  `json:"iqr"`
	Range             float64  `json:"range"`
	Skewness          *float64 `json:"skewness"`
	Kurtosis          *float64 `json:"kurtosis"`
	OutlierCount      int      `json:"outlier_count"`
	OutlierPercentage float64  `json:"outlier_percentage"`
	LowerBound        float64  `json:"lower_bound"`
	UpperBound        float64  `json:"upper_bound"`
	NormalityPValue   *float64 `json:"normality_pvalue"`
}

// ColumnProfile merges the type inference and statistics of one column.
type ColumnProfile struct {
	Name           string        `json:"name"`
	Type           SemanticType  `json:"type"`
	TypeConfidence float64       `json:"type_confidence"`
	NullCount      int           `json:"null_count"`
	NullPercentage float64       `json:"null_percentage"`
	NonNullCount   int           `json:"non_null_count"`
	Unique         int           `json:"unique"`
	UniqueRatio    float64       `json:"unique_ratio"`
	SampleValues   []any         `json:"sample_values"`
	Stats          *NumericStats `json:"stats,omitempty"`
}

// OutlierPercentage is zero for columns without statistics.
func (p *ColumnProfile) OutlierPercentage() float64 {
	if p.Stats == nil {
		return 0
	}
	return p.Stats.OutlierPercentage
}

// Skewness returns the skewness or nil.
func (p *ColumnProfile) Skewness() *float64 {
	if p.Stats == nil {
		return nil
	}
	return p.Stats.Skewness
}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

type IssueKind string

const (
	IssueOutliers     IssueKind = "outliers"
	IssueDistribution IssueKind = "distribution"
	IssueVariance     IssueKind = "variance"
	IssueMissing      IssueKind = "missing"
	IssueCardinality  IssueKind = "cardinality"
	IssueIdentifier   IssueKind = "identifier"
	IssueConstant     IssueKind = "constant"
	IssueCorrelation  IssueKind = "correlation"
)

// QualityIssue is one finding. Column is the display reference ("a & b" for
// a correlated pair); Columns lists every referenced column.
type QualityIssue struct {
	Severity       Severity  `json:"severity"`
	Column         string    `json:"column"`
	Columns        []string  `json:"columns"`
	Kind           IssueKind `json:"type"`
	Message        string    `json:"message"`
	Recommendation string    `json:"recommendation"`
}

// CorrelationPair is a strongly correlated pair of numeric columns, Col1
// preceding Col2 in column order.
type CorrelationPair struct {
	Col1        string  `json:"col1"`
	Col2        string  `json:"col2"`
	Correlation float64 `json:"correlation"`
}

type QualitySummary struct {
	TotalIssues        int `json:"total_issues"`
	HighIssues         int `json:"high_issues"`
	MediumIssues       int `json:"medium_issues"`
	LowIssues          int `json:"low_issues"`
	ColumnsAnalyzed    int `json:"columns_analyzed"`
	ColumnsWithMissing int `json:"columns_with_missing"`
	HighCorrelations   int `json:"high_correlations"`
}

// QualityReport is the Quality Analyzer's output. Profiles keep column order.
type QualityReport struct {
	Profiles     []ColumnProfile   `json:"profiles"`
	Issues       []QualityIssue    `json:"issues"`
	Correlations []CorrelationPair `json:"correlations"`
	QualityScore float64           `json:"quality_score"`
	Summary      QualitySummary    `json:"summary"`
}

// Profile looks a column up by name.
func (r *QualityReport) Profile(name string) (*ColumnProfile, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Profiles {
		if r.Profiles[i].Name == name {
			return &r.Profiles[i], true
		}
	}
	return nil, false
}

// IssuesFor returns the issues that reference column.
func (r *QualityReport) IssuesFor(column string) []QualityIssue {
	var out []QualityIssue
	for _, issue := range r.Issues {
		for _, c := range issue.Columns {
			if c == column {
				out = append(out, issue)
				break
			}
		}
	}
	return out
}
