// Package recommend ranks candidate model families for a detected task.
package recommend

import (
	"fmt"
	"sort"

	"gomlready/domain/advice"
	"gomlready/domain/profile"
	"gomlready/domain/task"
	"gomlready/internal/heuristics"
)

// Recommend returns the candidate models for the detected task, highest
// score first. Without a task type the list is empty.
func Recommend(report *profile.QualityReport, detection *task.Detection, rows int) []advice.ModelRecommendation {
	out := []advice.ModelRecommendation{}
	if detection == nil || detection.TaskType == nil {
		return out
	}

	c := Characterize(report, rows)
	switch *detection.TaskType {
	case task.Classification:
		out = classificationModels(c, detection)
	case task.Regression:
		out = regressionModels(c)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func estimators(c Characteristics) int {
	if c.DataSize > heuristics.LargeEstimatorRows {
		return 200
	}
	return 100
}

func depth(c Characteristics) int {
	if c.TotalFeatures > heuristics.ManyFeatures {
		return 8
	}
	return 6
}

func boostingParams(c Characteristics) map[string]any {
	return map[string]any{
		"n_estimators":     estimators(c),
		"max_depth":        depth(c),
		"learning_rate":    0.1,
		"subsample":        0.8,
		"colsample_bytree": 0.8,
		"reg_alpha":        0.1,
		"reg_lambda":       1.0,
	}
}

func forestParams(c Characteristics, maxFeatures any) map[string]any {
	return map[string]any{
		"n_estimators":      estimators(c),
		"max_depth":         nil,
		"min_samples_split": 2,
		"min_samples_leaf":  1,
		"max_features":      maxFeatures,
	}
}

func classificationModels(c Characteristics, d *task.Detection) []advice.ModelRecommendation {
	var models []advice.ModelRecommendation

	xgbParams := boostingParams(c)
	xgbSnippet := trainSnippet("xgboost", "XGBClassifier", xgbParams, map[string]any{"eval_metric": "logloss"})
	if d.NumClasses != nil && *d.NumClasses > 2 {
		xgbSnippet.Params["objective"] = "multi:softprob"
		xgbSnippet.Params["num_class"] = *d.NumClasses
	}
	models = append(models, advice.ModelRecommendation{
		Name:            "XGBoost Classifier",
		Family:          advice.FamilyGradientBoosting,
		Priority:        advice.PriorityHigh,
		Score:           Score(92, c.DataSize, c.HasOutliers, c.HasHighCardinality, ComplexityHigh),
		Reason:          fmt.Sprintf("Best overall for structured data with %d features", c.TotalFeatures),
		BestFor:         []string{"Medium to large datasets", "Mixed feature types", "Handles missing values"},
		Requirements:    []string{"Feature scaling optional", "Built-in regularization"},
		Hyperparameters: xgbParams,
		Pros:            []string{"State-of-the-art performance", "Handles missing values", "Feature importance"},
		Cons:            []string{"Requires hyperparameter tuning", "Can overfit small datasets"},
		Snippet:         xgbSnippet,
	})

	rfParams := forestParams(c, "sqrt")
	models = append(models, advice.ModelRecommendation{
		Name:            "Random Forest Classifier",
		Family:          advice.FamilyRandomForest,
		Priority:        advice.PriorityHigh,
		Score:           Score(88, c.DataSize, true, c.HasHighCardinality, ComplexityMedium),
		Reason:          "Robust and interpretable, handles mixed data types well",
		BestFor:         []string{"Small to medium datasets", "Non-linear patterns", "Feature importance"},
		Requirements:    []string{"No scaling needed", "Handles outliers well"},
		Hyperparameters: rfParams,
		Pros:            []string{"Robust to outliers", "No feature scaling needed", "Parallel training"},
		Cons:            []string{"Memory intensive", "Slower predictions for large datasets"},
		Snippet:         trainSnippet("sklearn.ensemble", "RandomForestClassifier", rfParams, map[string]any{"class_weight": "balanced", "bootstrap": true}),
	})

	if c.DataSize > heuristics.LightGBMMinRows {
		lgbmParams := map[string]any{
			"n_estimators":     200,
			"num_leaves":       31,
			"learning_rate":    0.05,
			"feature_fraction": 0.8,
			"bagging_fraction": 0.8,
			"bagging_freq":     5,
		}
		models = append(models, advice.ModelRecommendation{
			Name:            "LightGBM Classifier",
			Family:          advice.FamilyGradientBoosting,
			Priority:        advice.PriorityHigh,
			Score:           Score(90, c.DataSize, c.HasOutliers, true, ComplexityHigh),
			Reason:          "Fast and memory-efficient for large datasets",
			BestFor:         []string{"Large datasets", "High cardinality features", "Fast training"},
			Requirements:    []string{"Handles categorical natively", "Efficient memory usage"},
			Hyperparameters: lgbmParams,
			Pros:            []string{"Very fast training", "Memory efficient", "Handles categorical"},
			Cons:            []string{"Sensitive to overfitting", "Requires careful tuning"},
			Snippet:         trainSnippet("lightgbm", "LGBMClassifier", lgbmParams, nil),
		})
	}

	if c.FeatureRatio > heuristics.LinearClassRatio {
		var classWeight any
		if d.IsImbalanced {
			classWeight = "balanced"
		}
		lrParams := map[string]any{
			"penalty":      "l2",
			"C":            1.0,
			"solver":       "lbfgs",
			"max_iter":     1000,
			"class_weight": classWeight,
		}
		models = append(models, advice.ModelRecommendation{
			Name:            "Logistic Regression",
			Family:          advice.FamilyLinear,
			Priority:        advice.PriorityMedium,
			Score:           Score(75, c.DataSize, false, false, ComplexityLow),
			Reason:          "Good baseline for linearly separable data",
			BestFor:         []string{"Quick baseline", "Interpretable coefficients", "Small datasets"},
			Requirements:    []string{"Feature scaling required", "Linearly separable classes"},
			Hyperparameters: lrParams,
			Pros:            []string{"Very fast", "Interpretable", "Probabilistic outputs"},
			Cons:            []string{"Assumes linearity", "Sensitive to outliers"},
			Snippet:         scaledSnippet("sklearn.linear_model", "LogisticRegression", lrParams),
		})
	}

	if d.IsImbalanced {
		brfParams := map[string]any{
			"n_estimators":      100,
			"sampling_strategy": "auto",
			"replacement":       true,
		}
		models = append(models, advice.ModelRecommendation{
			Name:            "Balanced Random Forest",
			Family:          advice.FamilyBalancedEnsemble,
			Priority:        advice.PriorityMedium,
			Score:           85,
			Reason:          "Handles class imbalance with balanced bootstrap sampling",
			BestFor:         []string{"Imbalanced datasets", "Maintaining class distribution"},
			Requirements:    []string{"imbalanced-learn package"},
			Hyperparameters: brfParams,
			Pros:            []string{"Handles imbalance", "Better minority class recall"},
			Cons:            []string{"Slower training", "Additional dependency"},
			Snippet:         trainSnippet("imblearn.ensemble", "BalancedRandomForestClassifier", brfParams, nil),
		})
	}
	return models
}

func regressionModels(c Characteristics) []advice.ModelRecommendation {
	var models []advice.ModelRecommendation

	xgbParams := boostingParams(c)
	models = append(models, advice.ModelRecommendation{
		Name:            "XGBoost Regressor",
		Family:          advice.FamilyGradientBoosting,
		Priority:        advice.PriorityHigh,
		Score:           Score(91, c.DataSize, c.HasOutliers, c.HasHighCardinality, ComplexityHigh),
		Reason:          fmt.Sprintf("Best performance for structured regression with %d features", c.TotalFeatures),
		BestFor:         []string{"Non-linear relationships", "Feature interactions", "Mixed data types"},
		Requirements:    []string{"Minimal preprocessing", "Handles missing values"},
		Hyperparameters: xgbParams,
		Pros:            []string{"Excellent accuracy", "Handles outliers", "Feature importance"},
		Cons:            []string{"Requires tuning", "Can overfit", "Black box"},
		Snippet:         trainSnippet("xgboost", "XGBRegressor", xgbParams, map[string]any{"eval_metric": "rmse"}),
	})

	var maxFeatures any = "auto"
	if c.TotalFeatures < heuristics.FewFeatures {
		maxFeatures = 1.0
	}
	rfParams := forestParams(c, maxFeatures)
	models = append(models, advice.ModelRecommendation{
		Name:            "Random Forest Regressor",
		Family:          advice.FamilyRandomForest,
		Priority:        advice.PriorityHigh,
		Score:           Score(87, c.DataSize, true, c.HasHighCardinality, ComplexityMedium),
		Reason:          "Robust regressor, excellent for non-linear patterns with outliers",
		BestFor:         []string{"Complex relationships", "Outlier resistance", "Feature importance"},
		Requirements:    []string{"No scaling needed", "Handles mixed types"},
		Hyperparameters: rfParams,
		Pros:            []string{"Robust to outliers", "Captures non-linearity", "No scaling needed"},
		Cons:            []string{"Memory intensive", "Slower inference", "Less smooth predictions"},
		Snippet:         trainSnippet("sklearn.ensemble", "RandomForestRegressor", rfParams, map[string]any{"bootstrap": true}),
	})

	if c.DataSize < heuristics.GBRMaxRows {
		gbrParams := map[string]any{
			"n_estimators":      100,
			"learning_rate":     0.1,
			"max_depth":         3,
			"min_samples_split": 2,
			"loss":              "squared_error",
		}
		models = append(models, advice.ModelRecommendation{
			Name:            "Gradient Boosting Regressor",
			Family:          advice.FamilyGradientBoosting,
			Priority:        advice.PriorityMedium,
			Score:           Score(85, c.DataSize, c.HasOutliers, false, ComplexityMedium),
			Reason:          "Good alternative to XGBoost with sklearn integration",
			BestFor:         []string{"Medium datasets", "Smooth predictions", "Sklearn ecosystem"},
			Requirements:    []string{"Feature scaling recommended"},
			Hyperparameters: gbrParams,
			Pros:            []string{"Smooth predictions", "Good default parameters", "Sklearn compatible"},
			Cons:            []string{"Slower than XGBoost", "No categorical support", "Memory intensive"},
			Snippet:         trainSnippet("sklearn.ensemble", "GradientBoostingRegressor", gbrParams, nil),
		})
	}

	if c.FeatureRatio > heuristics.LinearRegRatio {
		ridgeParams := map[string]any{"alpha": 1.0, "solver": "auto", "max_iter": 1000}
		models = append(models, advice.ModelRecommendation{
			Name:            "Ridge Regression",
			Family:          advice.FamilyLinear,
			Priority:        advice.PriorityMedium,
			Score:           Score(78, c.DataSize, false, false, ComplexityLow),
			Reason:          "L2 regularization prevents overfitting, good baseline",
			BestFor:         []string{"Linear relationships", "Multicollinearity", "Quick training"},
			Requirements:    []string{"Feature scaling required", "Works with correlated features"},
			Hyperparameters: ridgeParams,
			Pros:            []string{"Fast training", "Handles multicollinearity", "Interpretable"},
			Cons:            []string{"Assumes linearity", "Requires scaling", "May underfit"},
			Snippet:         scaledSnippet("sklearn.linear_model", "Ridge", ridgeParams),
		})

		lassoParams := map[string]any{"alpha": 0.1, "max_iter": 1000, "selection": "cyclic"}
		models = append(models, advice.ModelRecommendation{
			Name:            "Lasso Regression",
			Family:          advice.FamilyLinear,
			Priority:        advice.PriorityMedium,
			Score:           Score(76, c.DataSize, false, false, ComplexityLow),
			Reason:          "L1 regularization for feature selection",
			BestFor:         []string{"High-dimensional data", "Feature selection", "Sparse solutions"},
			Requirements:    []string{"Feature scaling required", "Works with many features"},
			Hyperparameters: lassoParams,
			Pros:            []string{"Feature selection", "Sparse solutions", "Interpretable"},
			Cons:            []string{"Selects at most n features", "Sensitive to outliers"},
			Snippet:         scaledSnippet("sklearn.linear_model", "Lasso", lassoParams),
		})
	}
	return models
}

// trainSnippet documents fitting an estimator with the given parameters.
func trainSnippet(library, estimator string, hyper, extra map[string]any) advice.Snippet {
	params := map[string]any{
		"library":      library,
		"estimator":    estimator,
		"random_state": 42,
	}
	for k, v := range hyper {
		params[k] = v
	}
	for k, v := range extra {
		params[k] = v
	}
	return advice.Snippet{Operation: "fit_estimator", Params: params}
}

// scaledSnippet is trainSnippet preceded by standard scaling.
func scaledSnippet(library, estimator string, hyper map[string]any) advice.Snippet {
	return trainSnippet(library, estimator, hyper, map[string]any{"preprocess": "standard_scale"})
}
