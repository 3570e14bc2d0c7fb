package behavior

import (
	"time"

	"showroom/internal/activity"
)

// UserPrediction is a derived, never-persisted estimate of where a user is
// heading. Recomputed on demand.
type UserPrediction struct {
	UserID             int64    `json:"user_id"`
	ChurnProbability   float64  `json:"churn_probability"`
	NextAction         string   `json:"next_action"`
	LifetimeValue      float64  `json:"lifetime_value"`
	RecommendedActions []string `json:"recommended_actions"`
}

// Churn heuristic: every day of silence adds this many probability points.
const churnPointsPerIdleDay = 10

// Lifetime value weights per the product's scoring model.
const (
	ltvQualityWeight      = 100
	ltvContributionWeight = 10
)

// Recommendation rule thresholds.
const (
	churnOutreachThreshold = 50
	bounceReviewThreshold  = 50
)

// Predictor derives churn probability, next-action and lifetime-value
// estimates from a behavior summary and a performance score. It is a
// heuristic scorer, not a trained model.
type Predictor struct {
	now func() time.Time
}

func NewPredictor() *Predictor {
	return &Predictor{now: time.Now}
}

// NewPredictorAt fixes the predictor's clock; intended for tests.
func NewPredictorAt(now func() time.Time) *Predictor {
	return &Predictor{now: now}
}

// Predict scores one user. With no recorded activity the churn probability
// saturates at 100 and the next action falls back to browsing.
func (p *Predictor) Predict(userID int64, b *UserBehavior, perf *UserPerformance) *UserPrediction {
	prediction := &UserPrediction{
		UserID:           userID,
		ChurnProbability: p.churnProbability(b),
		NextAction:       nextAction(b),
		LifetimeValue:    perf.ContentQualityScore*ltvQualityWeight + perf.CommunityContribution*ltvContributionWeight,
	}

	// Rules are independent; any subset may fire, in declaration order.
	if prediction.ChurnProbability > churnOutreachThreshold {
		prediction.RecommendedActions = append(prediction.RecommendedActions,
			"send re-engagement outreach")
	}
	if perf.GrowthTrend == TrendDeclining {
		prediction.RecommendedActions = append(prediction.RecommendedActions,
			"share content creation guidance")
	}
	if b.BounceRate != nil && *b.BounceRate > bounceReviewThreshold {
		prediction.RecommendedActions = append(prediction.RecommendedActions,
			"review landing page experience")
	}

	return prediction
}

func (p *Predictor) churnProbability(b *UserBehavior) float64 {
	if b.LastActivity.IsZero() {
		return 100
	}

	idleDays := int(p.now().Sub(b.LastActivity).Hours() / 24)
	if idleDays < 0 {
		idleDays = 0
	}

	probability := float64(idleDays * churnPointsPerIdleDay)
	if probability > 100 {
		return 100
	}
	return probability
}

// nextAction picks the most frequent action from the behavior table. The
// table is in first-seen order, so ties resolve to the earlier entry.
func nextAction(b *UserBehavior) string {
	best := ""
	bestCount := 0
	for _, f := range b.Frequencies {
		if f.Count > bestCount {
			best = f.Action
			bestCount = f.Count
		}
	}
	if best == "" {
		return string(activity.KindBrowse)
	}
	return best
}
