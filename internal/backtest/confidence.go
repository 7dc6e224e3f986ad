package backtest

import (
	"math"

	"github.com/yourusername/owl-tennis/internal/models"
)

// Confidence bucketing bounds. A two-player logistic model never emits a
// winner probability below 0.5, but remote models may, so the analysis
// starts at 0.3.
const (
	confidenceFloor   = 0.3
	confidenceCeiling = 1.0
	bucketWidth       = 0.1
)

// ConfidenceBucket aggregates prediction outcomes whose confidence fell in
// [Low, High).
type ConfidenceBucket struct {
	Low         float64
	High        float64
	Predictions int
	Correct     int
	Accuracy    float64
	Stats       BetStats
	ROI         float64
}

// AnalyzeByConfidence groups prediction results into 0.1-wide confidence
// buckets and computes per-bucket accuracy and betting returns. A calibrated
// model shows accuracy tracking the bucket midpoint.
func AnalyzeByConfidence(records []*models.PredictionResult) []ConfidenceBucket {
	bucketCount := int(math.Round((confidenceCeiling - confidenceFloor) / bucketWidth))
	buckets := make([]ConfidenceBucket, bucketCount)
	for i := range buckets {
		buckets[i].Low = confidenceFloor + float64(i)*bucketWidth
		buckets[i].High = buckets[i].Low + bucketWidth
	}

	for _, record := range records {
		idx := bucketIndex(record.Confidence, bucketCount)
		if idx < 0 {
			continue
		}
		bucket := &buckets[idx]
		bucket.Predictions++
		if record.Correct {
			bucket.Correct++
		}
		if record.BetPlaced && record.PredictedOdds != nil {
			bucket.Stats.Record(*record.PredictedOdds, record.Correct)
		}
	}

	for i := range buckets {
		if buckets[i].Predictions > 0 {
			buckets[i].Accuracy = float64(buckets[i].Correct) / float64(buckets[i].Predictions)
		}
		buckets[i].ROI = buckets[i].Stats.ROI()
	}
	return buckets
}

// bucketIndex maps a confidence value to its bucket, with 1.0 folded into
// the top bucket. Values below the floor are excluded.
func bucketIndex(confidence float64, bucketCount int) int {
	if confidence < confidenceFloor || confidence > confidenceCeiling {
		return -1
	}
	idx := int((confidence - confidenceFloor) / bucketWidth)
	if idx >= bucketCount {
		idx = bucketCount - 1
	}
	return idx
}
