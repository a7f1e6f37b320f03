package models

// Aggregation response shapes. JSON tags are camelCase because every payload
// passes through key normalization before decoding (the backend speaks
// snake_case on the wire).

// QualityDimensionStats holds per-dimension score statistics.
type QualityDimensionStats struct {
	Name         string   `json:"name"`
	AverageScore *float64 `json:"averageScore"`
	ScoreCount   int      `json:"scoreCount"`
}

// OverallAggregation is the cross-cutting summary returned by /overall.
type OverallAggregation struct {
	ConversationCount int                     `json:"conversationCount"`
	ReviewerCount     int                     `json:"reviewerCount"`
	TrainerCount      int                     `json:"trainerCount"`
	QualityDimensions []QualityDimensionStats `json:"qualityDimensions"`
}

// DomainAggregation groups statistics by domain.
type DomainAggregation struct {
	Domain            string                  `json:"domain"`
	ConversationCount int                     `json:"conversationCount"`
	QualityDimensions []QualityDimensionStats `json:"qualityDimensions"`
}

// ReviewerAggregation groups statistics by reviewer.
type ReviewerAggregation struct {
	ReviewerID        int64                   `json:"reviewerId"`
	ReviewerName      string                  `json:"reviewerName"`
	ConversationCount int                     `json:"conversationCount"`
	QualityDimensions []QualityDimensionStats `json:"qualityDimensions"`
}

// TrainerLevelAggregation groups statistics by trainer level.
type TrainerLevelAggregation struct {
	TrainerLevelID    int64                   `json:"trainerLevelId"`
	TrainerName       string                  `json:"trainerName"`
	ConversationCount int                     `json:"conversationCount"`
	QualityDimensions []QualityDimensionStats `json:"qualityDimensions"`
}

// QualityDimensionDetail is a single dimension entry on a task.
type QualityDimensionDetail struct {
	Name      string   `json:"name"`
	ScoreText string   `json:"scoreText"`
	Score     *float64 `json:"score"`
}

// TaskLevelInfo is one row of the task-level drill-down.
type TaskLevelInfo struct {
	TaskID            int64                    `json:"taskId"`
	AnnotatorID       int64                    `json:"annotatorId"`
	AnnotatorName     string                   `json:"annotatorName"`
	ReviewerID        int64                    `json:"reviewerId"`
	ReviewerName      string                   `json:"reviewerName"`
	QualityDimensions []QualityDimensionDetail `json:"qualityDimensions"`
}

// DimensionBreakdown carries the pass/not-pass split used by the
// pre-delivery endpoints.
type DimensionBreakdown struct {
	Name         string  `json:"name"`
	PassCount    int     `json:"passCount"`
	NotPassCount int     `json:"notPassCount"`
	AverageScore float64 `json:"averageScore"`
}

// PreDeliveryOverview is the aggregate returned by /pre-delivery/overview.
type PreDeliveryOverview struct {
	ConversationCount int                  `json:"conversationCount"`
	QualityDimensions []DimensionBreakdown `json:"qualityDimensions"`
}

// PreDeliveryReviewerRow is one row of /pre-delivery/by-reviewer.
type PreDeliveryReviewerRow struct {
	ReviewerID        int64                `json:"reviewerId"`
	ReviewerName      string               `json:"reviewerName"`
	ConversationCount int                  `json:"conversationCount"`
	QualityDimensions []DimensionBreakdown `json:"qualityDimensions"`
}

// PreDeliveryTrainerRow is one row of /pre-delivery/by-trainer.
type PreDeliveryTrainerRow struct {
	TrainerLevelID    int64                `json:"trainerLevelId"`
	TrainerName       string               `json:"trainerName"`
	ConversationCount int                  `json:"conversationCount"`
	QualityDimensions []DimensionBreakdown `json:"qualityDimensions"`
}

// PreDeliveryDomainRow is one row of /pre-delivery/by-domain.
type PreDeliveryDomainRow struct {
	Domain            string               `json:"domain"`
	ConversationCount int                  `json:"conversationCount"`
	QualityDimensions []DimensionBreakdown `json:"qualityDimensions"`
}
