package entity

import (
	"time"

	"github.com/google/uuid"
)

// PredictionRecord is the audit row written for each served recommendation
type PredictionRecord struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	RequestID    string    `json:"request_id" gorm:"type:varchar(64);index"`
	PostHash     string    `json:"post_hash" gorm:"type:char(64);not null;index"`
	PostLength   int       `json:"post_length" gorm:"not null"`
	N            int       `json:"n" gorm:"not null"`
	TopSubreddit string    `json:"top_subreddit" gorm:"type:varchar(100)"`
	TopProba     float64   `json:"top_proba"`
	LatencyMs    int64     `json:"latency_ms" gorm:"default:0"`
	CacheHit     bool      `json:"cache_hit" gorm:"default:false"`
	Fingerprint  string    `json:"model_fingerprint" gorm:"type:varchar(64)"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName returns the table name for GORM
func (PredictionRecord) TableName() string {
	return "prediction_records"
}

// NewPredictionRecord creates a record for a served request. The top result is
// taken from recs, which must already be sorted.
func NewPredictionRecord(requestID, postHash string, postLength, n int, recs []Recommendation) *PredictionRecord {
	record := &PredictionRecord{
		ID:         uuid.New(),
		RequestID:  requestID,
		PostHash:   postHash,
		PostLength: postLength,
		N:          n,
	}
	if len(recs) > 0 {
		record.TopSubreddit = recs[0].Subreddit
		record.TopProba = recs[0].Proba
	}
	return record
}

// SetResult sets serving details for the record
func (r *PredictionRecord) SetResult(fingerprint string, cacheHit bool, latencyMs int64) {
	r.Fingerprint = fingerprint
	r.CacheHit = cacheHit
	r.LatencyMs = latencyMs
}
