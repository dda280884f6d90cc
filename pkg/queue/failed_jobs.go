package queue

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/rewearhq/rewear/pkg/logger"
)

// FailedJob is the in-memory trace of a job that exhausted its retries.
type FailedJob struct {
	Job      Job
	Err      error
	Attempts int
	FailedAt time.Time
}

// FailedJobRecord is the durable copy, written when UseDB was called.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "rewear_failed_jobs" }

var failedDB *gorm.DB

// UseDB makes failed jobs durable. Call once after database.Connect.
func UseDB(db *gorm.DB) {
	failedDB = db
	db.AutoMigrate(&FailedJobRecord{})
}

// FailedJobs returns a copy of the failures recorded by this process.
func FailedJobs() []FailedJob {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]FailedJob, len(q.failed))
	copy(out, q.failed)
	return out
}

func recordFailure(job Job, name string, cause error, attempts int) {
	q.mu.Lock()
	q.failed = append(q.failed, FailedJob{
		Job: job, Err: cause, Attempts: attempts, FailedAt: time.Now(),
	})
	q.mu.Unlock()

	if failedDB == nil {
		return
	}

	body, err := json.Marshal(job)
	if err != nil {
		body = []byte(`{}`)
	}
	rec := FailedJobRecord{
		JobType:  name,
		Payload:  string(body),
		Error:    cause.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	}
	if err := failedDB.Create(&rec).Error; err != nil {
		logger.Error("queue: persist failure", "type", name, "error", err)
	}
}
