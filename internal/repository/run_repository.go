// Package repository 定义了生成运行台账与权限缓存的数据访问层。
package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 运行状态。
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// DatasetRun 记录一次数据集生成运行的参数与产出规模。
type DatasetRun struct {
	ID           uint      `gorm:"primarykey"`
	RunID        string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	CompanyName  string    `gorm:"type:varchar(128);not null"`
	Seed         int64     `gorm:"not null"`
	OutputDir    string    `gorm:"type:varchar(256)"`
	Status       string    `gorm:"type:varchar(16);not null;default:running"`
	PeopleCount  int       `gorm:"not null;default:0"`
	DocCount     int       `gorm:"not null;default:0"`
	ThreadCount  int       `gorm:"not null;default:0"`
	MessageCount int       `gorm:"not null;default:0"`
	EdgeCount    int       `gorm:"not null;default:0"`
	EventCount   int       `gorm:"not null;default:0"`
	ErrorMessage string    `gorm:"type:text"`
	StartedAt    time.Time `gorm:"not null"`
	FinishedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName 指定台账表名。
func (DatasetRun) TableName() string { return "dataset_runs" }

// RunRepository 接口定义了运行台账的持久化操作。
type RunRepository interface {
	CreateRun(run *DatasetRun) error
	GetRun(runID string) (*DatasetRun, error)
	CompleteRun(runID string, counts RunCounts) error
	FailRun(runID string, errMsg string) error
	ListRecentRuns(limit int) ([]DatasetRun, error)
}

// RunCounts 汇总一次运行的产出规模。
type RunCounts struct {
	People   int
	Docs     int
	Threads  int
	Messages int
	Edges    int
	Events   int
}

// runRepository 是 RunRepository 接口的 GORM 实现。
type runRepository struct {
	db *gorm.DB
}

// NewRunRepository 创建一个新的 RunRepository 实例，并确保台账表存在。
func NewRunRepository(db *gorm.DB) (RunRepository, error) {
	if err := db.AutoMigrate(&DatasetRun{}); err != nil {
		return nil, err
	}
	return &runRepository{db: db}, nil
}

// NewRun 构造一条处于 running 状态的新台账记录。
func NewRun(companyName string, seed int64, outputDir string) *DatasetRun {
	return &DatasetRun{
		RunID:       uuid.NewString(),
		CompanyName: companyName,
		Seed:        seed,
		OutputDir:   outputDir,
		Status:      RunStatusRunning,
		StartedAt:   time.Now(),
	}
}

// CreateRun 在数据库中创建一条运行记录。
func (r *runRepository) CreateRun(run *DatasetRun) error {
	return r.db.Create(run).Error
}

// GetRun 按运行标识检索台账记录。
func (r *runRepository) GetRun(runID string) (*DatasetRun, error) {
	var run DatasetRun
	if err := r.db.Where("run_id = ?", runID).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// CompleteRun 将运行标记为成功并写入产出规模。
func (r *runRepository) CompleteRun(runID string, counts RunCounts) error {
	now := time.Now()
	return r.db.Model(&DatasetRun{}).Where("run_id = ?", runID).Updates(map[string]interface{}{
		"status":        RunStatusCompleted,
		"people_count":  counts.People,
		"doc_count":     counts.Docs,
		"thread_count":  counts.Threads,
		"message_count": counts.Messages,
		"edge_count":    counts.Edges,
		"event_count":   counts.Events,
		"finished_at":   &now,
	}).Error
}

// FailRun 将运行标记为失败并记录错误信息。
func (r *runRepository) FailRun(runID string, errMsg string) error {
	now := time.Now()
	return r.db.Model(&DatasetRun{}).Where("run_id = ?", runID).Updates(map[string]interface{}{
		"status":        RunStatusFailed,
		"error_message": errMsg,
		"finished_at":   &now,
	}).Error
}

// ListRecentRuns 按开始时间倒序列出最近的运行记录。
func (r *runRepository) ListRecentRuns(limit int) ([]DatasetRun, error) {
	var runs []DatasetRun
	err := r.db.Order("started_at desc").Limit(limit).Find(&runs).Error
	return runs, err
}
