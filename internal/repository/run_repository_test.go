package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRun(t *testing.T) {
	before := time.Now()
	run := NewRun("TechNova Inc", 42, "./output")

	assert.Len(t, run.RunID, 36, "RunID 应为 UUID 格式")
	assert.Equal(t, "TechNova Inc", run.CompanyName)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, "./output", run.OutputDir)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.False(t, run.StartedAt.Before(before))
	assert.Nil(t, run.FinishedAt)
}

func TestNewRunUniqueIDs(t *testing.T) {
	a := NewRun("TechNova Inc", 42, "./output")
	b := NewRun("TechNova Inc", 42, "./output")
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestDatasetRunTableName(t *testing.T) {
	assert.Equal(t, "dataset_runs", DatasetRun{}.TableName())
}
