package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

func TestPlanCmd_PrintsReport(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "plan")
	require.NoError(t, err)

	var report domain.PlanReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 6, report.Analysis.TotalPages)
	assert.Equal(t, 1, report.Migration.Phase1.Number)
	assert.Equal(t, 3, report.Migration.Phase3.Number)
	require.NotNil(t, report.Complexity)
	assert.Equal(t, "/backups", report.BackupPlan.Location)
}

func TestPlanCmd_OutputFile(t *testing.T) {
	setupTestServices(t)
	path := filepath.Join(t.TempDir(), "plan.json")

	out, err := execute(t, "plan", "--output", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Migration Plan")
	assert.Contains(t, out, "Report written to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var report domain.PlanReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 6, report.Analysis.TotalPages)
}

func TestPlanCmd_OutputFileError(t *testing.T) {
	setupTestServices(t)
	path := filepath.Join(t.TempDir(), "missing", "plan.json")

	_, err := execute(t, "plan", "-o", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating report file")
}
