package excel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"perf-manage/internal/dashboard"
	"perf-manage/internal/model"
	"perf-manage/internal/repository"
)

func TestKPIExportImportKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kpis.xlsx")
	kpis := repository.SeedKPIs(1)
	require.NoError(t, WriteKPIs(kpis, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	drafts, err := ReadKPIs(f)
	require.NoError(t, err)
	require.Len(t, drafts, len(kpis))
	for i, d := range drafts {
		assert.True(t, d.IsNew())
		assert.Equal(t, kpis[i].Name, d.Name)
		assert.Equal(t, kpis[i].Description, d.Description)
		assert.Equal(t, kpis[i].Role, d.Role)
		assert.Equal(t, kpis[i].Status, d.Status)
	}
}

func TestReadKPIsSkipsHeaderAndBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Name", "Description", "Role", "Status"},
		{"Site Safety", "Incidents per month", "project head", "inactive"},
		{},
		{"Only a name"},
		{"Bad role", "", "Intern", "Active"},
	}
	for i, r := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &r))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()

	drafts, err := ReadKPIs(in)
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	assert.Equal(t, model.KPIRoleProjectHead, drafts[0].Role)
	assert.Equal(t, model.KPIInactive, drafts[0].Status)
	assert.Equal(t, "Only a name", drafts[1].Name)
	assert.Empty(t, drafts[1].Role)
	assert.Equal(t, model.KPIRole("Intern"), drafts[2].Role)
}

func TestWriteTeamHasAverageRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.xlsx")
	require.NoError(t, WriteTeam(dashboard.TeamKPIs(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 6)
	last := rows[5]
	assert.Equal(t, "Team average", last[0])
	assert.Equal(t, []string{"87.5", "4.3", "83.8"}, last[2:5])
}

func TestTempPath(t *testing.T) {
	p := TempPath("kpis", time.Date(2025, 10, 4, 13, 5, 9, 0, time.UTC))
	assert.Equal(t, "kpis_export_20251004_130509.xlsx", filepath.Base(p))
}
