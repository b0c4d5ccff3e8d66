package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tealeg/xlsx"

	"perf-manage/internal/dashboard"
	"perf-manage/internal/model"
)

// KPIHeaders is the column layout shared by export and import.
var KPIHeaders = []string{"Name", "Description", "Role", "Status"}

var teamHeaders = []string{"Member", "Role", "Timeliness %", "Quality /5", "Collaboration %"}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}

// WriteKPIs saves a KPI catalog as an xlsx workbook at path.
func WriteKPIs(kpis []model.KPI, path string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("KPIs")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	addRow(sheet, KPIHeaders...)
	for _, k := range kpis {
		addRow(sheet, k.Name, k.Description, string(k.Role), string(k.Status))
	}
	if err := file.Save(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// WriteTeam saves the team KPI table, with a trailing averages row, at path.
func WriteTeam(members []dashboard.MemberKPI, path string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Team KPIs")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	addRow(sheet, teamHeaders...)
	for _, m := range members {
		row := sheet.AddRow()
		row.AddCell().Value = m.Name
		row.AddCell().Value = m.Title
		row.AddCell().SetFloat(m.Timeliness)
		row.AddCell().SetFloat(m.Quality)
		row.AddCell().SetFloat(m.Collaboration)
	}
	avg := dashboard.TeamAverages(members)
	addRow(sheet, "Team average", "",
		strconv.FormatFloat(avg.Timeliness, 'f', 1, 64),
		strconv.FormatFloat(avg.Quality, 'f', 1, 64),
		strconv.FormatFloat(avg.Collaboration, 'f', 1, 64))
	if err := file.Save(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// TempPath returns a timestamped file name in the system temp dir.
func TempPath(prefix string, now time.Time) string {
	name := fmt.Sprintf("%s_export_%s.xlsx", prefix, now.Format("20060102_150405"))
	return filepath.Join(os.TempDir(), name)
}
