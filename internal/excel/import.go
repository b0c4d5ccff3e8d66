package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"perf-manage/internal/model"
	"perf-manage/internal/service"
)

// ReadKPIs parses KPI drafts from the first sheet of an xlsx workbook.
// The header row and blank rows are skipped. Role and status are matched
// case-insensitively; anything unrecognised is passed through for Save to reject.
func ReadKPIs(r io.Reader) ([]service.KPIDraft, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in workbook")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	var drafts []service.KPIDraft
	for i, row := range rows {
		if i == 0 {
			continue
		}
		cell := func(n int) string {
			if n < len(row) {
				return strings.TrimSpace(row[n])
			}
			return ""
		}
		if strings.Join(row, "") == "" {
			continue
		}
		drafts = append(drafts, service.KPIDraft{
			Name:        cell(0),
			Description: cell(1),
			Role:        matchRole(cell(2)),
			Status:      matchStatus(cell(3)),
		})
	}
	return drafts, nil
}

func matchRole(s string) model.KPIRole {
	for _, r := range model.KPIRoles {
		if strings.EqualFold(s, string(r)) {
			return r
		}
	}
	return model.KPIRole(s)
}

func matchStatus(s string) model.KPIStatus {
	for _, st := range model.KPIStatuses {
		if strings.EqualFold(s, string(st)) {
			return st
		}
	}
	return model.KPIStatus(s)
}
