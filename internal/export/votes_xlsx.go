// Package export renders vote logs as xlsx workbooks for the reporting
// side of the admin console.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"agm-voting/internal/domain/resolution"
	"agm-voting/internal/domain/vote"
)

var votesHeader = []string{
	"Vote ID",
	"Shareholder ID",
	"Vote Value",
	"Shares Used",
	"IP Address",
	"Cast At",
}

// VotesWorkbook builds a spreadsheet of all votes for one resolution. The
// vote values are exported verbatim in their canonical encoding.
func VotesWorkbook(res *resolution.Resolution, votes []vote.Vote) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Votes"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	title := fmt.Sprintf("%s - %s (%s)", res.ResolutionCode, res.Title, res.VotingMethod)
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, err
	}

	for col, header := range votesHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return nil, fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("set header style: %w", err)
		}
	}

	for i, v := range votes {
		row := i + 3
		ip := ""
		if v.IPAddress != nil {
			ip = *v.IPAddress
		}
		values := []any{
			v.ID,
			v.ShareholderID,
			v.VoteValue,
			v.SharesUsed,
			ip,
			v.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	for col, width := range []float64{10, 15, 30, 12, 16, 20} {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
