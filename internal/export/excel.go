package export

import (
	"bytes"
	"fmt"

	"stresswatch/internal/domain"

	"github.com/xuri/excelize/v2"
)

// DetectionHistoryHeader is the export column layout.
var DetectionHistoryHeader = []string{
	"#",
	"Timestamp",
	"BVP",
	"EDA",
	"Temperature",
	"Activity",
	"Result",
	"Condition",
	"Advice",
}

const historySheetName = "Detections"

// GenerateDetectionHistory renders a subject's history (any order accepted,
// written oldest first to match the trend chart) as an xlsx file.
func GenerateDetectionHistory(subject domain.Subject, records []domain.DetectionRecord) ([]byte, error) {
	f := excelize.NewFile()
	// Close is handled on each exit path; Write needs the file open.

	index, err := f.NewSheet(historySheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	title := fmt.Sprintf("Detection history - %s (%s)", subject.Name, subject.SubjectID)
	if err := f.SetCellValue(historySheetName, "A1", title); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write title: %w", err)
	}
	if err := f.SetSheetRow(historySheetName, "A2", &DetectionHistoryHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	// rows oldest first; ListBySubject hands us newest first
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		rowIdx := 3 + (len(records) - 1 - i)
		row := []any{
			len(records) - i,
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.BVP,
			rec.EDA,
			rec.Temp,
			rec.Activity.String(),
			rec.Result,
			string(rec.Condition()),
			rec.Advice,
		}
		cell := fmt.Sprintf("A%d", rowIdx)
		if err := f.SetSheetRow(historySheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", rowIdx, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
