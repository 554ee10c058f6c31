// Package export produces XLSX workbooks from run outcomes: one summary
// sheet of every document plus a bidders sheet for the tabulation types.
package export

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/openlettings/biddocs/internal/pipeline"
)

// Service turns outcomes into XLSX bytes.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportOutcomesXLSX returns an XLSX workbook (as bytes) for one run.
func (s *Service) ExportOutcomesXLSX(outcomes []pipeline.Outcome) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"File Path",
		"Document Type",
		"Status",
		"Contract Number",
		"Awarded To",
		"Awarded Amount",
		"Error",
		"Processing Time (s)",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 2
	for _, o := range outcomes {
		write(1, row, o.FilePath)
		write(2, row, string(o.DocumentType))
		write(3, row, string(o.Status))
		write(4, row, stringField(o.Data, "contract_number"))
		write(5, row, stringField(o.Data, "awarded_to"))
		if v, ok := o.Data["awarded_amount"].(float64); ok {
			write(6, row, v)
		}
		write(7, row, truncate(o.Error, 140))
		write(8, row, o.ProcessingTime)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 60) // path
	_ = f.SetColWidth(sheet, "B", "C", 18)
	_ = f.SetColWidth(sheet, "D", "D", 16)
	_ = f.SetColWidth(sheet, "E", "E", 32)
	_ = f.SetColWidth(sheet, "F", "F", 16)
	_ = f.SetColWidth(sheet, "G", "G", 48)

	if err := s.writeBiddersSheet(f, outcomes); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(outcomes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// writeBiddersSheet flattens the bidders lists across all documents that
// carry one, sorted by contract then rank.
func (s *Service) writeBiddersSheet(f *excelize.File, outcomes []pipeline.Outcome) error {
	const sheet = "Bidders"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{
		"Contract Number",
		"Document Type",
		"Bidder Name",
		"Bidder Location",
		"Total Bid Amount",
		"Bid Rank",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	type bidderRow struct {
		contract, docType, name, location string
		amount                            any
		rank                              int
	}
	var rows []bidderRow
	for _, o := range outcomes {
		bidders, ok := o.Data["bidders"].([]any)
		if !ok {
			continue
		}
		contract := stringField(o.Data, "contract_number")
		for _, b := range bidders {
			record, ok := b.(map[string]any)
			if !ok {
				continue
			}
			rank := 0
			switch v := record["bid_rank"].(type) {
			case int:
				rank = v
			case float64:
				rank = int(v)
			}
			rows = append(rows, bidderRow{
				contract: contract,
				docType:  string(o.DocumentType),
				name:     stringField(record, "bidder_name"),
				location: stringField(record, "bidder_location"),
				amount:   record["total_bid_amount"],
				rank:     rank,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].contract != rows[j].contract {
			return rows[i].contract < rows[j].contract
		}
		return rows[i].rank < rows[j].rank
	})

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.contract)
		write(2, r.docType)
		write(3, r.name)
		write(4, r.location)
		if v, ok := r.amount.(float64); ok {
			write(5, v)
		}
		write(6, r.rank)
	}

	_ = f.SetColWidth(sheet, "A", "B", 18)
	_ = f.SetColWidth(sheet, "C", "D", 32)
	_ = f.SetColWidth(sheet, "E", "F", 16)
	return nil
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
