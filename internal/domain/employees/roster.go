package employees

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Roster renders the filtered directory as a PDF table.
func (s *Service) Roster(ctx context.Context, filter Filter) ([]byte, error) {
	list, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return RenderRoster(list, filter, s.now())
}

func RenderRoster(list []Employee, filter Filter, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Employee roster", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Employee roster")
	pdf.Ln(10)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", generatedAt.UTC().Format("2006-01-02 15:04 MST")))
	pdf.Ln(6)
	if terms := describeFilter(filter); terms != "" {
		pdf.Cell(0, 6, tr("Filter: "+terms))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	headers := []string{"Name", "Email", "Position", "Department", "Salary", "Joined"}
	widths := []float64{55, 70, 45, 45, 30, 30}

	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, emp := range list {
		row := []string{
			emp.FullName(),
			emp.Email,
			emp.Position,
			emp.Department,
			FormatSalary(emp.Salary),
			emp.DateOfJoining.Format("2006-01-02"),
		}
		for i, value := range row {
			align := "L"
			if i == 4 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, tr(value), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("%d employee(s)", len(list)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render roster: %w", err)
	}
	return buf.Bytes(), nil
}

func describeFilter(filter Filter) string {
	parts := make([]string, 0, 2)
	if filter.Department != "" {
		parts = append(parts, "department contains "+filter.Department)
	}
	if filter.Position != "" {
		parts = append(parts, "position contains "+filter.Position)
	}
	return strings.Join(parts, ", ")
}
