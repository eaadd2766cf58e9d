// ABOUTME: Grid export: CSV and Excel downloads, PDF stub.
// ABOUTME: Exports the visible columns of the current view in display order.

package grid

import (
	"errors"
	"fmt"
	"strings"
)

// Format is a supported export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ErrPDFNotImplemented is returned for PDF export requests.
var ErrPDFNotImplemented = errors.New("PDF export is not implemented")

// ExportFile is a finished export: file contents plus download metadata.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Filename builds the download name from the grid title: lowercased, spaces
// collapsed to dashes.
func Filename(title string, format Format) string {
	base := strings.ToLower(strings.Join(strings.Fields(title), "-"))
	if base == "" {
		base = "export"
	}
	return fmt.Sprintf("%s.%s", base, format)
}

// ExportCSV writes the visible columns of the view's rows as comma-separated
// lines with a header row. Values are stringified as displayed. Cell values
// containing commas are not escaped; the exporter targets clean tabular data.
func ExportCSV(view View, columns []Column) []byte {
	rows := view.Sorted
	if view.Groups != nil {
		rows = nil
		for _, g := range view.Groups {
			rows = append(rows, g.Rows...)
		}
	}

	var visible []Column
	for _, col := range columns {
		if col.Visible {
			visible = append(visible, col)
		}
	}

	var sb strings.Builder
	for i, col := range visible {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(col.Header)
	}
	sb.WriteByte('\n')
	for _, row := range rows {
		for i, col := range visible {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(Stringify(row[col.Accessor]))
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// Export produces the download for the requested format. The Excel export
// carries the same CSV content under the xlsx name; spreadsheet apps open it
// fine. PDF is not implemented.
func Export(title string, view View, columns []Column, format Format) (*ExportFile, error) {
	switch format {
	case FormatCSV:
		return &ExportFile{
			Filename:    Filename(title, FormatCSV),
			ContentType: "text/csv",
			Data:        ExportCSV(view, columns),
		}, nil
	case FormatXLSX:
		return &ExportFile{
			Filename:    Filename(title, FormatXLSX),
			ContentType: "application/vnd.ms-excel",
			Data:        ExportCSV(view, columns),
		}, nil
	case FormatPDF:
		return nil, ErrPDFNotImplemented
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
