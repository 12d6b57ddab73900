// Package export writes log listings as CSV files for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/example/visitor-console/internal/application"
)

// TimestampLayout renders times like "Jan 2, 2006, 3:04:05 PM".
const TimestampLayout = "Jan 2, 2006, 3:04:05 PM"

// ContentType is served with every export.
const ContentType = "text/csv; charset=utf-8"

const (
	VehicleLogsFilename = "vehicle-logs.csv"
	VisitorLogsFilename = "visitor-logs.csv"
)

var (
	vehicleLogHeader = []string{"Time In", "Time Out", "Name", "Category", "Plate Number"}
	visitorLogHeader = []string{"Time In", "Time Out", "Name", "Address", "Contact Number", "Homeowner to Visit", "Purpose of Visit"}
)

// Writer formats timestamps in one location.
type Writer struct {
	loc *time.Location
}

// NewWriter returns a Writer for loc. A nil loc means UTC.
func NewWriter(loc *time.Location) *Writer {
	if loc == nil {
		loc = time.UTC
	}
	return &Writer{loc: loc}
}

// VehicleLogs writes one row per log. Missing exits and unknown owners are blank.
func (w *Writer) VehicleLogs(out io.Writer, logs []application.VehicleLog) error {
	rows := make([][]string, 0, len(logs))
	for _, log := range logs {
		rows = append(rows, []string{
			w.stamp(&log.Entry),
			w.stamp(log.Exit),
			log.OwnerName,
			string(log.Category),
			log.PlateNumber,
		})
	}
	return write(out, vehicleLogHeader, rows)
}

// VisitorLogs writes one row per visitor log entry.
func (w *Writer) VisitorLogs(out io.Writer, logs []application.VisitorLog) error {
	rows := make([][]string, 0, len(logs))
	for _, log := range logs {
		rows = append(rows, []string{
			w.stamp(&log.TimeIn),
			w.stamp(log.TimeOut),
			log.Name,
			log.Address,
			log.ContactNumber,
			log.HomeOwnerToVisit,
			log.PurposeOfVisit,
		})
	}
	return write(out, visitorLogHeader, rows)
}

func (w *Writer) stamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(w.loc).Format(TimestampLayout)
}

// formulaPrefixes start a cell that spreadsheets evaluate as a formula.
const formulaPrefixes = "=+-@\t\r"

// neutralize quotes a cell that would otherwise run as a formula when opened.
func neutralize(cell string) string {
	if cell != "" && strings.ContainsRune(formulaPrefixes, rune(cell[0])) {
		return "'" + cell
	}
	return cell
}

func write(out io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, row := range rows {
		for i, cell := range row {
			row[i] = neutralize(cell)
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("export: write rows: %w", err)
	}
	return nil
}
