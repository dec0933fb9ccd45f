package export

import (
	"fmt"

	"callcenter-analytics/internal/analytics"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary = "Summary"
	sheetDaily   = "Daily Metrics"
	sheetRecent  = "Recent Calls"
)

// Workbook renders a dashboard view as a three-sheet spreadsheet so the
// dashboard numbers can be pulled into offline reporting.
func Workbook(view analytics.DashboardView) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetDaily); err != nil {
		return nil, fmt.Errorf("export: add sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetRecent); err != nil {
		return nil, fmt.Errorf("export: add sheet: %w", err)
	}

	if err := writeSummary(f, view); err != nil {
		return nil, err
	}
	if err := writeDaily(f, view.TimeSeriesData); err != nil {
		return nil, err
	}
	if err := writeRecent(f, view.RecentCalls); err != nil {
		return nil, err
	}
	return f, nil
}

func writeSummary(f *excelize.File, view analytics.DashboardView) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Calls", view.Stats.TotalCalls},
		{"Appointments Booked", view.Stats.AppointmentsBooked},
		{"Average Duration (s)", view.Stats.AverageDuration},
		{"Average Rating", view.Stats.AverageRating},
		{"Conversion Rate (%)", view.Stats.ConversionRate},
		{"Satisfaction (%)", view.CustomerData.Satisfaction},
		{"NPS", view.CustomerData.NPS},
		{"First Call Resolution (%)", view.CustomerData.FirstCallResolution},
		{"Compliance Rate (%)", view.SecurityData.ComplianceRate},
		{"Security Issues", view.SecurityData.SecurityIssues},
		{"Data Protection", view.SecurityData.DataProtection},
		{"Generated", view.LastUpdated},
	}
	return writeRows(f, sheetSummary, rows)
}

func writeDaily(f *excelize.File, series []analytics.TimeSeriesPoint) error {
	rows := [][]interface{}{
		{"Date", "Calls", "Resolution Rate (%)", "Satisfaction (%)", "NPS", "Compliance Rate (%)", "Security Issues"},
	}
	for _, p := range series {
		rows = append(rows, []interface{}{p.Name, p.Calls, p.ResolutionRate, p.Satisfaction, p.NPS, p.ComplianceRate, p.SecurityIssues})
	}
	return writeRows(f, sheetDaily, rows)
}

func writeRecent(f *excelize.File, recent []analytics.RecentCall) error {
	rows := [][]interface{}{
		{"Call ID", "Type", "From", "To", "Duration (s)", "Rating", "Appointment Booked", "Sentiment", "Start Time", "Summary"},
	}
	for _, rc := range recent {
		rows = append(rows, []interface{}{
			rc.CallID, rc.CallType, rc.FromNumber, rc.ToNumber,
			rc.DurationSeconds, rc.Rating, rc.AppointmentBooked,
			rc.Sentiment, rc.FormattedStartTime, rc.Summary,
		})
	}
	return writeRows(f, sheetRecent, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}
	return nil
}
