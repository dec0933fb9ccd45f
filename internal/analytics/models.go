package analytics

import "callcenter-analytics/internal/calls"

// DashboardView is the full payload the dashboard polls for.
// Field names match the browser client contract.

type DashboardView struct {
	Stats            SummaryStats      `json:"stats"`
	VolumeData       []VolumePoint     `json:"volumeData"`
	RecentCalls      []RecentCall      `json:"recentCalls"`
	TypeDistribution []TypeCount       `json:"typeDistribution"`
	CustomerData     CustomerScores    `json:"customerData"`
	SecurityData     SecurityScores    `json:"securityData"`
	TimeSeriesData   []TimeSeriesPoint `json:"timeSeriesData"`
	LastUpdated      string            `json:"lastUpdated"`
}

type SummaryStats struct {
	TotalCalls         int     `json:"totalCalls"`
	AppointmentsBooked int     `json:"appointmentsBooked"`
	AverageDuration    float64 `json:"averageDuration"`
	AverageRating      float64 `json:"averageRating"`
	ConversionRate     float64 `json:"conversionRate"`
}

// VolumePoint is one civil-date bucket of the daily volume series.
type VolumePoint struct {
	Date  string `json:"date"`
	Calls int    `json:"calls"`
}

// RecentCall decorates a stored record with a display timestamp.
type RecentCall struct {
	calls.CallRecord
	FormattedStartTime string `json:"formatted_start_time"`
}

type TypeCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type CustomerScores struct {
	Satisfaction float64 `json:"satisfaction"`
	NPS          float64 `json:"nps"`

	// FirstCallResolution reuses the appointment conversion rate as a
	// stand-in metric; it is not an independent signal.
	FirstCallResolution float64 `json:"firstCallResolution"`
}

// SecurityScores are synthetic placeholders (fixed constants and a share of
// the call count). Nothing here is derived from call content.
type SecurityScores struct {
	ComplianceRate float64 `json:"complianceRate"`
	SecurityIssues int     `json:"securityIssues"`
	DataProtection float64 `json:"dataProtection"`
}

type TimeSeriesPoint struct {
	Name           string  `json:"name"`
	ResolutionRate float64 `json:"resolutionRate"`
	Calls          int     `json:"calls"`
	Satisfaction   float64 `json:"satisfaction"`
	NPS            float64 `json:"nps"`
	ComplianceRate float64 `json:"complianceRate"`
	SecurityIssues int     `json:"securityIssues"`
}
