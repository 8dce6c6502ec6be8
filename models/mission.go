package models

import "time"

// Canonical source column names. The header row of a mission table must
// contain every one of them; extra columns are kept but ignored by queries.
const (
	ColCompany       = "Company"
	ColLocation      = "Location"
	ColDate          = "Date"
	ColTime          = "Time"
	ColRocket        = "Rocket"
	ColMission       = "Mission"
	ColRocketStatus  = "RocketStatus"
	ColPrice         = "Price"
	ColMissionStatus = "MissionStatus"
)

// RequiredColumns lists the nine fields every source must provide.
var RequiredColumns = []string{
	ColCompany, ColLocation, ColDate, ColTime, ColRocket,
	ColMission, ColRocketStatus, ColPrice, ColMissionStatus,
}

// Canonical mission status values.
const (
	StatusSuccess          = "Success"
	StatusFailure          = "Failure"
	StatusPartialFailure   = "Partial Failure"
	StatusPrelaunchFailure = "Prelaunch Failure"
)

// CanonicalStatuses are always reported by status counts, even at zero.
var CanonicalStatuses = []string{
	StatusSuccess, StatusFailure, StatusPartialFailure, StatusPrelaunchFailure,
}

// RawTable holds unprocessed rows exactly as a source produced them.
// Columns carries the header names in source order; every row has the same
// length as Columns.
type RawTable struct {
	Source  string
	Columns []string
	Rows    [][]string
}

// Mission is one launch attempt after normalisation.
type Mission struct {
	Company       string
	Location      string
	LaunchDate    *time.Time // nil when the source date could not be parsed
	LaunchTime    string
	Rocket        string
	Mission       string
	RocketStatus  string
	Price         *float64
	MissionStatus string

	// Extra holds any non-required source columns, keyed by header name.
	Extra map[string]string
}

// HasDate reports whether the mission has a usable launch date.
func (m *Mission) HasDate() bool { return m.LaunchDate != nil }

// Year returns the launch year and false when the date is null.
func (m *Mission) Year() (int, bool) {
	if m.LaunchDate == nil {
		return 0, false
	}
	return m.LaunchDate.Year(), true
}

// MissionTable is the loaded dataset. It is never mutated after construction;
// filtered views are new tables sharing the same *Mission values.
type MissionTable struct {
	Columns  []string
	Missions []*Mission
}

// NewMissionTable builds a table over the given records and column list.
func NewMissionTable(columns []string, missions []*Mission) *MissionTable {
	return &MissionTable{Columns: columns, Missions: missions}
}

// Len returns the number of rows.
func (t *MissionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Missions)
}

// CompanyCount pairs a company with its number of missions.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// CompanyStat extends CompanyCount with the company's success rate.
type CompanyStat struct {
	Company     string  `json:"company"`
	Count       int     `json:"count"`
	SuccessRate float64 `json:"success_rate"`
}

// YearStat is one point of the yearly launch series.
type YearStat struct {
	Year        int     `json:"year"`
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	SuccessRate float64 `json:"success_rate"`
}

// Summary holds the headline metrics of a (possibly filtered) table.
type Summary struct {
	TotalMissions   int     `json:"total_missions"`
	SuccessRate     float64 `json:"success_rate"`
	UniqueCompanies int     `json:"unique_companies"`
	UniqueRockets   int     `json:"unique_rockets"`
}

// InsightReport holds the computed analytics over a mission table.
type InsightReport struct {
	Summary        Summary
	TopCompanies   []CompanyStat
	StatusCounts   map[string]int
	MostUsedRocket string
	Yearly         []YearStat
	UndatedRows    int
}
