package services

import (
	"fmt"
	"sort"
	"time"

	"space-missions/models"
)

// Filter narrows a table by launch date, company and status. Zero-valued
// fields do not filter.
type Filter struct {
	From      *time.Time
	To        *time.Time
	Companies []string
	Statuses  []string
}

// ParseFilter builds a Filter from boundary strings. Date bounds that do not
// parse as YYYY-MM-DD are ignored.
func ParseFilter(from, to string, companies, statuses []string) Filter {
	f := Filter{Companies: nonEmpty(companies), Statuses: nonEmpty(statuses)}
	if d, ok := parseISODate(from); ok {
		f.From = &d
	}
	if d, ok := parseISODate(to); ok {
		f.To = &d
	}
	return f
}

// IsZero reports whether the filter keeps every row.
func (f Filter) IsZero() bool {
	return f.From == nil && f.To == nil && len(f.Companies) == 0 && len(f.Statuses) == 0
}

// Apply returns a new table holding the matching rows in their original
// order. When a date bound is set, rows without a date are dropped.
func (f Filter) Apply(t *models.MissionTable) *models.MissionTable {
	if f.IsZero() {
		return t
	}
	companies := toSet(f.Companies)
	statuses := toSet(f.Statuses)

	kept := make([]*models.Mission, 0, t.Len())
	for _, m := range t.Missions {
		if f.From != nil || f.To != nil {
			if m.LaunchDate == nil {
				continue
			}
			if f.From != nil && m.LaunchDate.Before(*f.From) {
				continue
			}
			if f.To != nil && m.LaunchDate.After(*f.To) {
				continue
			}
		}
		if len(companies) > 0 {
			if _, ok := companies[m.Company]; !ok {
				continue
			}
		}
		if len(statuses) > 0 {
			if _, ok := statuses[m.MissionStatus]; !ok {
				continue
			}
		}
		kept = append(kept, m)
	}
	return models.NewMissionTable(t.Columns, kept)
}

// Summarize computes the headline metrics of a table.
func Summarize(t *models.MissionTable) models.Summary {
	companies := make(map[string]struct{})
	rockets := make(map[string]struct{})
	success := 0
	for _, m := range t.Missions {
		companies[m.Company] = struct{}{}
		rockets[m.Rocket] = struct{}{}
		if m.MissionStatus == models.StatusSuccess {
			success++
		}
	}
	return models.Summary{
		TotalMissions:   t.Len(),
		SuccessRate:     percentage(success, t.Len()),
		UniqueCompanies: len(companies),
		UniqueRockets:   len(rockets),
	}
}

// YearlyStats returns one entry per launch year in ascending order. Rows
// without a date are skipped.
func YearlyStats(t *models.MissionTable) []models.YearStat {
	byYear := make(map[int]*models.YearStat)
	for _, m := range t.Missions {
		y, ok := m.Year()
		if !ok {
			continue
		}
		ys, exists := byYear[y]
		if !exists {
			ys = &models.YearStat{Year: y}
			byYear[y] = ys
		}
		ys.Total++
		if m.MissionStatus == models.StatusSuccess {
			ys.Successful++
		}
	}

	stats := make([]models.YearStat, 0, len(byYear))
	for _, ys := range byYear {
		ys.SuccessRate = percentage(ys.Successful, ys.Total)
		stats = append(stats, *ys)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Year < stats[j].Year })
	return stats
}

// CompanyBreakdown returns the top n companies by mission count together
// with their success rates.
func CompanyBreakdown(t *models.MissionTable, n int) []models.CompanyStat {
	top := TopCompaniesByMissionCount(t, n)
	out := make([]models.CompanyStat, len(top))
	for i, cc := range top {
		out[i] = models.CompanyStat{
			Company:     cc.Company,
			Count:       cc.Count,
			SuccessRate: SuccessRate(t, cc.Company),
		}
	}
	return out
}

// UndatedCount returns the number of rows without a usable launch date.
func UndatedCount(t *models.MissionTable) int {
	n := 0
	for _, m := range t.Missions {
		if !m.HasDate() {
			n++
		}
	}
	return n
}

// SelectColumns validates an export column list against the table. An
// empty request selects every column.
func SelectColumns(t *models.MissionTable, requested []string) ([]string, error) {
	requested = nonEmpty(requested)
	if len(requested) == 0 {
		return t.Columns, nil
	}
	known := toSet(t.Columns)
	for _, col := range requested {
		if _, ok := known[col]; !ok {
			return nil, fmt.Errorf("export: %w: %q", ErrUnknownColumn, col)
		}
	}
	return requested, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
