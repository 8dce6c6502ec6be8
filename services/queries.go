package services

import (
	"math"
	"sort"

	"space-missions/models"
)

// The functions in this file are the analytical query layer. Each one is a
// pure, total function over a MissionTable: degenerate arguments return the
// documented zero value instead of an error, and nothing is mutated.

// MissionCountByCompany returns how many rows have exactly companyName as
// their company (case-sensitive).
func MissionCountByCompany(t *models.MissionTable, companyName string) int {
	count := 0
	for _, m := range t.Missions {
		if m.Company == companyName {
			count++
		}
	}
	return count
}

// SuccessRate returns the percentage of the company's missions whose status
// is "Success", rounded to two decimals. No missions yields 0.
func SuccessRate(t *models.MissionTable, companyName string) float64 {
	total, success := 0, 0
	for _, m := range t.Missions {
		if m.Company != companyName {
			continue
		}
		total++
		if m.MissionStatus == models.StatusSuccess {
			success++
		}
	}
	return percentage(success, total)
}

// MissionsByDateRange returns mission names launched between startDate and
// endDate inclusive (YYYY-MM-DD), ordered by launch date. Missions sharing a
// date keep table order. Unparseable bounds yield an empty slice.
func MissionsByDateRange(t *models.MissionTable, startDate, endDate string) []string {
	start, ok := parseISODate(startDate)
	if !ok {
		return []string{}
	}
	end, ok := parseISODate(endDate)
	if !ok {
		return []string{}
	}

	var matched []*models.Mission
	for _, m := range t.Missions {
		if m.LaunchDate == nil {
			continue
		}
		if m.LaunchDate.Before(start) || m.LaunchDate.After(end) {
			continue
		}
		matched = append(matched, m)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].LaunchDate.Before(*matched[j].LaunchDate)
	})

	names := make([]string, len(matched))
	for i, m := range matched {
		names[i] = m.Mission
	}
	return names
}

// TopCompaniesByMissionCount returns the n companies with the most missions,
// ordered by count descending then name ascending. n <= 0 yields an empty
// slice.
func TopCompaniesByMissionCount(t *models.MissionTable, n int) []models.CompanyCount {
	if n <= 0 {
		return []models.CompanyCount{}
	}

	ranked := rankCounts(groupCount(t, func(m *models.Mission) string { return m.Company }))
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]models.CompanyCount, len(ranked))
	for i, kc := range ranked {
		out[i] = models.CompanyCount{Company: kc.key, Count: kc.count}
	}
	return out
}

// MissionStatusCount counts rows per status. The four canonical statuses are
// always present; any other status found in the data is included as well.
func MissionStatusCount(t *models.MissionTable) map[string]int {
	counts := make(map[string]int, len(models.CanonicalStatuses))
	for _, s := range models.CanonicalStatuses {
		counts[s] = 0
	}
	for _, m := range t.Missions {
		counts[m.MissionStatus]++
	}
	return counts
}

// MissionsByYear counts rows launched in year. Rows without a date never
// match.
func MissionsByYear(t *models.MissionTable, year int) int {
	count := 0
	for _, m := range t.Missions {
		if y, ok := m.Year(); ok && y == year {
			count++
		}
	}
	return count
}

// MostUsedRocket returns the rocket with the most rows; ties go to the
// lexicographically smallest name. An empty table yields "".
func MostUsedRocket(t *models.MissionTable) string {
	ranked := rankCounts(groupCount(t, func(m *models.Mission) string { return m.Rocket }))
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].key
}

// AverageMissionsPerYear returns the number of dated rows with a year in
// [startYear, endYear] divided by the number of years in the range, rounded
// to two decimals. An inverted range yields 0.
func AverageMissionsPerYear(t *models.MissionTable, startYear, endYear int) float64 {
	if startYear > endYear {
		return 0
	}

	count := 0
	for _, m := range t.Missions {
		if y, ok := m.Year(); ok && y >= startYear && y <= endYear {
			count++
		}
	}
	// Span in float64 so extreme bounds cannot wrap around.
	years := float64(endYear) - float64(startYear) + 1
	if years <= 0 {
		return 0
	}
	return round2(float64(count) / years)
}

type keyCount struct {
	key   string
	count int
}

func groupCount(t *models.MissionTable, key func(*models.Mission) string) map[string]int {
	counts := make(map[string]int)
	for _, m := range t.Missions {
		counts[key(m)]++
	}
	return counts
}

// rankCounts orders by count descending, then key ascending.
func rankCounts(counts map[string]int) []keyCount {
	ranked := make([]keyCount, 0, len(counts))
	for k, c := range counts {
		ranked = append(ranked, keyCount{key: k, count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].key < ranked[j].key
	})
	return ranked
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

// round2 rounds half away from zero to two decimal places.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
