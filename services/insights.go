package services

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"space-missions/models"
	"space-missions/utils"
)

const topCompaniesInReport = 10

var (
	bannerColor  = color.New(color.FgMagenta, color.Bold)
	headingColor = color.New(color.FgYellow, color.Bold)
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes every report section from t.
func (s *InsightService) Generate(t *models.MissionTable) *models.InsightReport {
	report := &models.InsightReport{
		Summary:        Summarize(t),
		TopCompanies:   CompanyBreakdown(t, topCompaniesInReport),
		StatusCounts:   MissionStatusCount(t),
		MostUsedRocket: MostUsedRocket(t),
		Yearly:         YearlyStats(t),
		UndatedRows:    UndatedCount(t),
	}
	s.logger.Debug("[insights] Report over %d missions, %d years",
		report.Summary.TotalMissions, len(report.Yearly))
	return report
}

// Print renders the report as headed terminal tables.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)

	bannerColor.Fprintf(w, "\n%s\n", sep)
	bannerColor.Fprintf(w, "  SPACE MISSION INSIGHTS\n")
	bannerColor.Fprintf(w, "%s\n\n", sep)

	headingColor.Fprintf(w, "  Overview\n")
	overview := newTable(w, []string{"Metric", "Value"})
	overview.Append([]string{"Total missions", strconv.Itoa(r.Summary.TotalMissions)})
	overview.Append([]string{"Success rate", fmt.Sprintf("%.2f%%", r.Summary.SuccessRate)})
	overview.Append([]string{"Companies", strconv.Itoa(r.Summary.UniqueCompanies)})
	overview.Append([]string{"Rocket types", strconv.Itoa(r.Summary.UniqueRockets)})
	if r.MostUsedRocket != "" {
		overview.Append([]string{"Most used rocket", r.MostUsedRocket})
	}
	if r.UndatedRows > 0 {
		overview.Append([]string{"Rows without date", strconv.Itoa(r.UndatedRows)})
	}
	overview.Render()
	fmt.Fprintln(w)

	headingColor.Fprintf(w, "  Top Companies by Mission Count\n")
	if len(r.TopCompanies) == 0 {
		fmt.Fprintf(w, "  No missions found\n")
	} else {
		companies := newTable(w, []string{"#", "Company", "Missions", "Success %"})
		for i, c := range r.TopCompanies {
			companies.Append([]string{
				strconv.Itoa(i + 1),
				truncate(c.Company, 40),
				strconv.Itoa(c.Count),
				fmt.Sprintf("%.2f", c.SuccessRate),
			})
		}
		companies.Render()
	}
	fmt.Fprintln(w)

	headingColor.Fprintf(w, "  Mission Outcomes\n")
	outcomes := newTable(w, []string{"Status", "Missions"})
	for _, status := range OrderedStatuses(r.StatusCounts) {
		outcomes.Append([]string{status, strconv.Itoa(r.StatusCounts[status])})
	}
	outcomes.Render()
	fmt.Fprintln(w)

	headingColor.Fprintf(w, "  Launches per Year\n")
	if len(r.Yearly) == 0 {
		fmt.Fprintf(w, "  No dated missions\n")
	} else {
		years := newTable(w, []string{"Year", "Missions", "Successful", "Success %"})
		for _, y := range r.Yearly {
			years.Append([]string{
				strconv.Itoa(y.Year),
				strconv.Itoa(y.Total),
				strconv.Itoa(y.Successful),
				fmt.Sprintf("%.2f", y.SuccessRate),
			})
		}
		years.Render()
	}

	bannerColor.Fprintf(w, "\n%s\n\n", sep)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

// OrderedStatuses lists canonical statuses first, then any others by name.
func OrderedStatuses(counts map[string]int) []string {
	out := append([]string(nil), models.CanonicalStatuses...)
	canonical := toSet(models.CanonicalStatuses)
	var others []string
	for status := range counts {
		if _, ok := canonical[status]; !ok {
			others = append(others, status)
		}
	}
	sort.Strings(others)
	return append(out, others...)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
