package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"space-missions/models"
	"space-missions/utils"
)

// dateLayouts are tried in order when parsing launch dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006/01/02",
	"01/02/2006",
	"Mon Jan 2, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// Cleaner transforms raw source rows into Missions.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean converts every raw row into a Mission. The raw table must already
// carry all required columns. String fields are kept verbatim; only the
// date and price are parsed.
func (c *Cleaner) Clean(raw *models.RawTable) *models.MissionTable {
	index := make(map[string]int, len(raw.Columns))
	for i, col := range raw.Columns {
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}

	required := make(map[string]struct{}, len(models.RequiredColumns))
	for _, col := range models.RequiredColumns {
		required[col] = struct{}{}
	}
	var extras []string
	for _, col := range raw.Columns {
		if _, ok := required[col]; !ok {
			extras = append(extras, col)
		}
	}

	missions := make([]*models.Mission, 0, len(raw.Rows))
	undated := 0

	for _, row := range raw.Rows {
		field := func(col string) string { return row[index[col]] }

		m := &models.Mission{
			Company:       field(models.ColCompany),
			Location:      field(models.ColLocation),
			LaunchDate:    parseDate(field(models.ColDate)),
			LaunchTime:    field(models.ColTime),
			Rocket:        field(models.ColRocket),
			Mission:       field(models.ColMission),
			RocketStatus:  field(models.ColRocketStatus),
			Price:         parsePrice(field(models.ColPrice)),
			MissionStatus: field(models.ColMissionStatus),
		}
		if len(extras) > 0 {
			m.Extra = make(map[string]string, len(extras))
			for _, col := range extras {
				m.Extra[col] = field(col)
			}
		}
		if m.LaunchDate == nil {
			undated++
			c.logger.Debug("[cleaner] Unparseable date %q for mission %q", field(models.ColDate), m.Mission)
		}
		missions = append(missions, m)
	}

	if undated > 0 {
		c.logger.Warn("[cleaner] %d of %d rows have no usable launch date", undated, len(missions))
	}
	return models.NewMissionTable(append([]string(nil), raw.Columns...), missions)
}

// parseDate tries each known layout and returns the calendar date at
// midnight UTC, or nil when nothing matches.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	return nil
}

// parseISODate parses a strict YYYY-MM-DD boundary argument.
func parseISODate(raw string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parsePrice accepts values such as "50.0", "5,000.0" or "$62". Empty or
// unparseable values yield nil.
func parsePrice(raw string) *float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
