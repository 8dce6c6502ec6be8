package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"space-missions/models"
	"space-missions/utils"
)

func newTestLogger() *utils.Logger { return utils.NewDiscardLogger() }

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func mission(company, launch, rocket, name, status string) *models.Mission {
	m := &models.Mission{
		Company:       company,
		Rocket:        rocket,
		Mission:       name,
		MissionStatus: status,
	}
	if launch != "" {
		m.LaunchDate = date(launch)
	}
	return m
}

func tableOf(missions ...*models.Mission) *models.MissionTable {
	return models.NewMissionTable(append([]string(nil), models.RequiredColumns...), missions)
}

// sampleTable mixes companies, ties, an undated row and a non-canonical status.
func sampleTable() *models.MissionTable {
	return tableOf(
		mission("RVSN USSR", "1957-10-04", "Sputnik 8K71PS", "Sputnik-1", "Success"),
		mission("RVSN USSR", "1957-11-03", "Sputnik 8K71PS", "Sputnik-2", "Success"),
		mission("US Navy", "1957-12-06", "Vanguard", "Vanguard TV3", "Failure"),
		mission("AMBA", "1958-02-01", "Juno I", "Explorer 1", "Success"),
		mission("US Navy", "1958-02-05", "Vanguard", "Vanguard TV3BU", "Failure"),
		mission("AMBA", "1958-03-05", "Juno I", "Explorer 2", "Failure"),
		mission("US Navy", "1958-03-17", "Vanguard", "Vanguard 1", "Success"),
		mission("AMBA", "1958-03-17", "Juno I", "Explorer 3", "Success"),
		mission("NASA", "", "Atlas", "Lost Record", "Partial Failure"),
		mission("NASA", "1959-01-01", "Atlas", "Pad Hold", "Scrubbed"),
	)
}

type fakeLoader struct {
	table *models.MissionTable
	err   error
	calls int64
	delay time.Duration
}

func (f *fakeLoader) Load(ctx context.Context) (*models.MissionTable, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

type fakeSource struct {
	raw *models.RawTable
	err error
}

func (f fakeSource) Name() string { return "fake" }

func (f fakeSource) Load(context.Context) (*models.RawTable, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

var errBoom = errors.New("boom")
