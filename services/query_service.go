package services

import (
	"context"

	"space-missions/models"
	"space-missions/utils"
)

// QueryService binds the query functions to a MissionCache. The only error
// any method returns is a dataset load failure.
type QueryService struct {
	cache  *MissionCache
	logger *utils.Logger
}

// NewQueryService creates a QueryService over cache.
func NewQueryService(cache *MissionCache, logger *utils.Logger) *QueryService {
	return &QueryService{cache: cache, logger: logger}
}

// Cache exposes the underlying cache for reload and invalidation.
func (s *QueryService) Cache() *MissionCache { return s.cache }

// Table returns the full memoized table.
func (s *QueryService) Table(ctx context.Context) (*models.MissionTable, error) {
	return s.cache.Table(ctx)
}

func (s *QueryService) MissionCountByCompany(ctx context.Context, companyName string) (int, error) {
	t, err := s.cache.Table(ctx)
	if err != nil {
		return 0, err
	}
	n := MissionCountByCompany(t, companyName)
	s.logger.Debug("[query] MissionCountByCompany(%q) = %d", companyName, n)
	return n, nil
}

func (s *QueryService) SuccessRate(ctx context.Context, companyName string) (float64, error) {
	t, err := s.cache.Table(ctx)
	if err != nil {
		return 0, err
	}
	rate := SuccessRate(t, companyName)
	s.logger.Debug("[query] SuccessRate(%q) = %.2f", companyName, rate)
	return rate, nil
}

func (s *QueryService) MissionsByDateRange(ctx context.Context, startDate, endDate string) ([]string, error) {
	t, err := s.cache.Table(ctx)
	if err != nil {
		return nil, err
	}
	names := MissionsByDateRange(t, startDate, endDate)
	s.logger.Debug("[query] MissionsByDateRange(%q, %q) = %d missions", startDate, endDate, len(names))
	return names, nil
}

func (s *QueryService) TopCompaniesByMissionCount(ctx context.Context, n int) ([]models.CompanyCount, error) {
	t, err := s.cache.Table(ctx)
	if err != nil {
		return nil, err
	}
	top := TopCompaniesByMissionCount(t, n)
	s.logger.Debug("[query] TopCompaniesByMissionCount(%d) = %d companies", n, len(top))
	return top, nil
}

func (s *QueryService) MissionStatusCount(ctx context.Context) (map[string]int, error) {
	t, err := s.cache.Table(ctx)
	if err != nil {
		return nil, err
	}
	return MissionStatusCount(t), nil
}

func (s *QueryService) MissionsByYear(ctx context.Context, year int) (int, error) {
	t, err := s.cache.Table(ctx)
	if err != nil {
		return 0, err
	}
	n := MissionsByYear(t, year)
	s.logger.Debug("[query] MissionsByYear(%d) = %d", year, n)
	return n, nil
}

func (s *QueryService) MostUsedRocket(ctx context.Context) (string, error) {
	t, err := s.cache.Table(ctx)
	if err != nil {
		return "", err
	}
	return MostUsedRocket(t), nil
}

func (s *QueryService) AverageMissionsPerYear(ctx context.Context, startYear, endYear int) (float64, error) {
	t, err := s.cache.Table(ctx)
	if err != nil {
		return 0, err
	}
	avg := AverageMissionsPerYear(t, startYear, endYear)
	s.logger.Debug("[query] AverageMissionsPerYear(%d, %d) = %.2f", startYear, endYear, avg)
	return avg, nil
}
