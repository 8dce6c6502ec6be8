package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"space-missions/models"
	"space-missions/services"
	"space-missions/storage"
)

func (s *Server) health(c *gin.Context) {
	loaded, at := s.queries.Cache().Loaded()
	body := gin.H{"status": "ok", "loaded": loaded}
	if loaded {
		body["loaded_at"] = at.UTC()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) companyMissions(c *gin.Context) {
	company := c.Param("company")
	s.metrics.ObserveQuery("MissionCountByCompany")
	n, err := s.queries.MissionCountByCompany(c.Request.Context(), company)
	if err != nil {
		s.loadFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company, "count": n})
}

func (s *Server) companySuccessRate(c *gin.Context) {
	company := c.Param("company")
	s.metrics.ObserveQuery("SuccessRate")
	rate, err := s.queries.SuccessRate(c.Request.Context(), company)
	if err != nil {
		s.loadFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company, "success_rate": rate})
}

func (s *Server) missionsByDateRange(c *gin.Context) {
	s.metrics.ObserveQuery("MissionsByDateRange")
	names, err := s.queries.MissionsByDateRange(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		s.loadFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"missions": names})
}

func (s *Server) topCompanies(c *gin.Context) {
	s.metrics.ObserveQuery("TopCompaniesByMissionCount")
	n, _ := atoi(c.Query("n"))
	top, err := s.queries.TopCompaniesByMissionCount(c.Request.Context(), n)
	if err != nil {
		s.loadFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": top})
}

func (s *Server) statusCount(c *gin.Context) {
	s.metrics.ObserveQuery("MissionStatusCount")
	counts, err := s.queries.MissionStatusCount(c.Request.Context())
	if err != nil {
		s.loadFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statuses": counts})
}

func (s *Server) yearMissions(c *gin.Context) {
	s.metrics.ObserveQuery("MissionsByYear")
	year, ok := atoi(c.Param("year"))
	if !ok {
		if _, err := s.queries.Table(c.Request.Context()); err != nil {
			s.loadFailed(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"year": nil, "count": 0})
		return
	}
	n, err := s.queries.MissionsByYear(c.Request.Context(), year)
	if err != nil {
		s.loadFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "count": n})
}

func (s *Server) mostUsedRocket(c *gin.Context) {
	s.metrics.ObserveQuery("MostUsedRocket")
	rocket, err := s.queries.MostUsedRocket(c.Request.Context())
	if err != nil {
		s.loadFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rocket": rocket})
}

func (s *Server) averagePerYear(c *gin.Context) {
	s.metrics.ObserveQuery("AverageMissionsPerYear")
	start, okStart := atoi(c.Query("start"))
	end, okEnd := atoi(c.Query("end"))
	if !okStart || !okEnd {
		if _, err := s.queries.Table(c.Request.Context()); err != nil {
			s.loadFailed(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"average": 0.0})
		return
	}
	avg, err := s.queries.AverageMissionsPerYear(c.Request.Context(), start, end)
	if err != nil {
		s.loadFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average": avg})
}

func (s *Server) summary(c *gin.Context) {
	view, ok := s.filteredView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": services.Summarize(view),
		"yearly":  services.YearlyStats(view),
		"undated": services.UndatedCount(view),
	})
}

func (s *Server) exportCSV(c *gin.Context) {
	view, ok := s.filteredView(c)
	if !ok {
		return
	}
	columns, err := services.SelectColumns(view, splitList(c.QueryArray("column")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="missions.csv"`)
	c.Status(http.StatusOK)

	w := storage.NewCSVWriter(c.Writer)
	if err := w.Export(view, columns); err != nil {
		s.logger.Error("[api] CSV export failed: %v", err)
		return
	}
	if err := w.Close(); err != nil {
		s.logger.Error("[api] CSV export flush failed: %v", err)
	}
}

func (s *Server) reload(c *gin.Context) {
	table, err := s.queries.Cache().Reload(c.Request.Context())
	if err != nil {
		s.loadFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded", "missions": table.Len()})
}

// filteredView loads the table and applies the from/to/company/status
// query parameters. It writes the error response itself.
func (s *Server) filteredView(c *gin.Context) (*models.MissionTable, bool) {
	table, err := s.queries.Table(c.Request.Context())
	if err != nil {
		s.loadFailed(c, err)
		return nil, false
	}
	filter := services.ParseFilter(
		c.Query("from"),
		c.Query("to"),
		splitList(c.QueryArray("company")),
		splitList(c.QueryArray("status")),
	)
	return filter.Apply(table), true
}

func (s *Server) loadFailed(c *gin.Context, err error) {
	s.logger.Error("[api] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	status := http.StatusServiceUnavailable
	if !services.IsLoadError(err) && !errors.Is(err, services.ErrSourceNotFound) {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitList accepts both repeated parameters and comma-separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
