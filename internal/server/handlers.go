package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vegasq/codesearch/output"
	"github.com/vegasq/codesearch/query"
)

// maxPageSize caps page_size so one request cannot page out the dataset.
const maxPageSize = 1000

// Chart is the per-page group breakdown shown next to the results.
type Chart struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Rows       []query.Record `json:"rows"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
	Chart      Chart          `json:"chart"`
}

// parseRequest reads the shared search parameters:
// query, search_type, columns (repeated or comma separated), fuzzy, sort.
func (s *Server) parseRequest(c *gin.Context) (query.SearchRequest, error) {
	searchType := c.DefaultQuery("search_type", s.cfg.Search.DefaultType)

	var columns []string
	for _, v := range c.QueryArray("columns") {
		for _, col := range strings.Split(v, ",") {
			if col = strings.TrimSpace(col); col != "" {
				columns = append(columns, col)
			}
		}
	}
	if len(columns) == 0 {
		columns = s.cfg.Search.DefaultColumns
	}

	fuzzy := false
	if v := c.Query("fuzzy"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return query.SearchRequest{}, BadRequest("fuzzy must be true or false")
		}
		fuzzy = b
	}

	return query.SearchRequest{
		Query: c.Query("query"),
		Match: query.MatchSpec{
			SearchType: query.SearchType(searchType),
			Columns:    columns,
			UseFuzzy:   fuzzy,
		},
		Sort: query.SortKey(c.DefaultQuery("sort", string(query.SortByID))),
	}, nil
}

func intParam(c *gin.Context, name string, def int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, BadRequest(name + " must be an integer")
	}
	return n, nil
}

func (s *Server) search(c *gin.Context) {
	req, err := s.parseRequest(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	page, err := intParam(c, "page", 1)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	size, err := intParam(c, "page_size", s.cfg.Search.PageSize)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	req.Page = &query.Page{Number: page, Size: size}

	res, err := s.svc.Search(c.Request.Context(), req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	chart := Chart{Labels: []string{}, Data: []int{}}
	for _, g := range query.GroupCounts(res.Rows, s.svc.Schema().GroupColumn) {
		chart.Labels = append(chart.Labels, g.Value)
		chart.Data = append(chart.Data, g.Count)
	}

	c.JSON(http.StatusOK, SearchResponse{
		Rows:       res.Rows,
		TotalCount: res.TotalCount,
		Page:       page,
		PageSize:   size,
		TotalPages: (res.TotalCount + size - 1) / size,
		Chart:      chart,
	})
}

func (s *Server) export(c *gin.Context) {
	s.writeExport(c, "search_results.csv", false)
}

func (s *Server) exportUnique(c *gin.Context) {
	s.writeExport(c, "unique_results.csv", true)
}

// writeExport runs the search without paging and streams it as a CSV
// attachment in dataset column order.
func (s *Server) writeExport(c *gin.Context, filename string, unique bool) {
	req, err := s.parseRequest(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if unique {
		req.DedupKey = s.svc.Schema().DedupColumn
	}

	res, err := s.svc.Search(c.Request.Context(), req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	formatter := output.NewCSVFormatter(c.Writer)
	formatter.SetColumns(s.svc.Columns())
	if err := formatter.Format(res.Rows); err != nil {
		// headers are already sent
		s.log.Error("export failed", "request_id", RequestIDFrom(c), "error", err)
		_ = c.Error(err)
	}
}

func (s *Server) stats(c *gin.Context) {
	top, err := intParam(c, "top", 10)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	by := c.DefaultQuery("by", s.svc.Schema().GroupColumn)
	c.JSON(http.StatusOK, s.svc.Stats(by, top))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "records": s.svc.Len()})
}
