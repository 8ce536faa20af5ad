package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/view"
)

// SessionResponse is the derived view of a session plus its inputs
type SessionResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Search    string `json:"search"`
	RawSearch string `json:"raw_search"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	ViewResponse
}

// SessionUpdate changes session inputs. Fields are applied in declaration
// order; absent fields are left untouched.
type SessionUpdate struct {
	Clear  bool    `json:"clear"`
	Status *string `json:"status"`
	From   *string `json:"from"`
	To     *string `json:"to"`
	Search *string `json:"search"`
	// Flush applies pending search input without waiting for the quiet period
	Flush bool    `json:"flush"`
	Sort  *string `json:"sort"`
	Page  *int    `json:"page"`
}

// CreateSession handles POST /api/sessions
func (h *Handlers) CreateSession(c *gin.Context) {
	id, s, err := h.deps.Sessions.Create(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to create session", err)
		return
	}
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    sessionResponse(id, s),
	})
}

// GetSession handles GET /api/sessions/:sid
func (h *Handlers) GetSession(c *gin.Context) {
	id := c.Param("sid")
	s, err := h.deps.Sessions.Get(id)
	if err != nil {
		h.fail(c, "Unknown session", err)
		return
	}
	ok(c, sessionResponse(id, s))
}

// UpdateSession handles PATCH /api/sessions/:sid
func (h *Handlers) UpdateSession(c *gin.Context) {
	id := c.Param("sid")
	s, err := h.deps.Sessions.Get(id)
	if err != nil {
		h.fail(c, "Unknown session", err)
		return
	}

	var body SessionUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid session update")
		return
	}
	if err := applyUpdate(s, body); err != nil {
		badRequest(c, err.Error())
		return
	}
	ok(c, sessionResponse(id, s))
}

// DeleteSession handles DELETE /api/sessions/:sid
func (h *Handlers) DeleteSession(c *gin.Context) {
	if err := h.deps.Sessions.Remove(c.Param("sid")); err != nil {
		h.fail(c, "Unknown session", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportSession handles GET /api/sessions/:sid/export?format=csv|xlsx
func (h *Handlers) ExportSession(c *gin.Context) {
	s, err := h.deps.Sessions.Get(c.Param("sid"))
	if err != nil {
		h.fail(c, "Unknown session", err)
		return
	}
	h.writeExport(c, s.ExportRows())
}

// applyUpdate validates every field before changing anything
func applyUpdate(s *view.Session, u SessionUpdate) error {
	var status view.StatusFilter
	if u.Status != nil {
		parsed, err := view.ParseStatusFilter(*u.Status)
		if err != nil {
			return err
		}
		status = parsed
	}

	current := s.State().Filters
	start, end := current.Start, current.End
	if u.Clear {
		start, end = nil, nil
	}
	if u.From != nil {
		parsed, err := view.ParseDate(*u.From)
		if err != nil {
			return err
		}
		start = parsed
	}
	if u.To != nil {
		parsed, err := view.ParseDate(*u.To)
		if err != nil {
			return err
		}
		end = parsed
	}
	if u.Sort != nil && !view.IsSortKey(*u.Sort) {
		return fmt.Errorf("unknown sort key %q", *u.Sort)
	}

	if u.Clear {
		s.ClearFilters()
	}
	if u.Status != nil {
		s.SetStatusFilter(status)
	}
	if u.From != nil || u.To != nil {
		s.SetDateRange(start, end)
	}
	if u.Search != nil {
		s.TypeSearch(*u.Search)
	}
	if u.Flush {
		s.FlushSearch()
	}
	if u.Sort != nil {
		s.RequestSort(*u.Sort)
	}
	if u.Page != nil {
		s.SetPage(*u.Page)
	}
	return nil
}

func sessionResponse(id string, s *view.Session) SessionResponse {
	st := s.State()
	result := s.View()

	resp := SessionResponse{
		ID:        id,
		Status:    st.Filters.Status.String(),
		Search:    st.Filters.Search,
		RawSearch: st.RawSearch,
		ViewResponse: ViewResponse{
			Rows:         result.Visible,
			TotalMatched: result.TotalMatched,
			Page:         st.Page,
			PageCount:    st.PageCount,
			PageSize:     view.PageSize,
			Sort:         st.Sort.Key,
			Direction:    st.Sort.Direction.String(),
		},
	}
	if st.Filters.Start != nil {
		resp.From = st.Filters.Start.Format(view.DateLayout)
	}
	if st.Filters.End != nil {
		resp.To = st.Filters.End.Format(view.DateLayout)
	}
	return resp
}
