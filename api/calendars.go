package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/morozova-art/lagunare/internal/availability"
	"github.com/morozova-art/lagunare/internal/repository"
	"github.com/morozova-art/lagunare/internal/service/calendars"
)

type CalendarHandler struct {
	service calendars.CalendarUseCase
}

type dayCellResponse struct {
	Date       string `json:"date"`
	State      string `json:"state"`
	Selected   bool   `json:"selected"`
	Selectable bool   `json:"selectable"`
}

type calendarResponse struct {
	ListingID    int64             `json:"listing_id"`
	Mode         string            `json:"mode"`
	ReadOnly     bool              `json:"read_only"`
	SyncStatus   string            `json:"sync_status"`
	LastSyncedAt string            `json:"last_synced_at,omitempty"`
	BlockedDates []string          `json:"blocked_dates"`
	Year         int               `json:"year"`
	Month        int               `json:"month"`
	Days         []dayCellResponse `json:"days"`
}

type applyRequest struct {
	Mode  string   `json:"mode"`
	Dates []string `json:"dates"`
}

func NewCalendarHandler(service calendars.CalendarUseCase) *CalendarHandler {
	return &CalendarHandler{service: service}
}

func (h *CalendarHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id/calendar", h.get)
	router.POST("/:id/calendar/apply", h.apply)
}

func (h *CalendarHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	cal, err := h.service.Open(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	grid := cal.Grid()
	if y, m, ok := monthParams(c); ok {
		grid = cal.MonthGrid(y, m)
	}

	c.JSON(http.StatusOK, toCalendarResponse(cal, grid))
}

func (h *CalendarHandler) apply(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode := availability.Mode(req.Mode)
	if mode != availability.ModeBlock && mode != availability.ModeUnblock {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be block or unblock"})
		return
	}

	applied, err := h.service.Apply(c.Request.Context(), id, mode, req.Dates)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"applied": applied, "mode": req.Mode})
}

func monthParams(c *gin.Context) (int, time.Month, bool) {
	y, errY := strconv.Atoi(c.Query("year"))
	m, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	return y, time.Month(m), true
}

func toCalendarResponse(cal *availability.Calendar, grid availability.MonthGrid) calendarResponse {
	resp := calendarResponse{
		ListingID:    cal.ListingID,
		Mode:         string(cal.Mode()),
		ReadOnly:     cal.ReadOnly,
		SyncStatus:   string(cal.SyncStatus),
		BlockedDates: cal.BlockedDates(),
		Year:         grid.Year,
		Month:        int(grid.Month),
	}
	if cal.LastSyncedAt != nil {
		resp.LastSyncedAt = cal.LastSyncedAt.Format(time.RFC3339)
	}
	for _, d := range grid.Days {
		resp.Days = append(resp.Days, dayCellResponse{
			Date:       d.Key,
			State:      string(d.State),
			Selected:   d.Selected,
			Selectable: d.Selectable,
		})
	}
	return resp
}
