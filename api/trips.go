package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/morozova-art/lagunare/internal/domain"
	"github.com/morozova-art/lagunare/internal/repository"
	"github.com/morozova-art/lagunare/internal/service/trips"
	"github.com/morozova-art/lagunare/internal/trip"
)

type TripHandler struct {
	service trips.TripUseCase
}

type setListingRequest struct {
	ListingID *int64 `json:"listing_id"`
}

type setDatesRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type submitRequest struct {
	Email string `json:"email"`
}

type legResponse struct {
	ListingID  int64  `json:"listing_id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
	Units      int    `json:"units"`
	PriceCents int64  `json:"price_cents"`
	TotalCents int64  `json:"total_cents"`
	Currency   string `json:"currency"`
}

type quoteResponse struct {
	Location       string       `json:"location"`
	Stay           *legResponse `json:"stay,omitempty"`
	Vehicle        *legResponse `json:"vehicle,omitempty"`
	TripTotalCents int64        `json:"trip_total_cents"`
}

func NewTripHandler(service trips.TripUseCase) *TripHandler {
	return &TripHandler{service: service}
}

func (h *TripHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.start)
	router.GET("/:id", h.quote)
	router.PUT("/:id/stay", h.setStay)
	router.PUT("/:id/stay/dates", h.setStayDates)
	router.PUT("/:id/vehicle", h.setVehicle)
	router.PUT("/:id/vehicle/dates", h.setVehicleDates)
	router.DELETE("/:id/vehicle", h.removeVehicle)
	router.DELETE("/:id", h.clear)
	router.POST("/:id/submit", h.submit)
}

func (h *TripHandler) start(c *gin.Context) {
	id := h.service.StartSession(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

func (h *TripHandler) quote(c *gin.Context) {
	q, err := h.service.Quote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondTripError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func (h *TripHandler) setStay(c *gin.Context) {
	var req setListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q, err := h.service.SetStay(c.Request.Context(), c.Param("id"), req.ListingID)
	if err != nil {
		respondTripError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func (h *TripHandler) setStayDates(c *gin.Context) {
	r, ok := bindDateRange(c)
	if !ok {
		return
	}
	q, err := h.service.SetStayDates(c.Request.Context(), c.Param("id"), r)
	if err != nil {
		respondTripError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func (h *TripHandler) setVehicle(c *gin.Context) {
	var req setListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q, err := h.service.SetVehicle(c.Request.Context(), c.Param("id"), req.ListingID)
	if err != nil {
		respondTripError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func (h *TripHandler) setVehicleDates(c *gin.Context) {
	r, ok := bindDateRange(c)
	if !ok {
		return
	}
	q, err := h.service.SetVehicleDates(c.Request.Context(), c.Param("id"), r)
	if err != nil {
		respondTripError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func (h *TripHandler) removeVehicle(c *gin.Context) {
	q, err := h.service.RemoveVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondTripError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func (h *TripHandler) clear(c *gin.Context) {
	if err := h.service.ClearTrip(c.Request.Context(), c.Param("id")); err != nil {
		respondTripError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TripHandler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.service.SubmitRequest(c.Request.Context(), c.Param("id"), req.Email)
	if err != nil {
		respondTripError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"reference": result.Reference,
		"quote":     toQuoteResponse(result.Quote),
	})
}

func bindDateRange(c *gin.Context) (domain.DateRange, bool) {
	var req setDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.DateRange{}, false
	}
	start, err := parseDate(req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
		return domain.DateRange{}, false
	}
	end, err := parseDate(req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return domain.DateRange{}, false
	}
	return domain.DateRange{Start: start, End: end}, true
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(domain.DateKey, s, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func respondTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trips.ErrSessionNotFound), errors.Is(err, repository.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, trips.ErrEmptyTrip):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func toQuoteResponse(q trip.Quote) quoteResponse {
	resp := quoteResponse{
		Location:       q.Location,
		TripTotalCents: q.TripTotalCents,
	}
	resp.Stay = toLegResponse(q.Stay)
	resp.Vehicle = toLegResponse(q.Vehicle)
	return resp
}

func toLegResponse(leg *trip.LegQuote) *legResponse {
	if leg == nil {
		return nil
	}
	out := &legResponse{
		ListingID:  leg.ListingID,
		Name:       leg.Name,
		Kind:       string(leg.Kind),
		Units:      leg.Units,
		PriceCents: leg.PriceCents,
		TotalCents: leg.TotalCents,
		Currency:   leg.Currency,
	}
	if leg.Start != nil {
		out.Start = leg.Start.Format(domain.DateKey)
	}
	if leg.End != nil {
		out.End = leg.End.Format(domain.DateKey)
	}
	return out
}
