package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/morozova-art/lagunare/internal/domain"
	"github.com/morozova-art/lagunare/internal/repository"
	"github.com/morozova-art/lagunare/internal/service/listings"
)

type ListingHandler struct {
	service listings.ListingUseCase
}

type listingResponse struct {
	ID           int64  `json:"id"`
	Kind         string `json:"kind"`
	Name         string `json:"name"`
	City         string `json:"city"`
	PriceCents   int64  `json:"price_cents"`
	Currency     string `json:"currency"`
	ReadOnly     bool   `json:"read_only_calendar"`
	SyncStatus   string `json:"sync_status"`
	LastSyncedAt string `json:"last_synced_at,omitempty"`
}

func NewListingHandler(service listings.ListingUseCase) *ListingHandler {
	return &ListingHandler{service: service}
}

func (h *ListingHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
}

func (h *ListingHandler) list(c *gin.Context) {
	city := c.Query("city")
	kind := domain.ListingKind(c.Query("kind"))

	result, err := h.service.List(c.Request.Context(), city, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]listingResponse, 0, len(result))
	for _, l := range result {
		out = append(out, toListingResponse(&l))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ListingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	listing, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toListingResponse(listing))
}

func toListingResponse(l *domain.Listing) listingResponse {
	resp := listingResponse{
		ID:         l.ID,
		Kind:       string(l.Kind),
		Name:       l.Name,
		City:       l.City,
		PriceCents: l.PriceCents,
		Currency:   l.Currency,
		ReadOnly:   l.ReadOnlyCalendar,
		SyncStatus: string(l.SyncStatus),
	}
	if l.LastSyncedAt != nil {
		resp.LastSyncedAt = l.LastSyncedAt.Format(time.RFC3339)
	}
	return resp
}
