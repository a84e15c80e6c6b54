package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/booking-calendar-service/internal/adapters/out/eventstore"
	"github.com/suchimauz/booking-calendar-service/internal/config"
	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/in"
	"github.com/suchimauz/booking-calendar-service/internal/core/services/calendar_service"
	"github.com/suchimauz/booking-calendar-service/internal/utils"
)

type CalendarController struct {
	useCase  in.CalendarUseCase
	cfg      *config.Config
	location *time.Location
}

func NewCalendarController(useCase in.CalendarUseCase, cfg *config.Config, location *time.Location) *CalendarController {
	return &CalendarController{
		useCase:  useCase,
		cfg:      cfg,
		location: location,
	}
}

func (c *CalendarController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.Use(basicAuth(c.cfg))
	{
		api.GET("/calendar/week", c.weekView)
		api.GET("/calendar/slots", c.availableSlots)
		api.GET("/calendar/metrics", c.weekMetrics)
		api.GET("/calendar/feed.ics", c.exportFeed)

		api.GET("/events", c.eventsInRange)
		api.POST("/events", c.createEvent)
		api.PUT("/events/:id", c.updateEvent)
		api.DELETE("/events/:id", c.deleteEvent)
	}
}

type EventRequest struct {
	Title    string `json:"title" binding:"required"`
	Start    string `json:"start" binding:"required"`
	End      string `json:"end" binding:"required"`
	ClientID string `json:"clientId"`
	Notes    string `json:"notes"`
}

func (c *CalendarController) draftFromRequest(req EventRequest) (domain.EventDraft, error) {
	start, err := utils.ParseDate(req.Start, c.location)
	if err != nil {
		return domain.EventDraft{}, err
	}
	end, err := utils.ParseDate(req.End, c.location)
	if err != nil {
		return domain.EventDraft{}, err
	}

	return domain.EventDraft{
		Title:    req.Title,
		Start:    start,
		End:      end,
		ClientID: req.ClientID,
		Notes:    req.Notes,
	}, nil
}

func (c *CalendarController) weekView(ctx *gin.Context) {
	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset format"})
		return
	}

	view, err := c.useCase.WeekView(ctx.Request.Context(), offset)
	if err != nil {
		c.errorResponse(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

func (c *CalendarController) availableSlots(ctx *gin.Context) {
	day, err := utils.ParseDate(ctx.Query("date"), c.location)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	slots, err := c.useCase.AvailableSlots(ctx.Request.Context(), day)
	if err != nil {
		c.errorResponse(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"date":  day.Format("2006-01-02"),
		"slots": slots,
	})
}

func (c *CalendarController) weekMetrics(ctx *gin.Context) {
	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset format"})
		return
	}

	metrics, err := c.useCase.WeekMetrics(ctx.Request.Context(), offset)
	if err != nil {
		c.errorResponse(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, metrics)
}

func (c *CalendarController) eventsInRange(ctx *gin.Context) {
	from, err := utils.ParseDate(ctx.Query("from"), c.location)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date format"})
		return
	}
	to, err := utils.ParseDate(ctx.Query("to"), c.location)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date format"})
		return
	}

	events, err := c.useCase.EventsInRange(ctx.Request.Context(), from, to)
	if err != nil {
		c.errorResponse(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"from":   from,
		"to":     to,
		"events": events,
	})
}

func (c *CalendarController) createEvent(ctx *gin.Context) {
	var req EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := c.draftFromRequest(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	event, err := c.useCase.CreateEvent(ctx.Request.Context(), draft)
	if err != nil {
		c.errorResponse(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"created": event})
}

func (c *CalendarController) updateEvent(ctx *gin.Context) {
	eventID := ctx.Param("id")

	var req EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := c.draftFromRequest(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	event, err := c.useCase.UpdateEvent(ctx.Request.Context(), eventID, draft)
	if err != nil {
		c.errorResponse(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"updated": event})
}

func (c *CalendarController) deleteEvent(ctx *gin.Context) {
	eventID := ctx.Param("id")

	if err := c.useCase.DeleteEvent(ctx.Request.Context(), eventID); err != nil {
		c.errorResponse(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"eventId": eventID})
}

// errorResponse мапит ошибки ядра на HTTP-ответы:
// невалидный интервал - 400, конфликт слота - 409 с выделенным сообщением,
// прочие ответы хранилища - как есть.
func (c *CalendarController) errorResponse(ctx *gin.Context, err error) {
	if errors.Is(err, calendar_service.ErrInvalidEventInterval) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errors.Is(err, eventstore.ErrSlotConflict) {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Time slot conflict"})
		return
	}

	var statusErr *eventstore.StatusError
	if errors.As(err, &statusErr) {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": statusErr.Error()})
		return
	}

	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
