package http

import (
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"github.com/suchimauz/booking-calendar-service/internal/utils"
)

// exportFeed отдает предстоящие события как iCalendar-ленту,
// на нее можно подписаться из внешнего календарного приложения.
func (c *CalendarController) exportFeed(ctx *gin.Context) {
	from := utils.StartOfWeek(time.Now().In(c.location))
	to := utils.AddWeeks(from, c.cfg.Feed.WeeksAhead)

	events, err := c.useCase.EventsInRange(ctx.Request.Context(), from, to)
	if err != nil {
		c.errorResponse(ctx, err)
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//booking-calendar-service//EN")

	for _, event := range events {
		vevent := cal.AddEvent(event.ID)
		vevent.SetDtStampTime(time.Now())
		vevent.SetStartAt(event.StartDate.Date)
		vevent.SetEndAt(event.EndDate.Date)
		vevent.SetSummary(event.Title)
		if event.Notes != "" {
			vevent.SetDescription(event.Notes)
		}
	}

	ctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}
