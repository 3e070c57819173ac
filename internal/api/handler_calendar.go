package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"car-rental-backend/internal/calendar"
	"car-rental-backend/internal/parse"
)

// GetBookedDates handles GET /api/calendar/booked-dates?from=&to=.
// Without parameters it covers the current month.
func (h *Handler) GetBookedDates(c *gin.Context) {
	from, to, err := h.bookedDatesRange(c.Query("from"), c.Query("to"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	dates, err := h.calendar.BookedDates(c.Request.Context(), from, to)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	formatted := make([]string, len(dates))
	for i, d := range dates {
		formatted[i] = d.Format(parse.DateLayout)
	}
	c.JSON(http.StatusOK, gin.H{
		"from":  from.Format(parse.DateLayout),
		"to":    to.Format(parse.DateLayout),
		"dates": formatted,
	})
}

func (h *Handler) bookedDatesRange(rawFrom, rawTo string) (time.Time, time.Time, error) {
	loc := h.calendar.Location()
	switch {
	case rawFrom == "" && rawTo == "":
		from, to := calendar.MonthRange(h.calendar.Today())
		return from, to, nil
	case rawTo == "":
		from, err := parse.Date(rawFrom, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		_, to := calendar.MonthRange(from)
		return from, to, nil
	case rawFrom == "":
		to, err := parse.Date(rawTo, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from, _ := calendar.MonthRange(to)
		return from, to, nil
	}

	from, err := parse.Date(rawFrom, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parse.Date(rawTo, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
