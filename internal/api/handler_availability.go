package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"car-rental-backend/internal/availability"
	"car-rental-backend/internal/calendar"
	"car-rental-backend/internal/parse"
)

type availabilityResponse struct {
	VehicleID string                    `json:"vehicleId"`
	Date      string                    `json:"date"`
	Status    availability.Status       `json:"status"`
	Slots     []availability.ClockRange `json:"slots"`
}

type dailyStatusResponse struct {
	VehicleID string                    `json:"vehicleId"`
	Name      string                    `json:"name"`
	Price12h  string                    `json:"price12h"`
	Price24h  string                    `json:"price24h"`
	Status    availability.Status       `json:"status"`
	Slots     []availability.ClockRange `json:"slots"`
}

type fleetAvailabilityResponse struct {
	Date     string                `json:"date"`
	Vehicles []dailyStatusResponse `json:"vehicles"`
}

func newAvailabilityResponse(day calendar.VehicleDay) availabilityResponse {
	return availabilityResponse{
		VehicleID: day.Vehicle.ID,
		Date:      day.Window.Start.Format(parse.DateLayout),
		Status:    day.Status,
		Slots:     day.Window.Render(day.FreeSlots),
	}
}

// GetVehicleAvailability handles GET /api/vehicles/{vehicle_id}/availability?date=YYYY-MM-DD.
func (h *Handler) GetVehicleAvailability(c *gin.Context) {
	date, err := h.calendar.ParseDate(c.Query("date"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	day, err := h.calendar.VehicleAvailability(c.Request.Context(), c.Param("vehicle_id"), date)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAvailabilityResponse(day))
}

// GetFleetAvailability handles GET /api/availability?date=YYYY-MM-DD.
func (h *Handler) GetFleetAvailability(c *gin.Context) {
	date, err := h.calendar.ParseDate(c.Query("date"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	days, err := h.calendar.FleetAvailability(c.Request.Context(), date)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	response := fleetAvailabilityResponse{
		Date:     date.Format(parse.DateLayout),
		Vehicles: make([]dailyStatusResponse, len(days)),
	}
	for i, day := range days {
		response.Vehicles[i] = dailyStatusResponse{
			VehicleID: day.Vehicle.ID,
			Name:      day.Vehicle.Name,
			Price12h:  day.Vehicle.DisplayRate12h(),
			Price24h:  day.Vehicle.DisplayRate24h(),
			Status:    day.Status,
			Slots:     day.Window.Render(day.FreeSlots),
		}
	}
	c.JSON(http.StatusOK, response)
}
