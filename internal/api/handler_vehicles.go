package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"car-rental-backend/internal/model"
)

// vehicleResponse adds the formatted rates to a vehicle.
type vehicleResponse struct {
	model.Vehicle
	Price12h string `json:"price12h"`
	Price24h string `json:"price24h"`
}

func newVehicleResponse(v model.Vehicle) vehicleResponse {
	return vehicleResponse{
		Vehicle:  v,
		Price12h: v.DisplayRate12h(),
		Price24h: v.DisplayRate24h(),
	}
}

// GetVehicles handles GET /api/vehicles.
func (h *Handler) GetVehicles(c *gin.Context) {
	vehicles, err := h.store.ListVehicles(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	response := make([]vehicleResponse, len(vehicles))
	for i, v := range vehicles {
		response[i] = newVehicleResponse(v)
	}
	c.JSON(http.StatusOK, response)
}

// GetVehicle handles GET /api/vehicles/{vehicle_id}.
func (h *Handler) GetVehicle(c *gin.Context) {
	vehicle, err := h.store.GetVehicle(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newVehicleResponse(vehicle))
}
