package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rentfleet/apiserver/internal/errs"
	"github.com/rentfleet/apiserver/internal/services"
	"github.com/rentfleet/apiserver/types"
)

const (
	createFailed    = "Car creation failed"
	createSucceeded = "Car added successfully"
)

// VehicleHandler provides the fleet endpoints.
type VehicleHandler struct {
	vehicleService *services.VehicleService
}

func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// VehicleRouter registers fleet routes on the given router.
func VehicleRouter(r chi.Router, vehicleService *services.VehicleService) {
	handler := NewVehicleHandler(vehicleService)

	r.Post("/create", handler.CreateVehicle)
}

func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req CreateVehicleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, createFailed, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, createFailed, err)
		return
	}

	created, err := h.vehicleService.Create(r.Context(), types.Vehicle{
		Category:    req.Category,
		Model:       req.Model,
		NumberPlate: req.NumberPlate,
		CurrentCity: req.CurrentCity,
		RentPerHour: req.RentPerHour,
		RentHistory: req.RentHistory,
	})
	if err != nil {
		writeError(w, r, createFailed, err)
		return
	}

	writeJSON(w, http.StatusOK, CreateVehicleResponse{
		Message:    createSucceeded,
		CarID:      created.ID,
		StatusCode: http.StatusOK,
	})
}

type CreateVehicleRequest struct {
	Category    string          `json:"category" validate:"required"`
	Model       string          `json:"model" validate:"required"`
	NumberPlate string          `json:"number_plate" validate:"required"`
	CurrentCity string          `json:"current_city" validate:"required"`
	RentPerHour float64         `json:"rent_per_hr" validate:"required,gt=0"`
	RentHistory json.RawMessage `json:"rent_history,omitempty"`
}

func (req *CreateVehicleRequest) Validate() error {
	req.Category = strings.TrimSpace(req.Category)
	req.Model = strings.TrimSpace(req.Model)
	req.NumberPlate = strings.TrimSpace(req.NumberPlate)
	req.CurrentCity = strings.TrimSpace(req.CurrentCity)

	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	missing, invalid := fieldErrors(err)
	if len(missing) > 0 {
		return errs.Validation("All fields are required", missing...)
	}
	if len(invalid) > 0 {
		return errs.Validation("rent_per_hr must be a positive number", invalid...)
	}
	return errs.Internal("create.validate", err)
}

type CreateVehicleResponse struct {
	Message    string `json:"message"`
	CarID      int64  `json:"car_id"`
	StatusCode int    `json:"status_code"`
}
