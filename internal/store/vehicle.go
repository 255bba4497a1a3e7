package store

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/rentfleet/apiserver/internal/db"
	"github.com/rentfleet/apiserver/internal/errs"
	"github.com/rentfleet/apiserver/types"
)

// nullHistory is stored when the client sends no rent history.
const nullHistory = "null"

// VehicleRepository handles persistence for rentable cars.
type VehicleRepository struct {
	gw *db.Gateway
}

func NewVehicleRepository(gw *db.Gateway) *VehicleRepository {
	return &VehicleRepository{gw: gw}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle types.Vehicle) (types.Vehicle, error) {
	history, err := SerializeRentHistory(vehicle.RentHistory)
	if err != nil {
		return types.Vehicle{}, err
	}

	const query = `
		INSERT INTO cars (category, model, number_plate, current_city, rent_per_hr, rent_history)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	res, err := r.gw.Insert(
		ctx,
		query,
		vehicle.Category,
		vehicle.Model,
		vehicle.NumberPlate,
		vehicle.CurrentCity,
		vehicle.RentPerHour,
		history,
	)
	if err != nil {
		return types.Vehicle{}, err
	}

	vehicle.ID = res.InsertID
	vehicle.RentHistory = json.RawMessage(history)
	return vehicle, nil
}

// SerializeRentHistory renders raw as compact JSON text. Absent input yields "null".
func SerializeRentHistory(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nullHistory, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "", errs.Validation("rent_history must be valid JSON", "rent_history")
	}
	return buf.String(), nil
}
