package types

import "encoding/json"

// Vehicle is a rentable car listed in the fleet.
type Vehicle struct {
	ID          int64   `json:"id" db:"id"`
	Category    string  `json:"category" db:"category"`
	Model       string  `json:"model" db:"model"`
	NumberPlate string  `json:"number_plate" db:"number_plate"`
	CurrentCity string  `json:"current_city" db:"current_city"`
	RentPerHour float64 `json:"rent_per_hr" db:"rent_per_hr"`

	// RentHistory is kept as raw JSON. Its shape is owned by the client.
	RentHistory json.RawMessage `json:"rent_history,omitempty" db:"rent_history"`
}
