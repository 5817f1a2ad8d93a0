// Package pantry stores what is currently in the fridge.
package pantry

import "time"

// Item is an ingredient on hand
type Item struct {
	Name      string    `json:"ingredient_name"` // display form as first entered
	Quantity  int       `json:"quantity"`
	AddedDate time.Time `json:"added_date"`
}
