package domain

import "time"

// Vertical classifies a catalog service by security function.
type Vertical string

const (
	VerticalIdentify Vertical = "Identify"
	VerticalProtect  Vertical = "Protect"
	VerticalDetect   Vertical = "Detect"
	VerticalRespond  Vertical = "Respond"
	VerticalRecover  Vertical = "Recover"
	VerticalGovern   Vertical = "Govern"
)

// Verticals lists every vertical in catalog order.
var Verticals = []Vertical{
	VerticalIdentify,
	VerticalProtect,
	VerticalDetect,
	VerticalRespond,
	VerticalRecover,
	VerticalGovern,
}

// Valid reports whether v is one of the fixed verticals.
func (v Vertical) Valid() bool {
	for _, known := range Verticals {
		if v == known {
			return true
		}
	}
	return false
}

// Service is a global catalog offering. Services are append-only.
type Service struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Vertical    Vertical  `json:"vertical"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
