package models

// ModifierSelection is one catalog pick in a create-event request.
type ModifierSelection struct {
	CatalogKey string `json:"catalog_key" binding:"required"`
	Value      string `json:"value"`
}

// CreateEventRequest represents a request to create a new event
type CreateEventRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Selections  []ModifierSelection `json:"selections" binding:"required"`
	ZoneX1      *int                `json:"zone_x1"`
	ZoneX2      *int                `json:"zone_x2"`
	ZoneY1      *int                `json:"zone_y1"`
	ZoneY2      *int                `json:"zone_y2"`
	ZoneZ       *int                `json:"zone_z"`
	ZoneName    string              `json:"zone_name"`
}

// ContributeRequest represents a contribution towards a pending event
type ContributeRequest struct {
	Amount int `json:"amount" binding:"required,gt=0"`
}

// EventSummary is the list-view shape served to presentation layers.
type EventSummary struct {
	Event             *Event  `json:"event"`
	FundingPercentage float64 `json:"funding_percentage"`
	RemainingAmount   int     `json:"remaining_amount"`
}
