package models

type Settings struct {
	OwnerID  string `json:"owner_id"`
	Timezone string `json:"timezone"`
	DayStart string `json:"day_start"` // HH:MM format
	DayEnd   string `json:"day_end"`   // HH:MM format
}
