package validators

// Request payloads for the tow dashboard surface. Validation tags are
// enforced through utils.ValidateStruct before any write happens.

type CreateTowRequest struct {
	TicketID   string          `json:"ticket_id" validate:"omitempty,max=32"`
	Vehicle    string          `json:"vehicle" validate:"required,min=2,max=120"`
	Customer   string          `json:"customer" validate:"omitempty,max=120"`
	Location   string          `json:"location" validate:"required,min=3,max=255"`
	ETAMinutes int             `json:"eta_minutes" validate:"omitempty,min=1,max=240"`
	Pickup     *AddressRequest `json:"pickup" validate:"omitempty"`
}

type AddressRequest struct {
	Title   string  `json:"title" validate:"omitempty,max=60"`
	Address string  `json:"address" validate:"required,min=3,max=255"`
	Lat     float64 `json:"lat" validate:"omitempty,latitude"`
	Lng     float64 `json:"lng" validate:"omitempty,longitude"`
}

// StatusUpdateRequest carries either an explicit target label or the
// implicit advance-one-step signal, never both.
type StatusUpdateRequest struct {
	Status  string `json:"status" validate:"omitempty,status_label"`
	Advance bool   `json:"advance"`
}

type AddNoteRequest struct {
	Text   string `json:"text" validate:"required,min=1,max=1000"`
	Author string `json:"author" validate:"required,min=1,max=80"`
}

type CapturePhotoRequest struct {
	Label string `json:"label" validate:"required,min=1,max=120"`
	URL   string `json:"url" validate:"omitempty,url,max=500"`
}

type UpdateAddressesRequest struct {
	Pickup      *AddressRequest `json:"pickup" validate:"omitempty"`
	Destination *AddressRequest `json:"destination" validate:"omitempty"`
}

type ChecklistUpdateRequest struct {
	Complete bool `json:"complete"`
}

type UpdateTowRequest struct {
	TicketID   string `json:"ticket_id" validate:"omitempty,max=32"`
	Vehicle    string `json:"vehicle" validate:"omitempty,min=2,max=120"`
	Customer   string `json:"customer" validate:"omitempty,max=120"`
	ETAMinutes int    `json:"eta_minutes" validate:"omitempty,min=1,max=240"`
	Type       string `json:"type" validate:"omitempty,max=60"`
	PONumber   string `json:"po_number" validate:"omitempty,max=40"`
	HasKeys    *bool  `json:"has_keys"`
}
