package models

// TemplatePayload returns the seed document a freshly created tow starts
// from. The caller overwrites pickup/destination and dispatch fields from
// form input; the timeline starts with every stage unreached.
func TemplatePayload() *DashboardPayload {
	return &DashboardPayload{
		Driver: DriverSnapshot{
			ID:            "drv-204",
			Name:          "Marcus Webb",
			Role:          "Tow Operator",
			Shift:         "Day (6a - 6p)",
			Truck:         "Unit 12 - Flatbed",
			Status:        "On Duty",
			ContactNumber: "(206) 555-0144",
		},
		Dispatch: Dispatch{
			TicketID:   "",
			ETAMinutes: 20,
			Location:   "",
			Vehicle:    "",
			Customer:   "",
		},
		Route: RouteInfo{
			Status:     StatusWaiting,
			StatusTone: ToneWaiting,
			Statuses:   FreshTimeline(),
			Pickup: StopPoint{
				Title: "Pickup",
			},
			Destination: StopPoint{
				Title:   "Impound Lot",
				Address: "4410 Airport Way S, Seattle, WA",
				Lat:     DefaultYardLat,
				Lng:     DefaultYardLng,
			},
			Notes:      []Note{},
			Dispatcher: "Dispatch Central",
			HasKeys:    false,
			Type:       "Standard Tow",
		},
		Checklist: []ChecklistItem{
			{ID: "chk-condition", Label: "Photograph vehicle condition", Critical: true},
			{ID: "chk-keys", Label: "Confirm key possession", Critical: true},
			{ID: "chk-secure", Label: "Secure vehicle to bed", Critical: true},
			{ID: "chk-plate", Label: "Record plate and VIN", Critical: false},
			{ID: "chk-belongings", Label: "Note visible belongings", Critical: false},
		},
		NextAction: NextAction{
			Label:  "Await dispatch",
			Detail: "Ticket is queued. Dispatch will assign a pickup window.",
		},
		ImpoundPreparation: []ImpoundStep{
			{Title: "Intake photos", Detail: "Four corners plus interior through glass."},
			{Title: "Lot slot", Detail: "Check the board for the next open row."},
			{Title: "Paperwork", Detail: "Ticket, condition report, and key tag to the office."},
		},
	}
}

// FreshTimeline returns the full vocabulary with every stage unreached.
func FreshTimeline() []StatusEntry {
	entries := make([]StatusEntry, len(StatusVocabulary))
	for i, label := range StatusVocabulary {
		entries[i] = StatusEntry{
			Label:  label,
			Time:   TimeUnset,
			Status: StageWaiting,
		}
	}
	return entries
}

// FallbackDashboard is the static document the client substitutes when
// the bootstrap fetch fails or times out. Same shape as a real payload so
// the shell renders without special cases.
func FallbackDashboard() *DashboardPayload {
	payload := TemplatePayload()
	payload.Dispatch.TicketID = "T-4821"
	payload.Dispatch.Location = "Aurora Ave N & N 85th St"
	payload.Dispatch.Vehicle = "2014 Honda Civic - Gray"
	payload.Dispatch.Customer = "City Parking Enforcement"
	payload.Route.Pickup.Address = "8501 Aurora Ave N, Seattle, WA"
	payload.Route.Pickup.Lat = 47.6907
	payload.Route.Pickup.Lng = -122.3440
	payload.Route.Pickup.Distance = "6.2 mi"
	return payload
}

// Default impound yard, used to center randomly generated pickup
// coordinates when a create request carries none.
const (
	DefaultYardLat = 47.5632
	DefaultYardLng = -122.3231
)
