package models

type StageState string
type StatusTone string

const (
	StageWaiting   StageState = "waiting"
	StageActive    StageState = "active"
	StageCompleted StageState = "completed"

	ToneWaiting   StatusTone = "waiting"
	ToneActive    StatusTone = "active"
	ToneCompleted StatusTone = "completed"
)

// StatusVocabulary is the canonical ordered list of lifecycle stages a tow
// passes through. Every timeline carries exactly one entry per stage, in
// this order.
var StatusVocabulary = []string{
	StatusWaiting,
	StatusDispatched,
	StatusEnRoute,
	StatusOnScene,
	StatusTowing,
	StatusCompleted,
}

const (
	StatusWaiting    = "Waiting"
	StatusDispatched = "Dispatched"
	StatusEnRoute    = "En Route"
	StatusOnScene    = "On Scene"
	StatusTowing     = "Towing"
	StatusCompleted  = "Completed"

	// TimeUnset marks a timeline entry whose stage has not been reached.
	TimeUnset = "--"
)

// StatusIndex returns the vocabulary position of a status label, or -1
// when the label is not part of the vocabulary.
func StatusIndex(label string) int {
	for i, s := range StatusVocabulary {
		if s == label {
			return i
		}
	}
	return -1
}

// DashboardPayload is the full JSON document stored per tow. It is the
// unit of every read-modify-write cycle in the mutation service.
type DashboardPayload struct {
	Driver             DriverSnapshot  `json:"driver"`
	Dispatch           Dispatch        `json:"dispatch"`
	Route              RouteInfo       `json:"route"`
	Checklist          []ChecklistItem `json:"checklist"`
	Photos             []Photo         `json:"photos,omitempty"`
	NextAction         NextAction      `json:"nextAction"`
	ImpoundPreparation []ImpoundStep   `json:"impoundPreparation,omitempty"`
}

// DriverSnapshot is a denormalized copy of the assigned driver, not a
// foreign key. It is mutated independently per tow.
type DriverSnapshot struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	Shift         string `json:"shift"`
	Truck         string `json:"truck"`
	Status        string `json:"status"`
	ContactNumber string `json:"contactNumber,omitempty"`
}

type Dispatch struct {
	TicketID   string `json:"ticketId"`
	ETAMinutes int    `json:"etaMinutes"`
	Location   string `json:"location"`
	Vehicle    string `json:"vehicle"`
	Customer   string `json:"customer"`
}

// RouteInfo is the mutable workflow core of the payload.
type RouteInfo struct {
	Status         string        `json:"status"`
	StatusTone     StatusTone    `json:"statusTone"`
	Statuses       []StatusEntry `json:"statuses"`
	Pickup         StopPoint     `json:"pickup"`
	Destination    StopPoint     `json:"destination"`
	Notes          []Note        `json:"notes"`
	Dispatcher     string        `json:"dispatcher,omitempty"`
	HasKeys        bool          `json:"hasKeys"`
	Type           string        `json:"type,omitempty"`
	PONumber       string        `json:"poNumber,omitempty"`
	DriverCallsign string        `json:"driverCallsign,omitempty"`
	Truck          string        `json:"truck,omitempty"`
	MapURL         string        `json:"mapUrl,omitempty"`
	MapImage       string        `json:"mapImage,omitempty"`
}

// StatusEntry is one stage of the ordered timeline mirroring the
// vocabulary. Time is TimeUnset until the stage is first reached.
type StatusEntry struct {
	Label  string     `json:"label"`
	Time   string     `json:"time"`
	Status StageState `json:"status"`
}

type StopPoint struct {
	Title    string  `json:"title"`
	Address  string  `json:"address"`
	Distance string  `json:"distance,omitempty"`
	Lat      float64 `json:"lat,omitempty"`
	Lng      float64 `json:"lng,omitempty"`
}

type Note struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
	Author    string `json:"author"`
}

type ChecklistItem struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Critical bool   `json:"critical"`
	Complete bool   `json:"complete"`
}

type NextAction struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

type ImpoundStep struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Photo records captured-photo metadata. Upload handling lives outside
// this service; only the reference is stored.
type Photo struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	CapturedAt string `json:"capturedAt"`
	URL        string `json:"url,omitempty"`
}

// ActiveStageIndex returns the timeline position of the unique active
// entry, or -1 when none is active.
func (p *DashboardPayload) ActiveStageIndex() int {
	for i, entry := range p.Route.Statuses {
		if entry.Status == StageActive {
			return i
		}
	}
	return -1
}
