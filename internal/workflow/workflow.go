package workflow

import (
	"errors"
	"time"

	"towdash/internal/models"
	"towdash/internal/utils"

	"github.com/google/uuid"
)

// ErrUnknownStatus is returned when a target label is not part of the
// status vocabulary. The payload is left untouched.
var ErrUnknownStatus = errors.New("status label not in vocabulary")

// Engine computes workflow transitions over a dashboard payload. It
// performs no I/O; the mutation service brackets it with the record
// store round trip.
type Engine struct {
	clock func() time.Time
}

func NewEngine() *Engine {
	return &Engine{clock: time.Now}
}

// NewEngineWithClock pins the clock, for tests.
func NewEngineWithClock(clock func() time.Time) *Engine {
	return &Engine{clock: clock}
}

// AdvanceToStatus moves the tow to target and recomputes the whole
// timeline around it. Stages before the target become completed and keep
// their first-reached timestamp; the target becomes active and is always
// re-stamped, even when moving backward; stages after the target reset
// to unreached.
func (e *Engine) AdvanceToStatus(p *models.DashboardPayload, target string) error {
	targetIdx := models.StatusIndex(target)
	if targetIdx < 0 {
		return ErrUnknownStatus
	}

	now := e.clock().Format(utils.ClockLayout)
	for i := range p.Route.Statuses {
		entry := &p.Route.Statuses[i]
		idx := models.StatusIndex(entry.Label)
		switch {
		case idx < targetIdx:
			entry.Status = models.StageCompleted
			if entry.Time == models.TimeUnset {
				entry.Time = now
			}
		case idx == targetIdx:
			entry.Status = models.StageActive
			entry.Time = now
		default:
			entry.Status = models.StageWaiting
			entry.Time = models.TimeUnset
		}
	}

	p.Route.Status = target
	p.Route.StatusTone = toneFor(targetIdx)
	p.NextAction = NextActionFor(target)
	return nil
}

// AdvanceToNext moves the tow exactly one stage forward from the active
// entry. It reports false, leaving the payload unchanged, when no entry
// is active or the active entry is already the terminal stage. It never
// skips stages and never moves backward.
func (e *Engine) AdvanceToNext(p *models.DashboardPayload) (bool, error) {
	activeIdx := p.ActiveStageIndex()
	if activeIdx < 0 {
		return false, nil
	}

	vocabIdx := models.StatusIndex(p.Route.Statuses[activeIdx].Label)
	if vocabIdx < 0 || vocabIdx >= len(models.StatusVocabulary)-1 {
		return false, nil
	}

	if err := e.AdvanceToStatus(p, models.StatusVocabulary[vocabIdx+1]); err != nil {
		return false, err
	}
	return true, nil
}

// AppendNote adds a note to the route, initializing the sequence when
// absent. Insertion order is chronological order.
func (e *Engine) AppendNote(p *models.DashboardPayload, text, author string) models.Note {
	note := models.Note{
		ID:        uuid.NewString(),
		Timestamp: e.clock().Format(time.RFC3339),
		Text:      text,
		Author:    author,
	}
	if p.Route.Notes == nil {
		p.Route.Notes = []models.Note{}
	}
	p.Route.Notes = append(p.Route.Notes, note)
	return note
}

// AppendPhoto records captured-photo metadata on the payload.
func (e *Engine) AppendPhoto(p *models.DashboardPayload, label, url string) models.Photo {
	photo := models.Photo{
		ID:         uuid.NewString(),
		Label:      label,
		CapturedAt: e.clock().Format(time.RFC3339),
		URL:        url,
	}
	p.Photos = append(p.Photos, photo)
	return photo
}

// MarkChecklistItem sets the complete flag on a checklist entry. The
// checklist is independent of the status timeline. Reports false when the
// id is unknown.
func MarkChecklistItem(p *models.DashboardPayload, itemID string, complete bool) bool {
	for i := range p.Checklist {
		if p.Checklist[i].ID == itemID {
			p.Checklist[i].Complete = complete
			return true
		}
	}
	return false
}

// NextActionFor maps a status label to the guidance text shown under the
// dashboard header.
func NextActionFor(status string) models.NextAction {
	switch status {
	case models.StatusWaiting:
		return models.NextAction{
			Label:  "Await dispatch",
			Detail: "Ticket is queued. Dispatch will assign a pickup window.",
		}
	case models.StatusDispatched:
		return models.NextAction{
			Label:  "Head to pickup",
			Detail: "Confirm the route and call the customer if the location is unclear.",
		}
	case models.StatusEnRoute:
		return models.NextAction{
			Label:  "Drive to scene",
			Detail: "Update ETA if traffic pushes arrival past the dispatch window.",
		}
	case models.StatusOnScene:
		return models.NextAction{
			Label:  "Run the hookup checklist",
			Detail: "Photograph condition and secure the vehicle before leaving the scene.",
		}
	case models.StatusTowing:
		return models.NextAction{
			Label:  "Transport to impound",
			Detail: "Head to the lot. Intake prep begins on arrival.",
		}
	case models.StatusCompleted:
		return models.NextAction{
			Label:  "Close out ticket",
			Detail: "File paperwork and mark the truck available for the next call.",
		}
	}
	return models.NextAction{Label: "Check dispatch", Detail: "No guidance for the current status."}
}

func toneFor(vocabIdx int) models.StatusTone {
	switch {
	case vocabIdx == len(models.StatusVocabulary)-1:
		return models.ToneCompleted
	case vocabIdx == 0:
		return models.ToneWaiting
	default:
		return models.ToneActive
	}
}
