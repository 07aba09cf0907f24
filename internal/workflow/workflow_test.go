package workflow

import (
	"testing"
	"time"

	"towdash/internal/models"

	"github.com/stretchr/testify/assert"
)

func fixedClock(hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 12, hour, minute, 0, 0, time.UTC)
	}
}

func freshPayload() *models.DashboardPayload {
	return models.TemplatePayload()
}

// assertTimelineInvariant checks the single invariant every transition
// must preserve: exactly one active entry matching route.status, all
// earlier stages completed, all later stages waiting and unstamped.
func assertTimelineInvariant(t *testing.T, p *models.DashboardPayload) {
	t.Helper()

	activeCount := 0
	activeIdx := -1
	for i, entry := range p.Route.Statuses {
		if entry.Status == models.StageActive {
			activeCount++
			activeIdx = i
		}
	}
	assert.Equal(t, 1, activeCount, "exactly one active entry")
	assert.Equal(t, p.Route.Status, p.Route.Statuses[activeIdx].Label)

	for i, entry := range p.Route.Statuses {
		switch {
		case i < activeIdx:
			assert.Equal(t, models.StageCompleted, entry.Status, "entry %d", i)
			assert.NotEqual(t, models.TimeUnset, entry.Time, "entry %d should be stamped", i)
		case i > activeIdx:
			assert.Equal(t, models.StageWaiting, entry.Status, "entry %d", i)
			assert.Equal(t, models.TimeUnset, entry.Time, "entry %d should be unstamped", i)
		}
	}
}

func TestAdvanceToStatus(t *testing.T) {
	t.Run("Unknown Label Rejected", func(t *testing.T) {
		engine := NewEngine()
		p := freshPayload()
		before := p.Route.Status

		err := engine.AdvanceToStatus(p, "Teleporting")
		assert.ErrorIs(t, err, ErrUnknownStatus)
		assert.Equal(t, before, p.Route.Status, "payload untouched on rejection")
	})

	t.Run("Forward Jump Stamps Skipped Stages", func(t *testing.T) {
		engine := NewEngineWithClock(fixedClock(14, 30))
		p := freshPayload()

		err := engine.AdvanceToStatus(p, models.StatusOnScene)
		assert.NoError(t, err)
		assert.Equal(t, models.StatusOnScene, p.Route.Status)
		assertTimelineInvariant(t, p)

		for _, entry := range p.Route.Statuses[:3] {
			assert.Equal(t, models.StageCompleted, entry.Status)
			assert.Equal(t, "2:30 PM", entry.Time)
		}
		assert.Equal(t, models.StageActive, p.Route.Statuses[3].Status)
		assert.Equal(t, "2:30 PM", p.Route.Statuses[3].Time)
	})

	t.Run("First Reached Timestamps Preserved", func(t *testing.T) {
		engine := NewEngineWithClock(fixedClock(9, 5))
		p := freshPayload()

		assert.NoError(t, engine.AdvanceToStatus(p, models.StatusOnScene))

		// Second call through a later clock: completed stages keep their
		// original stamps, the active stage is re-stamped.
		later := NewEngineWithClock(fixedClock(10, 45))
		assert.NoError(t, later.AdvanceToStatus(p, models.StatusOnScene))

		for _, entry := range p.Route.Statuses[:3] {
			assert.Equal(t, "9:05 AM", entry.Time)
		}
		assert.Equal(t, "10:45 AM", p.Route.Statuses[3].Time)
		assertTimelineInvariant(t, p)
	})

	t.Run("Backward Move Reactivates And Restamps", func(t *testing.T) {
		engine := NewEngineWithClock(fixedClock(9, 0))
		p := freshPayload()
		assert.NoError(t, engine.AdvanceToStatus(p, models.StatusTowing))

		back := NewEngineWithClock(fixedClock(9, 20))
		assert.NoError(t, back.AdvanceToStatus(p, models.StatusEnRoute))

		assert.Equal(t, models.StatusEnRoute, p.Route.Status)
		assertTimelineInvariant(t, p)
		assert.Equal(t, "9:20 AM", p.Route.Statuses[2].Time, "reactivated stage re-stamped")
		assert.Equal(t, models.TimeUnset, p.Route.Statuses[3].Time, "later stages reset")
		assert.Equal(t, models.TimeUnset, p.Route.Statuses[4].Time)
	})

	t.Run("Status Tone Tracks Position", func(t *testing.T) {
		engine := NewEngine()
		p := freshPayload()

		assert.NoError(t, engine.AdvanceToStatus(p, models.StatusWaiting))
		assert.Equal(t, models.ToneWaiting, p.Route.StatusTone)

		assert.NoError(t, engine.AdvanceToStatus(p, models.StatusTowing))
		assert.Equal(t, models.ToneActive, p.Route.StatusTone)

		assert.NoError(t, engine.AdvanceToStatus(p, models.StatusCompleted))
		assert.Equal(t, models.ToneCompleted, p.Route.StatusTone)
	})

	t.Run("Next Action Follows Status", func(t *testing.T) {
		engine := NewEngine()
		p := freshPayload()

		assert.NoError(t, engine.AdvanceToStatus(p, models.StatusOnScene))
		assert.Equal(t, "Run the hookup checklist", p.NextAction.Label)
	})
}

func TestAdvanceToNext(t *testing.T) {
	t.Run("Waiting To Dispatched", func(t *testing.T) {
		engine := NewEngineWithClock(fixedClock(8, 15))
		p := freshPayload()
		assert.NoError(t, engine.AdvanceToStatus(p, models.StatusWaiting))

		moved, err := engine.AdvanceToNext(p)
		assert.NoError(t, err)
		assert.True(t, moved)

		assert.Equal(t, models.StatusDispatched, p.Route.Status)
		assert.Equal(t, models.StageCompleted, p.Route.Statuses[0].Status)
		assert.Equal(t, "8:15 AM", p.Route.Statuses[0].Time)
		assert.Equal(t, models.StageActive, p.Route.Statuses[1].Status)
		assert.Equal(t, "8:15 AM", p.Route.Statuses[1].Time)
		for _, entry := range p.Route.Statuses[2:] {
			assert.Equal(t, models.StageWaiting, entry.Status)
			assert.Equal(t, models.TimeUnset, entry.Time)
		}
	})

	t.Run("Walk Full Lifecycle", func(t *testing.T) {
		engine := NewEngine()
		p := freshPayload()
		assert.NoError(t, engine.AdvanceToStatus(p, models.StatusWaiting))

		for i := 1; i < len(models.StatusVocabulary); i++ {
			moved, err := engine.AdvanceToNext(p)
			assert.NoError(t, err)
			assert.True(t, moved)
			assert.Equal(t, models.StatusVocabulary[i], p.Route.Status)
			assertTimelineInvariant(t, p)
		}
	})

	t.Run("Terminal Stage Is A NoOp", func(t *testing.T) {
		engine := NewEngine()
		p := freshPayload()
		assert.NoError(t, engine.AdvanceToStatus(p, models.StatusCompleted))

		before := *p
		moved, err := engine.AdvanceToNext(p)
		assert.NoError(t, err)
		assert.False(t, moved)
		assert.Equal(t, before.Route.Status, p.Route.Status)
		assert.Equal(t, before.Route.Statuses, p.Route.Statuses)
	})

	t.Run("No Active Entry Is A NoOp", func(t *testing.T) {
		engine := NewEngine()
		p := freshPayload()
		// Fresh timeline with nothing active yet.
		moved, err := engine.AdvanceToNext(p)
		assert.NoError(t, err)
		assert.False(t, moved)
	})
}

func TestMarkChecklistItem(t *testing.T) {
	t.Run("Toggles Named Item Only", func(t *testing.T) {
		p := freshPayload()

		ok := MarkChecklistItem(p, "chk-keys", true)
		assert.True(t, ok)
		for _, item := range p.Checklist {
			assert.Equal(t, item.ID == "chk-keys", item.Complete)
		}
	})

	t.Run("Unknown Id Is A NoOp", func(t *testing.T) {
		p := freshPayload()
		ok := MarkChecklistItem(p, "chk-missing", true)
		assert.False(t, ok)
	})

	t.Run("Never Touches The Timeline", func(t *testing.T) {
		engine := NewEngine()
		p := freshPayload()
		assert.NoError(t, engine.AdvanceToStatus(p, models.StatusEnRoute))

		statusBefore := p.Route.Status
		timelineBefore := make([]models.StatusEntry, len(p.Route.Statuses))
		copy(timelineBefore, p.Route.Statuses)

		MarkChecklistItem(p, "chk-secure", true)

		assert.Equal(t, statusBefore, p.Route.Status)
		assert.Equal(t, timelineBefore, p.Route.Statuses)
	})
}

func TestAppendNote(t *testing.T) {
	t.Run("Appends In Chronological Order", func(t *testing.T) {
		engine := NewEngineWithClock(fixedClock(11, 0))
		p := freshPayload()
		p.Route.Notes = nil

		first := engine.AppendNote(p, "Vehicle blocking hydrant", "M. Webb")
		second := engine.AppendNote(p, "Owner on scene, keys handed over", "M. Webb")

		assert.Len(t, p.Route.Notes, 2)
		assert.Equal(t, first.ID, p.Route.Notes[0].ID)
		assert.Equal(t, second.ID, p.Route.Notes[1].ID)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, "2025-06-12T11:00:00Z", first.Timestamp)
	})
}
