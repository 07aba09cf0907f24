package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"towdash/internal/models"
	"towdash/internal/repositories/interfaces"
	"towdash/internal/utils"
	"towdash/internal/validators"
	"towdash/internal/workflow"
	"towdash/pkg/logger"
	"towdash/pkg/maps"
)

// ErrChecklistItemUnknown reports a checklist toggle against an id the
// payload does not carry.
var ErrChecklistItemUnknown = errors.New("checklist item not found")

// TowNotifier receives a tow's fresh payload after every successful
// mutation. The websocket hub implements it for live dashboard refresh.
type TowNotifier interface {
	NotifyTowUpdated(towID string, payload *models.DashboardPayload)
}

// DashboardService is the mutation service: every entry point is one
// read-modify-write cycle against the record store, bracketing exactly
// one workflow operation.
type DashboardService interface {
	CreateTow(ctx context.Context, req *validators.CreateTowRequest) (*models.TowRecord, *models.DashboardPayload, error)
	GetDashboard(ctx context.Context, towID string) (*models.DashboardPayload, error)
	ListTows(ctx context.Context) ([]models.TowSummary, error)

	AdvanceStatus(ctx context.Context, towID, target string) (*models.DashboardPayload, error)
	AdvanceNext(ctx context.Context, towID string) (*models.DashboardPayload, error)
	AddNote(ctx context.Context, towID, text, author string) (*models.Note, error)
	CapturePhoto(ctx context.Context, towID, label, url string) (*models.Photo, error)
	UpdateAddresses(ctx context.Context, towID string, req *validators.UpdateAddressesRequest) (*models.DashboardPayload, error)
	ToggleChecklist(ctx context.Context, towID, itemID string, complete bool) (*models.DashboardPayload, error)
	UpdateTow(ctx context.Context, towID string, req *validators.UpdateTowRequest) (*models.DashboardPayload, error)
}

type dashboardService struct {
	repo     interfaces.DashboardRepository
	engine   *workflow.Engine
	maps     maps.Provider
	notifier TowNotifier
	logger   *logger.Logger
}

// NewDashboardService wires the mutation service. Maps provider and
// notifier may be nil; distance falls back to haversine and updates go
// unannounced.
func NewDashboardService(
	repo interfaces.DashboardRepository,
	engine *workflow.Engine,
	mapsProvider maps.Provider,
	notifier TowNotifier,
	log *logger.Logger,
) DashboardService {
	return &dashboardService{
		repo:     repo,
		engine:   engine,
		maps:     mapsProvider,
		notifier: notifier,
		logger:   log,
	}
}

func (s *dashboardService) CreateTow(ctx context.Context, req *validators.CreateTowRequest) (*models.TowRecord, *models.DashboardPayload, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, nil, fmt.Errorf("invalid create request: %w", err)
	}

	payload := models.TemplatePayload()
	payload.Dispatch.TicketID = req.TicketID
	if payload.Dispatch.TicketID == "" {
		payload.Dispatch.TicketID = "T-" + utils.GenerateRandomNumericString(4)
	}
	payload.Dispatch.Vehicle = req.Vehicle
	payload.Dispatch.Customer = req.Customer
	payload.Dispatch.Location = req.Location

	payload.Route.Pickup.Title = "Pickup"
	payload.Route.Pickup.Address = req.Location
	if req.Pickup != nil {
		if req.Pickup.Title != "" {
			payload.Route.Pickup.Title = req.Pickup.Title
		}
		payload.Route.Pickup.Address = req.Pickup.Address
		payload.Route.Pickup.Lat = req.Pickup.Lat
		payload.Route.Pickup.Lng = req.Pickup.Lng
	}
	if payload.Route.Pickup.Lat == 0 && payload.Route.Pickup.Lng == 0 {
		// No coordinates supplied; drop the pickup somewhere plausible
		// near the yard so the route card renders.
		lat, lng := utils.JitterCoordinates(models.DefaultYardLat, models.DefaultYardLng, utils.PickupJitterRadiusKM)
		payload.Route.Pickup.Lat = lat
		payload.Route.Pickup.Lng = lng
	}
	s.stampDistance(ctx, payload)
	// An explicit ETA from dispatch wins over the distance estimate.
	if req.ETAMinutes > 0 {
		payload.Dispatch.ETAMinutes = req.ETAMinutes
	}

	// A new tow starts with the first stage active and timestamped.
	if err := s.engine.AdvanceToStatus(payload, models.StatusWaiting); err != nil {
		return nil, nil, fmt.Errorf("failed to seed timeline: %w", err)
	}

	record := &models.TowRecord{ID: utils.GenerateTowID()}
	if err := record.EncodePayload(payload); err != nil {
		return nil, nil, err
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, nil, err
	}

	s.logger.WithTowID(record.ID).Info("Tow created")
	return record, payload, nil
}

func (s *dashboardService) GetDashboard(ctx context.Context, towID string) (*models.DashboardPayload, error) {
	record, err := s.repo.GetByID(ctx, towID)
	if err != nil {
		return nil, err
	}
	return record.DecodePayload()
}

// ListTows scans the store and projects summaries, newest first. A row
// that fails to parse is logged and skipped; one corrupt payload must
// not take the whole listing down.
func (s *dashboardService) ListTows(ctx context.Context) ([]models.TowSummary, error) {
	records, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.TowSummary, 0, len(records))
	for i := range records {
		record := &records[i]
		if !models.IsTowRecord(record.ID) {
			continue
		}
		payload, err := record.DecodePayload()
		if err != nil {
			s.logger.WithTowID(record.ID).WithError(err).Warn("Skipping unreadable tow record")
			continue
		}
		summaries = append(summaries, models.TowSummary{
			ID:        record.ID,
			Status:    payload.Route.Status,
			Tone:      payload.Route.StatusTone,
			Vehicle:   payload.Dispatch.Vehicle,
			Location:  payload.Dispatch.Location,
			TicketID:  payload.Dispatch.TicketID,
			Customer:  payload.Dispatch.Customer,
			UpdatedAt: record.UpdatedAt,
		})
	}

	// Ids embed a creation timestamp, so id-descending is
	// creation-time-descending.
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID > summaries[j].ID
	})
	return summaries, nil
}

func (s *dashboardService) AdvanceStatus(ctx context.Context, towID, target string) (*models.DashboardPayload, error) {
	if models.StatusIndex(target) < 0 {
		return nil, workflow.ErrUnknownStatus
	}
	payload, err := s.mutate(ctx, towID, func(p *models.DashboardPayload) (bool, error) {
		return true, s.engine.AdvanceToStatus(p, target)
	})
	if err != nil {
		return nil, err
	}
	s.logger.LogTowEvent(towID, "status_advanced", map[string]interface{}{"status": target})
	return payload, nil
}

func (s *dashboardService) AdvanceNext(ctx context.Context, towID string) (*models.DashboardPayload, error) {
	var moved bool
	payload, err := s.mutate(ctx, towID, func(p *models.DashboardPayload) (bool, error) {
		var err error
		moved, err = s.engine.AdvanceToNext(p)
		return moved, err
	})
	if err != nil {
		return nil, err
	}
	if moved {
		s.logger.LogTowEvent(towID, "status_advanced", map[string]interface{}{"status": payload.Route.Status})
	}
	return payload, nil
}

func (s *dashboardService) AddNote(ctx context.Context, towID, text, author string) (*models.Note, error) {
	if err := utils.ValidateStruct(&validators.AddNoteRequest{Text: text, Author: author}); err != nil {
		return nil, fmt.Errorf("invalid note: %w", err)
	}
	var note models.Note
	_, err := s.mutate(ctx, towID, func(p *models.DashboardPayload) (bool, error) {
		note = s.engine.AppendNote(p, text, author)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *dashboardService) CapturePhoto(ctx context.Context, towID, label, url string) (*models.Photo, error) {
	if err := utils.ValidateStruct(&validators.CapturePhotoRequest{Label: label, URL: url}); err != nil {
		return nil, fmt.Errorf("invalid photo: %w", err)
	}
	var photo models.Photo
	_, err := s.mutate(ctx, towID, func(p *models.DashboardPayload) (bool, error) {
		photo = s.engine.AppendPhoto(p, label, url)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (s *dashboardService) UpdateAddresses(ctx context.Context, towID string, req *validators.UpdateAddressesRequest) (*models.DashboardPayload, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("invalid addresses: %w", err)
	}
	s.resolveCoordinates(ctx, req.Pickup)
	s.resolveCoordinates(ctx, req.Destination)
	return s.mutate(ctx, towID, func(p *models.DashboardPayload) (bool, error) {
		if req.Pickup != nil {
			applyAddress(&p.Route.Pickup, req.Pickup)
		}
		if req.Destination != nil {
			applyAddress(&p.Route.Destination, req.Destination)
		}
		s.stampDistance(ctx, p)
		return req.Pickup != nil || req.Destination != nil, nil
	})
}

// resolveCoordinates geocodes an address-only edit so the stop point does
// not keep the coordinates of the address it replaced. Best effort; a
// geocoding failure leaves the request as supplied.
func (s *dashboardService) resolveCoordinates(ctx context.Context, req *validators.AddressRequest) {
	if req == nil || req.Lat != 0 || req.Lng != 0 || s.maps == nil {
		return
	}
	if result, err := s.maps.Geocode(ctx, req.Address); err == nil {
		req.Lat = result.Lat
		req.Lng = result.Lng
	}
}

func (s *dashboardService) ToggleChecklist(ctx context.Context, towID, itemID string, complete bool) (*models.DashboardPayload, error) {
	return s.mutate(ctx, towID, func(p *models.DashboardPayload) (bool, error) {
		if !workflow.MarkChecklistItem(p, itemID, complete) {
			return false, ErrChecklistItemUnknown
		}
		return true, nil
	})
}

func (s *dashboardService) UpdateTow(ctx context.Context, towID string, req *validators.UpdateTowRequest) (*models.DashboardPayload, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("invalid tow update: %w", err)
	}
	return s.mutate(ctx, towID, func(p *models.DashboardPayload) (bool, error) {
		if req.TicketID != "" {
			p.Dispatch.TicketID = req.TicketID
		}
		if req.Vehicle != "" {
			p.Dispatch.Vehicle = req.Vehicle
		}
		if req.Customer != "" {
			p.Dispatch.Customer = req.Customer
		}
		if req.ETAMinutes > 0 {
			p.Dispatch.ETAMinutes = req.ETAMinutes
		}
		if req.Type != "" {
			p.Route.Type = req.Type
		}
		if req.PONumber != "" {
			p.Route.PONumber = req.PONumber
		}
		if req.HasKeys != nil {
			p.Route.HasKeys = *req.HasKeys
		}
		return true, nil
	})
}

// mutate runs one read-modify-write cycle: fetch the record, decode,
// apply exactly one workflow operation, re-encode, and persist with a
// conditional write. A lost conditional write is re-read and re-applied
// once before the conflict surfaces to the caller. The apply func
// returns false to skip the persist when nothing changed.
func (s *dashboardService) mutate(ctx context.Context, towID string, apply func(*models.DashboardPayload) (bool, error)) (*models.DashboardPayload, error) {
	var lastErr error
	for attempt := 0; attempt <= utils.ConflictRetryAttempts; attempt++ {
		record, err := s.repo.GetByID(ctx, towID)
		if err != nil {
			return nil, err
		}

		payload, err := record.DecodePayload()
		if err != nil {
			return nil, err
		}

		changed, err := apply(payload)
		if err != nil {
			return nil, err
		}
		if !changed {
			return payload, nil
		}

		if err := record.EncodePayload(payload); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, record, record.Revision); err != nil {
			if errors.Is(err, interfaces.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		if s.notifier != nil {
			s.notifier.NotifyTowUpdated(towID, payload)
		}
		return payload, nil
	}
	return nil, lastErr
}

func (s *dashboardService) stampDistance(ctx context.Context, p *models.DashboardPayload) {
	pickup, dest := &p.Route.Pickup, &p.Route.Destination
	if pickup.Lat == 0 && pickup.Lng == 0 || dest.Lat == 0 && dest.Lng == 0 {
		return
	}

	miles := 0.0
	if s.maps != nil {
		if resp, err := s.maps.Distance(ctx, pickup.Lat, pickup.Lng, dest.Lat, dest.Lng); err == nil {
			miles = resp.Miles
		}
	}
	if miles == 0 {
		miles = utils.CalculateDistanceInMiles(pickup.Lat, pickup.Lng, dest.Lat, dest.Lng)
	}
	pickup.Distance = utils.FormatMiles(miles)

	km := miles / 0.621371
	p.Dispatch.ETAMinutes = utils.EstimateETAMinutes(km, utils.AverageCitySpeedKMH)
}

func applyAddress(point *models.StopPoint, req *validators.AddressRequest) {
	if req.Title != "" {
		point.Title = req.Title
	}
	point.Address = req.Address
	if req.Lat != 0 || req.Lng != 0 {
		point.Lat = req.Lat
		point.Lng = req.Lng
	}
}
