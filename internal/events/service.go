package events

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"nexusems/pkg/cache"
	"nexusems/pkg/logger"

	"github.com/google/uuid"
)

// Service defines the contract for event business operations
type Service interface {
	CreateEvent(ctx context.Context, organizerID uuid.UUID, req *CreateEventRequest) (*EventResponse, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	GetEventByRef(ctx context.Context, ref string) (*Event, error)
	ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	AttachAsset(ctx context.Context, eventID uuid.UUID, filename, contentType string, data []byte) (*EventAsset, error)
	GetAsset(ctx context.Context, eventID, assetID uuid.UUID) (*EventAsset, error)
}

type service struct {
	repo     Repository
	cache    cache.Service
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewService creates a new event service
func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration) Service {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &service{
		repo:     repo,
		cache:    cacheService,
		cacheTTL: cacheTTL,
		log:      logger.GetDefault(),
	}
}

func eventCacheKey(id uuid.UUID) string {
	return "events:detail:" + id.String()
}

// CreateEvent validates the time window and ticket types, then stores the event
func (s *service) CreateEvent(ctx context.Context, organizerID uuid.UUID, req *CreateEventRequest) (*EventResponse, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("event end time must be after start time")
	}

	types := make([]TicketType, 0, len(req.TicketTypes))
	for i, tt := range req.TicketTypes {
		if tt.Price.IsNegative() {
			return nil, fmt.Errorf("ticket type %q: price must not be negative", tt.Name)
		}
		types = append(types, TicketType{
			Name:      tt.Name,
			Price:     tt.Price,
			Color:     tt.Color,
			SortOrder: i,
		})
	}

	event := &Event{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		OrganizerID: organizerID,
		TicketTypes: types,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.log.Info("event created",
		slog.String("event_id", event.ID.String()),
		slog.String("ref", event.Ref),
		slog.String("organizer_id", organizerID.String()),
	)

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	var resp EventResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, eventCacheKey(id), &resp); err == nil {
			return &resp, nil
		}
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp = event.ToResponse()
	if s.cache != nil {
		if err := s.cache.Set(ctx, eventCacheKey(id), resp, s.cacheTTL); err != nil {
			s.log.Debug("event cache set failed", slog.Any("error", err))
		}
	}
	return &resp, nil
}

func (s *service) GetEventByRef(ctx context.Context, ref string) (*Event, error) {
	return s.repo.GetByRef(ctx, ref)
}

func (s *service) ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	events, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}

	return &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(limit))),
	}, nil
}

func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, eventCacheKey(id)); err != nil {
			s.log.Debug("event cache invalidation failed", slog.Any("error", err))
		}
	}
	return nil
}

func (s *service) AttachAsset(ctx context.Context, eventID uuid.UUID, filename, contentType string, data []byte) (*EventAsset, error) {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	asset := &EventAsset{
		EventID:     eventID,
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}
	if err := s.repo.AddAsset(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *service) GetAsset(ctx context.Context, eventID, assetID uuid.UUID) (*EventAsset, error) {
	return s.repo.GetAsset(ctx, eventID, assetID)
}
