package service

import (
	"time"

	"github.com/flexprice/entitlement-engine/internal/domain/catalog"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/flexprice/entitlement-engine/internal/types"
	"github.com/samber/lo"
)

// EventService schedules promotional events
type EventService interface {
	// GetEventOnEffectiveDate returns the event running on date. When several
	// tracks run at once the earliest start wins, then the smallest id.
	GetEventOnEffectiveDate(date types.Date) (*catalog.Event, bool)
	// GetEventAt resolves the event for the calendar day the instant falls on
	// in the catalog timezone
	GetEventAt(instant time.Time) (*catalog.Event, bool, error)
	// GetEventsInRange returns the events running on any day of [from, to)
	GetEventsInRange(from, to types.Date) ([]*catalog.Event, error)
}

type eventService struct {
	ServiceParams
}

func NewEventService(params ServiceParams) EventService {
	return &eventService{
		ServiceParams: params,
	}
}

func (s *eventService) GetEventOnEffectiveDate(date types.Date) (*catalog.Event, bool) {
	if date.IsZero() {
		return nil, false
	}
	return lo.Find(s.Store.Load().EventsByStart(), func(e *catalog.Event) bool {
		return e.Contains(date)
	})
}

func (s *eventService) GetEventAt(instant time.Time) (*catalog.Event, bool, error) {
	loc, err := types.LoadTimezone(s.Config.Catalog.Timezone)
	if err != nil {
		return nil, false, ierr.WithError(err).
			WithHint("Catalog timezone is not configured correctly").
			Mark(ierr.ErrConfiguration)
	}
	event, ok := s.GetEventOnEffectiveDate(types.DateIn(instant, loc))
	return event, ok, nil
}

func (s *eventService) GetEventsInRange(from, to types.Date) ([]*catalog.Event, error) {
	if from.IsZero() || to.IsZero() || !to.After(from) {
		return nil, ierr.NewErrorf("invalid date range [%s, %s)", from, to).
			WithHint("The end of the range must be after its start").
			WithReportableDetails(map[string]any{
				"from": from.String(),
				"to":   to.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	window := &catalog.Event{StartDate: from, EndDate: to}
	return lo.Filter(s.Store.Load().EventsByStart(), func(e *catalog.Event, _ int) bool {
		return e.Overlaps(window)
	}), nil
}
