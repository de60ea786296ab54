package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service is the hospital registry. It holds at most one current facility and
// the doctors attached to it, keyed by DNI. All operations are serialized.
type Service struct {
	mu         sync.Mutex
	store      PractitionerStore
	current    *Facility
	facilities map[uuid.UUID]Facility
	logger     zerolog.Logger
	metrics    *Metrics
	now        func() time.Time
}

// NewService creates a registry over store. metrics may be nil.
func NewService(store PractitionerStore, logger zerolog.Logger, metrics *Metrics) *Service {
	return &Service{
		store:      store,
		facilities: make(map[uuid.UUID]Facility),
		logger:     logger.With().Str("component", "registry").Logger(),
		metrics:    metrics,
		now:        time.Now,
	}
}

// -- Facility --

// SetFacility replaces the current hospital. Doctors added earlier keep the
// hospital they were registered under.
func (s *Service) SetFacility(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		s.metrics.observeFacilitySet(ErrFacilityNameRequired)
		s.logger.Warn().Str("reason", resultLabel(ErrFacilityNameRequired)).Msg("facility rejected")
		return "", ErrFacilityNameRequired
	}

	f := Facility{ID: uuid.New(), Name: name, CreatedAt: s.now()}
	s.facilities[f.ID] = f
	s.current = &f

	s.metrics.observeFacilitySet(nil)
	s.logger.Info().Str("facility_id", f.ID.String()).Str("name", f.Name).Msg("facility set")
	return fmt.Sprintf("hospital %q set successfully", f.Name), nil
}

func (s *Service) CurrentFacility(_ context.Context) (Facility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Facility{}, ErrFacilityNotSet
	}
	return *s.current, nil
}

// GetFacility resolves a facility handle, including hospitals that have since
// been replaced.
func (s *Service) GetFacility(_ context.Context, id uuid.UUID) (Facility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.facilities[id]
	if !ok {
		return Facility{}, ErrFacilityNotFound
	}
	return f, nil
}

// -- Practitioner --

// AddPractitioner registers a doctor under the current hospital. Checks run in
// a fixed order and the first failing one is reported.
func (s *Service) AddPractitioner(ctx context.Context, id, name, specialty string) (msg string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		s.metrics.observePractitionerAdd(err, s.store.Len(ctx))
	}()

	if err := s.validatePractitioner(ctx, id, name, specialty); err != nil {
		s.logger.Warn().Str("dni", id).Str("reason", resultLabel(err)).Msg("practitioner rejected")
		return "", err
	}

	p := Practitioner{
		ID:        id,
		Name:      name,
		Specialty: specialty,
		Facility:  *s.current,
		CreatedAt: s.now(),
	}
	if err := s.insert(ctx, p); err != nil {
		if errors.Is(err, ErrUnexpected) {
			s.logger.Error().Err(err).Str("dni", id).Msg("failed to save practitioner")
		}
		return "", err
	}

	s.logger.Info().
		Str("dni", p.ID).
		Str("facility_id", p.Facility.ID.String()).
		Msg("practitioner added")
	return "doctor added successfully", nil
}

func (s *Service) validatePractitioner(ctx context.Context, id, name, specialty string) error {
	if s.current == nil {
		return ErrFacilityNotSet
	}
	if strings.TrimSpace(id) == "" || strings.TrimSpace(name) == "" || strings.TrimSpace(specialty) == "" {
		return ErrFieldsRequired
	}
	if !isDigits(id) {
		return ErrIDNotNumeric
	}
	_, err := s.store.Get(ctx, id)
	switch {
	case err == nil:
		return ErrDuplicateID
	case errors.Is(err, ErrPractitionerNotFound):
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
}

// insert stores p, converting store failures and panics into ErrUnexpected.
func (s *Service) insert(ctx context.Context, p Practitioner) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
	}()

	if err := s.store.Insert(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			return ErrDuplicateID
		}
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	return nil
}

// FindByID looks up a doctor by DNI. Blank input is never searched.
func (s *Service) FindByID(ctx context.Context, id string) (Practitioner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id = strings.TrimSpace(id)
	if id == "" {
		s.metrics.observeLookup(false)
		return Practitioner{}, ErrPractitionerNotFound
	}

	p, err := s.store.Get(ctx, id)
	s.metrics.observeLookup(err == nil)
	if err != nil {
		if !errors.Is(err, ErrPractitionerNotFound) {
			s.logger.Error().Err(err).Str("dni", id).Msg("practitioner lookup failed")
		}
		return Practitioner{}, ErrPractitionerNotFound
	}
	return p, nil
}

// ListPractitioners returns one page of doctors ordered by DNI, plus the total.
func (s *Service) ListPractitioners(ctx context.Context, limit, offset int) ([]Practitioner, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list practitioners: %w", err)
	}

	total := len(all)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []Practitioner{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (s *Service) Count(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len(ctx)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
