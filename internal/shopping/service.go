// Package shopping runs list operations against the backend. Every write is
// followed by a full reload so the client never patches its copy locally.
package shopping

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"poptique_list/internal/api"
	"poptique_list/internal/listview"

	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyProduct = errors.New("Enter a product name")
	// ErrStaleRow means the row number no longer identifies the item the user
	// acted on. A reload fixes it.
	ErrStaleRow = errors.New("row changed since the list was loaded")
	// ErrReloadFailed means the write was accepted but the list could not be
	// fetched afterwards. The write must not be repeated.
	ErrReloadFailed = errors.New("saved, but the list could not be reloaded")
)

// Backend is the subset of *api.Client the service needs.
type Backend interface {
	GetProducts(ctx context.Context) ([]listview.Row, error)
	AddProduct(ctx context.Context, product, platform string) error
	UpdatePicked(ctx context.Context, rowNumber int, picked bool, product string) error
	UpdatePlatform(ctx context.Context, rowNumber int, newPlatform, product string) error
	DeleteRow(ctx context.Context, rowNumber int, product string) error
	ClearList(ctx context.Context) error
	MarkAllPicked(ctx context.Context, platform string) error
	MarkAllUnpicked(ctx context.Context, platform string) error
}

// Service keeps the last loaded snapshot. Reloads may land out of order; the
// last one to finish wins.
type Service struct {
	backend Backend

	mu     sync.Mutex
	groups []listview.Group
}

func NewService(b Backend) *Service {
	return &Service{backend: b}
}

// Groups returns the last loaded snapshot.
func (s *Service) Groups() []listview.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groups
}

// Load fetches all rows and regroups them.
func (s *Service) Load(ctx context.Context) ([]listview.Group, error) {
	rows, err := s.backend.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	groups := listview.GroupAndSort(rows)

	s.mu.Lock()
	s.groups = groups
	s.mu.Unlock()

	log.Debug().
		Int("rows", len(rows)).
		Int("groups", len(groups)).
		Msg("Loaded list")
	return groups, nil
}

// Add appends a product. The name is trimmed; an empty name fails before any
// request is made.
func (s *Service) Add(ctx context.Context, product, platform string) ([]listview.Group, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return nil, ErrEmptyProduct
	}
	return s.write(ctx, "add", func(ctx context.Context) error {
		return s.backend.AddProduct(ctx, product, platform)
	})
}

func (s *Service) SetPicked(ctx context.Context, row int, picked bool) ([]listview.Group, error) {
	item, err := s.lookup(row)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, "set picked", func(ctx context.Context) error {
		return s.backend.UpdatePicked(ctx, row, picked, item.Product)
	})
}

// TogglePicked flips the picked state the row had in the last snapshot.
func (s *Service) TogglePicked(ctx context.Context, row int) ([]listview.Group, error) {
	item, err := s.lookup(row)
	if err != nil {
		return nil, err
	}
	return s.SetPicked(ctx, row, !item.Picked)
}

func (s *Service) UpdatePlatform(ctx context.Context, row int, platform string) ([]listview.Group, error) {
	item, err := s.lookup(row)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, "update platform", func(ctx context.Context) error {
		return s.backend.UpdatePlatform(ctx, row, platform, item.Product)
	})
}

func (s *Service) DeleteRow(ctx context.Context, row int) ([]listview.Group, error) {
	item, err := s.lookup(row)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, "delete", func(ctx context.Context) error {
		return s.backend.DeleteRow(ctx, row, item.Product)
	})
}

func (s *Service) ClearList(ctx context.Context) ([]listview.Group, error) {
	return s.write(ctx, "clear", s.backend.ClearList)
}

func (s *Service) MarkAllPicked(ctx context.Context, platform string) ([]listview.Group, error) {
	return s.write(ctx, "mark all picked", func(ctx context.Context) error {
		return s.backend.MarkAllPicked(ctx, platform)
	})
}

func (s *Service) MarkAllUnpicked(ctx context.Context, platform string) ([]listview.Group, error) {
	return s.write(ctx, "mark all unpicked", func(ctx context.Context) error {
		return s.backend.MarkAllUnpicked(ctx, platform)
	})
}

// Apply runs a render-tree action that talks to the backend. Group toggles
// and swipes are view-only and rejected here.
func (s *Service) Apply(ctx context.Context, a listview.Action) ([]listview.Group, error) {
	switch a.Kind {
	case listview.ActionMarkAllPicked:
		return s.MarkAllPicked(ctx, a.Platform)
	case listview.ActionMarkAllUnpicked:
		return s.MarkAllUnpicked(ctx, a.Platform)
	case listview.ActionSetPicked:
		return s.SetPicked(ctx, a.Row, a.Picked)
	default:
		return nil, fmt.Errorf("action %s does not reach the backend", a.Kind)
	}
}

func (s *Service) lookup(row int) (listview.Item, error) {
	item, ok := listview.Find(s.Groups(), row)
	if !ok {
		log.Warn().Int("row", row).Msg("Row not in current snapshot")
		return listview.Item{}, fmt.Errorf("row %d: %w", row, ErrStaleRow)
	}
	return item, nil
}

func (s *Service) write(ctx context.Context, op string, call func(context.Context) error) ([]listview.Group, error) {
	if err := call(ctx); err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusConflict {
			return nil, fmt.Errorf("failed to %s: %w", op, ErrStaleRow)
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	log.Info().Str("op", op).Msg("Write accepted, reloading")
	groups, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return groups, nil
}
