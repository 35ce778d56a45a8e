package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Carousel operations. Every mutation runs under carouselMu so that the
// dense 0..n-1 position invariant holds between operations; reads take
// no lock and may observe any consistent snapshot.

func (s *service) AddCarouselItem(ctx context.Context, req AddCarouselItemRequest) (*CarouselItem, error) {
	s.carouselMu.Lock()
	defer s.carouselMu.Unlock()

	// Position is the current count, not max(position)+1, so a prior
	// gap cannot propagate.
	count, err := s.repository.CountCarouselItems(ctx)
	if err != nil {
		return nil, err
	}

	item := &CarouselItem{
		ID:           uuid.New(),
		ImageURL:     req.ImageURL,
		FullImageURL: req.FullImageURL,
		Alt:          req.Alt,
		Caption:      req.Caption,
		Position:     count,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repository.CreateCarouselItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *service) ListCarouselItems(ctx context.Context, req ListCarouselItemsRequest) ([]*CarouselItem, error) {
	items, err := s.repository.ListCarouselItems(ctx)
	if err != nil {
		return nil, err
	}

	// Pagination is a plain slice over the position ordering.
	if req.Offset > 0 {
		if req.Offset >= len(items) {
			return []*CarouselItem{}, nil
		}
		items = items[req.Offset:]
	}
	if req.Limit > 0 && req.Limit < len(items) {
		items = items[:req.Limit]
	}

	return items, nil
}

func (s *service) DeleteCarouselItem(ctx context.Context, id uuid.UUID) error {
	s.carouselMu.Lock()

	item, err := s.repository.GetCarouselItem(ctx, id)
	if err != nil {
		s.carouselMu.Unlock()
		return err
	}

	if err := s.repository.DeleteCarouselItem(ctx, id); err != nil {
		s.carouselMu.Unlock()
		return err
	}

	// Re-sequence survivors in their existing relative order, touching
	// only rows whose stored position no longer matches. The batch is
	// applied atomically so a failure cannot leave the ordering gapped.
	survivors, err := s.repository.ListCarouselItems(ctx)
	if err != nil {
		s.carouselMu.Unlock()
		return err
	}
	var moves []CarouselPosition
	for i, survivor := range survivors {
		if survivor.Position != i {
			moves = append(moves, CarouselPosition{ID: survivor.ID, Position: i})
		}
	}
	if len(moves) > 0 {
		if err := s.repository.UpdateCarouselItemPositions(ctx, moves); err != nil {
			s.carouselMu.Unlock()
			return err
		}
	}
	s.carouselMu.Unlock()

	s.cleanupEntityImages(ctx, item.ImageURL, item.FullImageURL)
	return nil
}

func (s *service) ReorderCarousel(ctx context.Context, order []uuid.UUID) ([]*CarouselItem, error) {
	s.carouselMu.Lock()
	defer s.carouselMu.Unlock()

	current, err := s.repository.ListCarouselItems(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateOrder(order, current); err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*CarouselItem, len(current))
	for _, item := range current {
		byID[item.ID] = item
	}

	reordered := make([]*CarouselItem, 0, len(order))
	var moves []CarouselPosition
	for position, id := range order {
		item := byID[id]
		if item.Position != position {
			moves = append(moves, CarouselPosition{ID: id, Position: position})
		}
		reordered = append(reordered, item)
	}

	// All moves land in one atomic batch; a failed reorder changes
	// nothing.
	if len(moves) > 0 {
		if err := s.repository.UpdateCarouselItemPositions(ctx, moves); err != nil {
			return nil, err
		}
		for i, item := range reordered {
			item.Position = i
		}
	}

	return reordered, nil
}

// validateOrder requires the supplied id list to be exactly the current
// id set: same length, no duplicates, no unknown or missing ids.
func validateOrder(order []uuid.UUID, current []*CarouselItem) error {
	if len(order) != len(current) {
		return fmt.Errorf("%w: got %d ids, have %d items", ErrInvalidOrder, len(order), len(current))
	}

	known := make(map[uuid.UUID]bool, len(current))
	for _, item := range current {
		known[item.ID] = true
	}

	seen := make(map[uuid.UUID]bool, len(order))
	for _, id := range order {
		if !known[id] {
			return fmt.Errorf("%w: unknown item %s", ErrInvalidOrder, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate item %s", ErrInvalidOrder, id)
		}
		seen[id] = true
	}

	return nil
}
