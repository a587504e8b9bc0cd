// Package transfer moves one child's progress in and out of the store as a
// JSON document, for backups and for moving a child between devices.
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/countup/internal/store"
)

// FormatVersion is the document version written by Export.
const FormatVersion = 1

// Document is the exported state of one child.
type Document struct {
	Version    int                            `json:"version" validate:"eq=1"`
	ExportedAt time.Time                      `json:"exported_at"`
	UserID     string                         `json:"user_id" validate:"required"`
	Age        int                            `json:"age" validate:"gte=3,lte=8"`
	Modes      []store.ModeProgress           `json:"modes" validate:"dive"`
	Mastery    []store.MasteryState           `json:"mastery" validate:"dive"`
	History    []store.GraduationHistoryEntry `json:"history" validate:"dive"`
}

// Export reads everything stored for a child. The four reads run
// concurrently and the first failure cancels the rest.
func Export(ctx context.Context, s store.ProgressStore, userID string, now time.Time) (*Document, error) {
	doc := &Document{Version: FormatVersion, ExportedAt: now.UTC(), UserID: userID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		age, err := s.GetUserAge(gctx, userID)
		if err != nil {
			return fmt.Errorf("age: %w", err)
		}
		doc.Age = age
		return nil
	})
	g.Go(func() error {
		recs, err := s.ListModeProgress(gctx, userID)
		if err != nil {
			return fmt.Errorf("mode progress: %w", err)
		}
		doc.Modes = recs
		return nil
	})
	g.Go(func() error {
		states, err := s.ListMasteryStates(gctx, userID)
		if err != nil {
			return fmt.Errorf("mastery states: %w", err)
		}
		doc.Mastery = states
		return nil
	})
	g.Go(func() error {
		hist, err := s.ListGraduationHistory(gctx, userID)
		if err != nil {
			return fmt.Errorf("graduation history: %w", err)
		}
		doc.History = hist
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("export %s: no such user: %w", userID, err)
		}
		return nil, fmt.Errorf("export %s: %w", userID, err)
	}

	if doc.Modes == nil {
		doc.Modes = []store.ModeProgress{}
	}
	if doc.Mastery == nil {
		doc.Mastery = []store.MasteryState{}
	}
	if doc.History == nil {
		doc.History = []store.GraduationHistoryEntry{}
	}
	return doc, nil
}

// Encode writes the document as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
