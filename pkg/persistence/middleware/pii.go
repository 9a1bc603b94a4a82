package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/ports"
)

// Mask replaces labels matching a mask pattern.
const Mask = "***"

type labelMaskMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewLabelMaskMiddleware creates a middleware that masks series labels and
// category labels matching any of the patterns before they are persisted.
// Values and visibility are kept, so stored fingerprints stay comparable.
func NewLabelMaskMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &labelMaskMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *labelMaskMiddleware) Save(ctx context.Context, chartID string, snap domain.Snapshot) error {
	// Decode works on its own copy; the caller's snapshot is never touched.
	doc, err := snap.Decode()
	if err != nil {
		return err
	}
	for i := range doc.Datasets {
		doc.Datasets[i].Label = m.mask(doc.Datasets[i].Label)
	}
	for i := range doc.Labels {
		doc.Labels[i] = m.mask(doc.Labels[i])
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize masked snapshot: %w", err)
	}
	return m.next.Save(ctx, chartID, domain.SnapshotFromBytes(raw))
}

func (m *labelMaskMiddleware) Load(ctx context.Context, chartID string) (domain.Snapshot, error) {
	return m.next.Load(ctx, chartID)
}

func (m *labelMaskMiddleware) Delete(ctx context.Context, chartID string) error {
	return m.next.Delete(ctx, chartID)
}

func (m *labelMaskMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *labelMaskMiddleware) mask(label string) string {
	for _, p := range m.patterns {
		if p.MatchString(label) {
			return Mask
		}
	}
	return label
}
