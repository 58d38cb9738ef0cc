package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *AuditRepository {
	t.Helper()
	repo, err := NewAuditRepository(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	return repo
}

func TestAuditRepository_SaveAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	actions := []domain.AuditAction{
		domain.ActionIngestCVE,
		domain.ActionCreateAssessment,
		domain.ActionCreateReport,
	}
	for i, action := range actions {
		err := repo.Save(ctx, domain.AuditEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Action:    action,
			Target:    "target",
		})
		require.NoError(t, err)
	}

	entries, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first.
	assert.Equal(t, domain.ActionCreateReport, entries[0].Action)
	assert.Equal(t, domain.ActionIngestCVE, entries[2].Action)
}

func TestAuditRepository_ListHonorsLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, domain.AuditEntry{
			Timestamp: time.Now(),
			Action:    domain.ActionIngestCVE,
		}))
	}

	entries, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
