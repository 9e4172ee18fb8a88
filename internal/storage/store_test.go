package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPreferenceKeys(t *testing.T) {
	assert.Equal(t, "instances-sortBy", SortByKey("instances"))
	assert.Equal(t, "instances-landingPageView", ViewModeKey("instances"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "volumes-sortBy", "name"))
	v, ok, err := s.Get(ctx, "volumes-sortBy")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "name", v)
	assert.NoError(t, s.Close())
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")

	s, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "buckets-landingPageView")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "buckets-landingPageView", "gridview"))
	require.NoError(t, s.Set(ctx, "buckets-landingPageView", "tableview"))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "buckets-landingPageView")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tableview", v)
}
