package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/seed"
	"github.com/eldtechnologies/inboxdesk/internal/store"
)

func TestLoadEnginesBuiltIn(t *testing.T) {
	engines, err := loadEngines(context.Background(), nil, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, engines, 2)
	assert.Equal(t, inbox.VariantClassic, engines[0].Variant())
	assert.Equal(t, inbox.VariantLabeled, engines[1].Variant())
	assert.Equal(t, len(seed.Labeled().Messages), engines[1].Store().Len())
}

func TestLoadEnginesWritesEmptySQLite(t *testing.T) {
	ctx := context.Background()
	src, err := store.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "inbox.db"))
	require.NoError(t, err)
	defer src.Close()

	_, err = loadEngines(ctx, src, zerolog.Nop())
	require.NoError(t, err)

	for _, v := range inbox.Variants {
		ds, err := src.LoadDataset(ctx, v)
		require.NoError(t, err)
		require.NotNil(t, ds, v)
		assert.Equal(t, seed.For(v).Conversations, ds.Conversations)
	}

	// Rows in the file win over the built-in dataset.
	edited := seed.Classic()
	edited.Messages = edited.Messages[:2]
	require.NoError(t, src.SaveDataset(ctx, inbox.VariantClassic, edited))

	engines, err := loadEngines(ctx, src, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, engines[0].Store().Len())
}
