package store_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/config"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/store"
)

func sampleDoc() *document.Document {
	return &document.Document{
		Metadata: document.Metadata{GeneratedTitle: "Cloud 101"},
		Pages: []document.Page{
			{Index: 1, Template: document.TagCover, Content: document.Content{Title: "Cloud 101"}},
			{Index: 2, Template: document.TagPricingTable, Locked: true, Content: document.Content{Items: []document.Item{
				{Title: "Pro", Pricing: &document.Pricing{Price: "$10", Features: []string{"A", "B"}}},
			}}},
		},
	}
}

func backends(t *testing.T) map[string]store.Backend {
	t.Helper()
	file, err := store.NewFile(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rds, err := store.NewRedis(store.RedisConfig{Addr: mr.Addr(), Prefix: "deckforge:"})
	require.NoError(t, err)

	return map[string]store.Backend{"file": file, "redis": rds}
}

func TestDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := store.New(b)
			t.Cleanup(func() { _ = s.Close() })
			ctx := context.Background()

			_, err := s.LoadDocument(ctx)
			require.ErrorIs(t, err, store.ErrNotFound)

			require.NoError(t, s.SaveDocument(ctx, sampleDoc()))
			got, err := s.LoadDocument(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleDoc(), got)

			require.NoError(t, s.SaveDocument(ctx, nil))
			_, err = s.LoadDocument(ctx)
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestAIConfigNeverStoresKey(t *testing.T) {
	t.Parallel()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := store.New(b)
			ctx := context.Background()

			cfg := ai.Config{Provider: ai.ProviderLocal, Model: "llama3.2", BaseURL: "http://localhost:11434", APIKey: "sk-secret"}
			require.NoError(t, s.SaveAIConfig(ctx, cfg))

			raw, err := b.Get(ctx, store.KeyAIConfig)
			require.NoError(t, err)
			assert.NotContains(t, string(raw), "sk-secret")
			assert.Contains(t, string(raw), `"baseURL"`)

			got, err := s.LoadAIConfig(ctx)
			require.NoError(t, err)
			cfg.APIKey = ""
			assert.Equal(t, cfg, got)

			require.NoError(t, s.Clear(ctx))
			_, err = s.LoadAIConfig(ctx)
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestRedisUsesPrefix(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	b, err := store.NewRedis(store.RedisConfig{Addr: mr.Addr(), Prefix: "deckforge:"})
	require.NoError(t, err)
	require.NoError(t, store.New(b).SaveDocument(context.Background(), sampleDoc()))

	val, err := mr.Get("deckforge:" + store.KeyProject)
	require.NoError(t, err)
	assert.Contains(t, val, "Cloud 101")
}

func TestRedisRequiresAddress(t *testing.T) {
	t.Parallel()

	_, err := store.NewRedis(store.RedisConfig{})
	assert.ErrorIs(t, err, store.ErrEmptyAddress)
}

func TestLoadsLegacyProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	legacy := `{"metadados":{"titulo_gerado":"Antigo"},"paginas":[{"pagina_numero":1,"layout_type":"capa_principal","conteudo":{"titulo":"Antigo"}}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.KeyProject+".json"), []byte(legacy), 0o600))

	s, err := store.Open(config.Storage{Backend: config.BackendFile, Dir: dir})
	require.NoError(t, err)
	doc, err := s.LoadDocument(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Antigo", doc.Title())
	assert.Equal(t, document.TagCover, doc.Pages[0].Template)
}

func TestFileRejectsPathKeys(t *testing.T) {
	t.Parallel()

	f, err := store.NewFile(t.TempDir())
	require.NoError(t, err)
	err = f.Set(context.Background(), "../escape", []byte("x"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid key"))

	_, err = store.Open(config.Storage{Backend: "s3"})
	assert.Error(t, err)
}
