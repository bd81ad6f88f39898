package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	db := initDB(t)

	t.Run("pgvector extension is created", func(t *testing.T) {
		var exists bool
		err := db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'vector');").Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "pgvector extension should be created")
	})

	t.Run("Init is idempotent", func(t *testing.T) {
		assert.NoError(t, Init(db.Instance))
		assert.NoError(t, Init(db.Instance))
	})
}

func TestLoadAllSql(t *testing.T) {
	db := initDB(t)

	t.Run("Load all functions", func(t *testing.T) {
		require.NoError(t, LoadAllSql(db.Instance, false))

		for _, name := range append(append([]string{}, DocumentsFunctions...), ChunksFunctions...) {
			exists, err := checkFunctions(db.Instance, []string{name})
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", name)
		}
	})

	t.Run("Loading again without force is a no-op", func(t *testing.T) {
		assert.NoError(t, LoadAllSql(db.Instance, false))
	})

	t.Run("Loading with force reloads", func(t *testing.T) {
		assert.NoError(t, LoadDocumentsSql(db.Instance, true))
		assert.NoError(t, LoadChunksSql(db.Instance, true))
	})
}

func TestInitTables(t *testing.T) {
	db := initDB(t)
	require.NoError(t, LoadAllSql(db.Instance, true))

	_, err := db.Instance.Exec(`SELECT init_documents();`)
	require.NoError(t, err)
	_, err = db.Instance.Exec(`SELECT init_chunks($1);`, 4)
	require.NoError(t, err)

	t.Run("Upsert keeps one row per name and version", func(t *testing.T) {
		var firstID, secondID int64
		err := db.Instance.QueryRow(`SELECT output_id FROM upsert_document($1, $2, $3, $4)`, "policy", "hash-1", "/a.pdf", "{}").Scan(&firstID)
		require.NoError(t, err)
		err = db.Instance.QueryRow(`SELECT output_id FROM upsert_document($1, $2, $3, $4)`, "policy", "hash-1", "/b.pdf", "{}").Scan(&secondID)
		require.NoError(t, err)
		assert.Equal(t, firstID, secondID)

		var path string
		err = db.Instance.QueryRow(`SELECT output_file_path FROM select_document($1, $2)`, "policy", "hash-1").Scan(&path)
		require.NoError(t, err)
		assert.Equal(t, "/b.pdf", path, "Expected file path to be refreshed")
	})

	t.Run("Chunk insert is skipped on existing key", func(t *testing.T) {
		var docID int64
		err := db.Instance.QueryRow(`SELECT output_id FROM upsert_document($1, $2, $3, $4)`, "chunked", "hash-2", "/c.pdf", "{}").Scan(&docID)
		require.NoError(t, err)

		var inserted bool
		query := `SELECT insert_chunk_if_absent($1, $2, $3, $4, $5, $6, $7, $8, $9::vector)`
		err = db.Instance.QueryRow(query, docID, 1, "p001-g000", 1, 2, 3, 4, "text", "[1,0,0,0]").Scan(&inserted)
		require.NoError(t, err)
		assert.True(t, inserted)

		err = db.Instance.QueryRow(query, docID, 1, "p001-g000", 1, 2, 3, 4, "text", "[1,0,0,0]").Scan(&inserted)
		require.NoError(t, err)
		assert.False(t, inserted)
	})
}
