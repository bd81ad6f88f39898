package model

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBoxNormalized(t *testing.T) {
	box := BoundingBox{X1: 300, Y1: 250, X2: 100, Y2: 200}
	assert.Equal(t, BoundingBox{X1: 100, Y1: 200, X2: 300, Y2: 250}, box.Normalized())

	ordered := BoundingBox{X1: 1, Y1: 2, X2: 3, Y2: 4}
	assert.Equal(t, ordered, ordered.Normalized())
}

func TestParagraphID(t *testing.T) {
	assert.Equal(t, "p001-g000", ParagraphID(1, 0))
	assert.Equal(t, "p012-g034", ParagraphID(12, 34))
	assert.Equal(t, "p1234-g005", ParagraphID(1234, 5))
}

func TestNewDocumentFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motor-policy.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0600))

	t.Run("Name defaults to file name", func(t *testing.T) {
		doc, data, err := NewDocumentFromFile(path, "")
		require.NoError(t, err)
		assert.Equal(t, "motor-policy", doc.Name)
		assert.Equal(t, path, doc.FilePath)
		assert.Equal(t, HashBytes(data), doc.VersionHash)
		assert.Len(t, doc.VersionHash, 64)
	})

	t.Run("Explicit name wins", func(t *testing.T) {
		doc, _, err := NewDocumentFromFile(path, "Motor Policy")
		require.NoError(t, err)
		assert.Equal(t, "Motor Policy", doc.Name)
	})

	t.Run("Missing file fails", func(t *testing.T) {
		_, _, err := NewDocumentFromFile(filepath.Join(t.TempDir(), "nope.pdf"), "")
		assert.Error(t, err)
	})
}

func TestHashBytes(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashBytes(nil))
	assert.Equal(t, HashBytes([]byte("a")), HashBytes([]byte("a")))
	assert.NotEqual(t, HashBytes([]byte("a")), HashBytes([]byte("b")))
}

func TestRetrievedHitValidate(t *testing.T) {
	valid := &RetrievedHit{DocName: "policy", DocVersion: "abc", Page: 1, ParaID: "p001-g000"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		hit  *RetrievedHit
	}{
		{"nil hit", nil},
		{"missing name", &RetrievedHit{DocVersion: "abc", Page: 1, ParaID: "p001-g000"}},
		{"missing version", &RetrievedHit{DocName: "policy", Page: 1, ParaID: "p001-g000"}},
		{"missing page", &RetrievedHit{DocName: "policy", DocVersion: "abc", ParaID: "p001-g000"}},
		{"missing para id", &RetrievedHit{DocName: "policy", DocVersion: "abc", Page: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.hit.Validate()
			assert.True(t, errors.Is(err, ErrIntegrity), "Expected ErrIntegrity, got %v", err)
		})
	}
}

func TestQueryConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultSuggestConfig().Validate())
	assert.NoError(t, DefaultAnswerConfig().Validate())

	assert.ErrorIs(t, QueryConfig{TopK: 0, MaxBullets: 4}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, QueryConfig{TopK: 21, MaxBullets: 4}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, QueryConfig{TopK: 5, MaxBullets: 11}.Validate(), ErrInvalidInput)
}

func TestMetadata(t *testing.T) {
	var m Metadata
	require.NoError(t, m.Scan([]byte(`{"pages": 3}`)))
	pages, ok := m.Int("pages")
	assert.True(t, ok)
	assert.Equal(t, 3, pages)

	_, ok = m.Int("missing")
	assert.False(t, ok)

	value, err := Metadata(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), value)

	assert.Error(t, m.Scan(42))
}

func TestFieldsJSON(t *testing.T) {
	t.Run("Decoding keeps key order", func(t *testing.T) {
		var fields Fields
		err := json.Unmarshal([]byte(`{"zeta":"water","alpha":3,"mid":null,"flag":true}`), &fields)
		require.NoError(t, err)
		require.Len(t, fields, 4)
		assert.Equal(t, "zeta", fields[0].Key)
		assert.Equal(t, "alpha", fields[1].Key)
		assert.Equal(t, json.Number("3"), fields[1].Value)
		assert.Nil(t, fields[2].Value)
		assert.Equal(t, true, fields[3].Value)
	})

	t.Run("Round trip", func(t *testing.T) {
		fields := Fields{{Key: "b", Value: "x"}, {Key: "a", Value: 1}}
		data, err := json.Marshal(fields)
		require.NoError(t, err)
		assert.Equal(t, `{"b":"x","a":1}`, string(data))
	})

	t.Run("Not an object", func(t *testing.T) {
		var fields Fields
		err := json.Unmarshal([]byte(`["a"]`), &fields)
		assert.Error(t, err)
	})
}

func TestRequestValidate(t *testing.T) {
	t.Run("Suggest defaults", func(t *testing.T) {
		req := NewSuggestRequest()
		require.NoError(t, json.Unmarshal([]byte(`{"case_id":"c1","user_id":"u1","fields":{}}`), req))
		assert.Equal(t, 5, req.TopK)
		assert.NoError(t, req.Validate())
		assert.Empty(t, req.Fields)
	})

	t.Run("Answer defaults", func(t *testing.T) {
		req := NewAnswerRequest()
		require.NoError(t, json.Unmarshal([]byte(`{"case_id":"c1","user_id":"u1","fields":{"a":"b"}}`), req))
		assert.Equal(t, 6, req.TopK)
		assert.Equal(t, 4, req.MaxBullets)
		assert.NoError(t, req.Validate())
	})

	t.Run("Missing caller", func(t *testing.T) {
		req := NewSuggestRequest()
		req.UserID = "u1"
		assert.ErrorIs(t, req.Validate(), ErrInvalidInput)

		answer := NewAnswerRequest()
		answer.CaseID = "c1"
		assert.ErrorIs(t, answer.Validate(), ErrInvalidInput)
	})

	t.Run("Bounds", func(t *testing.T) {
		req := &SuggestRequest{CaseID: "c", UserID: "u", TopK: 21}
		assert.ErrorIs(t, req.Validate(), ErrInvalidInput)

		answer := &AnswerRequest{CaseID: "c", UserID: "u", TopK: 6, MaxBullets: 11}
		assert.ErrorIs(t, answer.Validate(), ErrInvalidInput)
	})
}
