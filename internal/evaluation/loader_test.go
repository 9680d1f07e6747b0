package evaluation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
)

func writeGoldenFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "golden_queries.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGoldenQueries(t *testing.T) {
	path := writeGoldenFile(t, `[
		{"id":"q1","search_term":"lagos","search_type":"location","expected_hospital_ids":["h1","h2"],"difficulty":"easy"},
		{"id":"q2","search_term":"cardiology","search_type":"specialization","expected_hospital_ids":["h3"],"difficulty":"medium"}
	]`)

	queries, err := LoadGoldenQueries(path)

	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, "lagos", queries[0].SearchTerm)
	assert.Equal(t, entities.SearchTypeLocation, queries[0].SearchType)
	assert.Equal(t, []string{"h3"}, queries[1].ExpectedIDs)
}

func TestLoadGoldenQueriesMissingFile(t *testing.T) {
	_, err := LoadGoldenQueries(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadGoldenQueriesInvalidJSON(t *testing.T) {
	path := writeGoldenFile(t, `{not json`)
	_, err := LoadGoldenQueries(path)
	require.Error(t, err)
}

func TestValidateGoldenQueries(t *testing.T) {
	valid := GoldenQuery{
		ID:          "q1",
		SearchTerm:  "lagos",
		SearchType:  entities.SearchTypeLocation,
		ExpectedIDs: []string{"h1"},
		Difficulty:  "easy",
	}

	assert.NoError(t, ValidateGoldenQueries([]GoldenQuery{valid}))

	missingID := valid
	missingID.ID = ""
	assert.Error(t, ValidateGoldenQueries([]GoldenQuery{missingID}))

	badType := valid
	badType.SearchType = "postcode"
	assert.Error(t, ValidateGoldenQueries([]GoldenQuery{badType}))

	badDifficulty := valid
	badDifficulty.Difficulty = "impossible"
	assert.Error(t, ValidateGoldenQueries([]GoldenQuery{badDifficulty}))

	noExpectations := valid
	noExpectations.ExpectedIDs = nil
	assert.Error(t, ValidateGoldenQueries([]GoldenQuery{noExpectations}))

	duplicate := valid
	assert.Error(t, ValidateGoldenQueries([]GoldenQuery{valid, duplicate}))
}
