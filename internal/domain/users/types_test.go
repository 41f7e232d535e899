package users

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordSetAndCompare(t *testing.T) {
	var p password
	require.NoError(t, p.Set("S3cure!pass"))

	assert.NotEmpty(t, p.Hash())
	assert.NotEqual(t, "S3cure!pass", string(p.Hash()))
	assert.NoError(t, p.Compare("S3cure!pass"))
	assert.Error(t, p.Compare("wrong"))
}

func TestUserJSONHidesPassword(t *testing.T) {
	u := User{ID: 1, Username: "maya", Email: "maya@example.com"}
	require.NoError(t, u.Password.Set("S3cure!pass"))

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "password")
	assert.Equal(t, "maya", fields["username"])
}
