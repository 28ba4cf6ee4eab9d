package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskPatch_IsEmpty(t *testing.T) {
	title := "t"
	done := false

	assert.True(t, TaskPatch{}.IsEmpty())
	assert.False(t, TaskPatch{Title: &title}.IsEmpty())
	assert.False(t, TaskPatch{Description: &title}.IsEmpty())
	assert.False(t, TaskPatch{Completed: &done}.IsEmpty())
}

func TestUser_NeverSerializesHash(t *testing.T) {
	u := &User{ID: "u1", Email: "a@x.com", PasswordHash: "$2a$10$secret"}

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")

	assert.Equal(t, Identity{ID: "u1", Email: "a@x.com"}, u.Identity())
}
