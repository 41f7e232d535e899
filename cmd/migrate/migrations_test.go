package main

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsLoad(t *testing.T) {
	all, err := loadMigrations(migrationsFS, "migrations")
	require.NoError(t, err)
	require.Len(t, all, 4)

	for i, m := range all {
		assert.Equal(t, i+1, m.version)
		assert.NotEmpty(t, m.up, m.name)
		assert.NotEmpty(t, m.down, m.name)
	}
	assert.Equal(t, "create_reviews", all[3].name)
}

func TestLoadMigrationsRejectsBadNames(t *testing.T) {
	cases := map[string]string{
		"no version":   "create_things.up.sql",
		"no direction": "000001_create_things.sql",
	}

	for name, file := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{"m/" + file: {Data: []byte("SELECT 1;")}}
			_, err := loadMigrations(fsys, "m")
			assert.Error(t, err)
		})
	}
}

func TestLoadMigrationsRequiresUp(t *testing.T) {
	fsys := fstest.MapFS{"m/000001_a.down.sql": {Data: []byte("DROP TABLE a;")}}

	_, err := loadMigrations(fsys, "m")
	assert.ErrorContains(t, err, "no up file")
}

func TestPendingAndRollbackable(t *testing.T) {
	all := []migration{{version: 1}, {version: 2}, {version: 3}}
	applied := map[int]bool{1: true, 2: true}

	todo := pending(all, applied)
	require.Len(t, todo, 1)
	assert.Equal(t, 3, todo[0].version)

	back := rollbackable(all, applied, 5)
	require.Len(t, back, 2)
	assert.Equal(t, 2, back[0].version)
	assert.Equal(t, 1, back[1].version)

	assert.Len(t, rollbackable(all, applied, 1), 1)
}
