package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableEntriesAreNonEmptyAndUniquelyNamed(t *testing.T) {
	require.NotEmpty(t, Table)
	seen := make(map[string]bool, len(Table))
	for _, e := range Table {
		assert.NotEmpty(t, e.Bytes, "entry %q must carry at least one wire byte", e.Name)
		assert.False(t, seen[e.Name], "duplicate corpus entry name %q", e.Name)
		seen[e.Name] = true
	}
}

func TestByNameFindsKnownBadVariants(t *testing.T) {
	for _, name := range []string{"bad_connection_close", "bad_application_close", "bad_ack_gaps"} {
		e := ByName(name)
		require.NotNilf(t, e, "expected corpus entry %q to exist", name)
		assert.Equal(t, name, e.Name)
	}
}

func TestByNameReturnsNilForUnknownEntry(t *testing.T) {
	assert.Nil(t, ByName("no_such_entry_____"))
}
