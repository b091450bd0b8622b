package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringRendersKnownPhases(t *testing.T) {
	cases := map[Handshake]string{
		Initial:  "initial",
		NotReady: "not_ready",
		Ready:    "ready",
		Closing:  "closing",
	}
	for h, want := range cases {
		assert.Equal(t, want, h.String())
	}
}

func TestStringRendersUnknownAsUnknown(t *testing.T) {
	assert.Equal(t, "unknown", Handshake(99).String())
}

func TestAllIsAscendingAndComplete(t *testing.T) {
	all := All()
	assert.Equal(t, []Handshake{Initial, NotReady, Ready, Closing}, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1], all[i])
	}
}

func TestCountMatchesAllLength(t *testing.T) {
	assert.Equal(t, len(All()), Count)
}

func TestZeroValueIsInitial(t *testing.T) {
	var h Handshake
	assert.Equal(t, Initial, h)
}
