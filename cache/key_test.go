package cache

import (
	"testing"

	"github.com/poiesic/refind/core"
	"github.com/stretchr/testify/assert"
)

func TestKeyDeterministic(t *testing.T) {
	candidates := []core.Candidate{
		{ItemId: 1, Color: "black", Brand: "louis vuitton"},
		{ItemId: 2, Color: "red"},
	}

	k1 := Key("black wallet", candidates, "gpt-4o-mini")
	k2 := Key("black wallet", candidates, "gpt-4o-mini")
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64) // 32-byte BLAKE2b digest, hex encoded
}

func TestKeyComponentsMatter(t *testing.T) {
	candidates := []core.Candidate{{ItemId: 1, Color: "black"}}
	base := Key("black wallet", candidates, "gpt-4o-mini")

	t.Run("query changes key", func(t *testing.T) {
		assert.NotEqual(t, base, Key("red umbrella", candidates, "gpt-4o-mini"))
	})

	t.Run("model changes key", func(t *testing.T) {
		assert.NotEqual(t, base, Key("black wallet", candidates, "exaone-3.5"))
	})

	t.Run("candidate attribute changes key", func(t *testing.T) {
		// Same id set, different attribute: the cached judgment must be
		// invalidated.
		changed := []core.Candidate{{ItemId: 1, Color: "brown"}}
		assert.NotEqual(t, base, Key("black wallet", changed, "gpt-4o-mini"))
	})

	t.Run("candidate order changes key", func(t *testing.T) {
		two := []core.Candidate{{ItemId: 1}, {ItemId: 2}}
		swapped := []core.Candidate{{ItemId: 2}, {ItemId: 1}}
		assert.NotEqual(t,
			Key("q", two, "m"),
			Key("q", swapped, "m"))
	})
}

func TestKeyEmptyCandidates(t *testing.T) {
	assert.NotEmpty(t, Key("query", nil, "model"))
	assert.NotEqual(t,
		Key("query", nil, "model"),
		Key("query", []core.Candidate{{ItemId: 1}}, "model"))
}
