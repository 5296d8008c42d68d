package cache

import (
	"context"
	"crypto/sha1"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListKeyStableForSameFilter(t *testing.T) {
	a := ListKey("flights", 3, 2, "dep=HAN&arr=SGN")
	b := ListKey("flights", 3, 2, "dep=HAN&arr=SGN")
	assert.Equal(t, a, b)
}

func TestListKeyEmbedsVersionAndPage(t *testing.T) {
	sum := sha1.Sum([]byte("dep=HAN"))
	want := fmt.Sprintf("flights:all:v7:1:%x", sum[:])
	assert.Equal(t, want, ListKey("flights", 7, 1, "dep=HAN"))
}

func TestListKeyChangesWithAnyComponent(t *testing.T) {
	base := ListKey("flights", 1, 1, "dep=HAN")
	assert.NotEqual(t, base, ListKey("flights", 2, 1, "dep=HAN"), "version must partition keys")
	assert.NotEqual(t, base, ListKey("flights", 1, 2, "dep=HAN"), "page must partition keys")
	assert.NotEqual(t, base, ListKey("flights", 1, 1, "dep=SGN"), "filter must partition keys")
	assert.NotEqual(t, base, ListKey("airplanes", 1, 1, "dep=HAN"), "domain must partition keys")
}

func TestEntityKey(t *testing.T) {
	assert.Equal(t, "flights:42", EntityKey("flights", 42))
	assert.Equal(t, "airplanes:1", EntityKey("airplanes", 1))
}

func TestNilStoreIsMissAndNoop(t *testing.T) {
	ctx := context.Background()
	var s *Store

	assert.EqualValues(t, 1, s.Version(ctx, "flights"))
	var out []string
	assert.False(t, s.GetJSON(ctx, "flights:1", &out))

	// Must not panic.
	s.Bump(ctx, "flights")
	s.SetJSON(ctx, "flights:1", []string{"x"})
	s.Delete(ctx, "flights:1")

	s = New(nil, 0)
	assert.EqualValues(t, 1, s.Version(ctx, "flights"))
	assert.False(t, s.GetJSON(ctx, "flights:1", &out))
	s.Bump(ctx, "flights")
}
