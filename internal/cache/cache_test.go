package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/apa7/internal/model"
)

func TestTemplateKey(t *testing.T) {
	key := TemplateKey("abc123")
	assert.Equal(t, "apa7-template-v2-abc123", key)
	assert.NotEqual(t, key, TemplateKey("abc124"))
}

func TestMemory(t *testing.T) {
	c := NewMemory(time.Minute)

	_, found := c.Get("k")
	assert.False(t, found)

	require.NoError(t, c.Set("k", []byte("v"), 0))
	val, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, c.Delete("k"))
	_, found = c.Get("k")
	assert.False(t, found)
}

func TestMemory_Copies(t *testing.T) {
	c := NewMemory(0)
	value := []byte("abc")
	require.NoError(t, c.Set("k", value, 0))
	value[0] = 'x'

	got, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, _ := c.Get("k")
	assert.Equal(t, []byte("abc"), again)
	assert.Equal(t, 1, c.Len())
}

func TestLayered_PromotesThroughChain(t *testing.T) {
	fast, middle, slow := NewMemory(time.Hour), NewMemory(time.Hour), NewMemory(time.Hour)
	require.NoError(t, slow.Set("k", []byte("v"), 0))

	c := NewLayered(fast, middle, slow)
	_, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, 1, fast.Len())
	assert.Equal(t, 1, middle.Len())

	require.NoError(t, c.Delete("k"))
	assert.Zero(t, fast.Len()+middle.Len()+slow.Len())
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory(time.Minute)
	require.NoError(t, c.Set("k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, found := c.Get("k")
	assert.False(t, found)
}

func TestDisk_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewDisk(dir, time.Hour)

	require.NoError(t, c.Set("k", []byte{0x50, 0x4b, 0x03, 0x04}, 0))
	val, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte{0x50, 0x4b, 0x03, 0x04}, val)

	// no temp files are left next to the entry
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDisk_Expired(t *testing.T) {
	dir := t.TempDir()
	c := NewDisk(dir, time.Hour)

	require.NoError(t, c.Set("k", []byte("v"), -time.Second))
	_, found := c.Get("k")
	assert.False(t, found)
	_, err := os.Stat(filepath.Join(dir, "k.cache"))
	assert.True(t, os.IsNotExist(err), "expired entry is removed")
}

func TestDisk_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDisk(dir, time.Hour)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "k.cache"), []byte("{not json"), 0o644))

	_, found := c.Get("k")
	assert.False(t, found)
}

func TestDisk_InvalidKeys(t *testing.T) {
	c := NewDisk(t.TempDir(), time.Hour)
	for _, key := range []string{"", "../escape", `a\b`, ".hidden"} {
		assert.Error(t, c.Set(key, []byte("v"), 0), key)
		_, found := c.Get(key)
		assert.False(t, found, key)
	}
}

func TestDisk_DeleteMissing(t *testing.T) {
	c := NewDisk(t.TempDir(), time.Hour)
	assert.NoError(t, c.Delete("missing"))
}

func TestLayered_PromotesFromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewDisk(dir, time.Hour).Set("k", []byte("v"), 0))

	c := NewLayered(NewMemory(time.Hour), NewDisk(dir, time.Hour))
	val, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("v"), val)

	// still served from memory once the disk entry is gone
	require.NoError(t, os.RemoveAll(dir))
	val, found = c.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("v"), val)
}

func TestLayered_SetAndClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewLayered(NewMemory(time.Hour), NewDisk(dir, time.Hour))

	require.NoError(t, c.Set("k", []byte("v"), 0))
	_, err := os.Stat(filepath.Join(dir, "k.cache"))
	require.NoError(t, err)

	require.NoError(t, c.Clear())
	_, found := c.Get("k")
	assert.False(t, found)
}

func TestNew(t *testing.T) {
	assert.IsType(t, Nop{}, New(model.CacheConfig{Enabled: false, Dir: t.TempDir()}))
	assert.IsType(t, Nop{}, New(model.CacheConfig{Enabled: true}))
	assert.IsType(t, &Layered{}, New(model.CacheConfig{Enabled: true, Dir: t.TempDir(), TTL: time.Hour}))

	var nop Nop
	require.NoError(t, nop.Set("k", []byte("v"), 0))
	_, found := nop.Get("k")
	assert.False(t, found)
}
