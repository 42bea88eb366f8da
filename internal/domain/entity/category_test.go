package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategories(t *testing.T) {
	got := Categories()
	assert.Len(t, got, 7)
	assert.Equal(t, DefaultCategory, got[0])

	got[0] = "mutated"
	assert.Equal(t, DefaultCategory, Categories()[0], "Categories must return a copy")
}

func TestIsCategory(t *testing.T) {
	assert.True(t, IsCategory("technology"))
	assert.True(t, IsCategory(DefaultCategory))
	assert.False(t, IsCategory("Technology"))
	assert.False(t, IsCategory("weather"))
	assert.False(t, IsCategory(""))
}
