package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidVideoLink(t *testing.T) {
	valid := []string{
		"",
		"https://www.instagram.com/p/Cx1_ab-9/",
		"http://instagram.com/reel/abc123",
		"instagr.am/tv/XYZ/?utm_source=ig",
	}
	for _, link := range valid {
		assert.True(t, IsValidVideoLink(link), link)
	}

	invalid := []string{
		"https://youtube.com/watch?v=1",
		"https://www.instagram.com/someuser",
		"https://instagram.com/stories/abc",
	}
	for _, link := range invalid {
		assert.False(t, IsValidVideoLink(link), link)
	}
}

func TestPropertyTypes(t *testing.T) {
	assert.Len(t, PropertyTypes, 13)
	assert.True(t, IsValidPropertyType("Studio Apartment"))
	assert.False(t, IsValidPropertyType("villa"))
	assert.False(t, IsValidPropertyType("Castle"))
}

func TestStatuses(t *testing.T) {
	assert.True(t, IsValidStatus(PropertyStatusSold))
	assert.False(t, IsValidStatus("Pending"))
	assert.True(t, IsValidContactStatus(ContactStatusResolved))
	assert.False(t, IsValidContactStatus("Closed"))
}

func TestImageRefs(t *testing.T) {
	p := Property{Images: []PropertyImage{{Reference: "a.jpg"}, {Reference: "b.jpg"}}}
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.ImageRefs())
}
