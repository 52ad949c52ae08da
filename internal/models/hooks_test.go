package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Devworks Bootcamp":     "devworks-bootcamp",
		"ModernTech  Bootcamp!": "moderntech-bootcamp",
		"  Codemasters ":        "codemasters",
		"UI/UX Design":          "ui-ux-design",
		"":                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}
