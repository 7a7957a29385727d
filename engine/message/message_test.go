package message

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/Daskott/raksha/engine/location"
	"github.com/stretchr/testify/assert"
)

func TestCompose(t *testing.T) {
	sample := location.Sample{Latitude: 18.5204303, Longitude: 73.8567437, CapturedAt: 1}

	cases := []struct {
		description string
		category    Category
		sample      *location.Sample
		language    Language
		expected    string
	}{
		{
			description: "Should compose english message with maps link",
			category:    Medical,
			sample:      &sample,
			language:    English,
			expected:    "SOS ALERT! MEDICAL EMERGENCY. I need immediate help! My location: https://maps.google.com/maps?q=18.5204303,73.8567437",
		},
		{
			description: "Should compose hindi message without location",
			category:    Fire,
			sample:      nil,
			language:    Hindi,
			expected:    "SOS अलर्ट! आग आपातकाल। मुझे तुरंत मदद चाहिए! मेरा स्थान: स्थान उपलब्ध नहीं",
		},
		{
			description: "Should compose marathi message with maps link",
			category:    Police,
			sample:      &sample,
			language:    Marathi,
			expected:    "SOS अलर्ट! पोलीस मदत हवी। मला तातडीने मदत हवी! माझे स्थान: https://maps.google.com/maps?q=18.5204303,73.8567437",
		},
		{
			description: "Should fall back to english for unsupported language",
			category:    Disaster,
			sample:      nil,
			language:    Language("fr"),
			expected:    "SOS ALERT! NATURAL DISASTER. I need immediate help! My location: Location unavailable",
		},
		{
			description: "Should label unknown category as medical",
			category:    Category("alien"),
			sample:      nil,
			language:    English,
			expected:    "SOS ALERT! MEDICAL EMERGENCY. I need immediate help! My location: Location unavailable",
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			assert.Equal(t, c.expected, Compose(c.category, c.sample, c.language))
		})
	}
}

func TestComposeIncludesMapsLink(t *testing.T) {
	coordinates := [][2]float64{
		{0, 0},
		{90, 180},
		{-90, -180},
		{19.076090123456789, 72.877426987654321},
		{-33.8688, 151.2093},
		{51.5, -0.1275},
	}

	for _, lang := range Languages {
		for _, category := range Categories {
			for _, coords := range coordinates {
				sample := location.Sample{Latitude: coords[0], Longitude: coords[1]}
				link := fmt.Sprintf("https://maps.google.com/maps?q=%v,%v",
					strconv.FormatFloat(coords[0], 'f', -1, 64), strconv.FormatFloat(coords[1], 'f', -1, 64))

				msg := Compose(category, &sample, lang)
				assert.Contains(t, msg, link)
				assert.NotContains(t, msg, UnavailableToken(lang))
			}
		}
	}
}

func TestComposeWithoutLocation(t *testing.T) {
	for _, lang := range Languages {
		for _, category := range Categories {
			msg := Compose(category, nil, lang)

			assert.NotEmpty(t, msg)
			assert.Contains(t, msg, UnavailableToken(lang))
			assert.Contains(t, msg, CategoryLabel(category, lang))
			assert.False(t, strings.Contains(msg, "maps.google.com"), "Should not include a maps link")
		}
	}
}

func TestResolveLanguage(t *testing.T) {
	assert.Equal(t, Hindi, ResolveLanguage(Hindi))
	assert.Equal(t, English, ResolveLanguage(""))
	assert.Equal(t, English, ResolveLanguage("de"))
	assert.True(t, IsValidCategory(Threat))
	assert.False(t, IsValidCategory("unknown"))
}
