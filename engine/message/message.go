// Package message builds the localized SOS text sent to trusted contacts.
package message

import (
	"fmt"
	"strconv"

	"github.com/Daskott/raksha/engine/location"
)

type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
	Marathi Language = "mr"

	// DefaultLanguage is used for any language without a template
	DefaultLanguage = English
)

type Category string

const (
	Medical  Category = "medical"
	Fire     Category = "fire"
	Police   Category = "police"
	Threat   Category = "threat"
	Disaster Category = "disaster"

	DefaultCategory = Medical
)

const MAPS_LINK_FORMAT = "https://maps.google.com/maps?q=%s,%s"

var (
	Languages  = []Language{English, Hindi, Marathi}
	Categories = []Category{Medical, Fire, Police, Threat, Disaster}

	categoryLabels = map[Language]map[Category]string{
		English: {
			Medical:  "MEDICAL EMERGENCY",
			Fire:     "FIRE EMERGENCY",
			Police:   "POLICE HELP NEEDED",
			Threat:   "KIDNAPPING/THREAT",
			Disaster: "NATURAL DISASTER",
		},
		Hindi: {
			Medical:  "चिकित्सा आपातकाल",
			Fire:     "आग आपातकाल",
			Police:   "पुलिस सहायता चाहिए",
			Threat:   "अपहरण/धमकी",
			Disaster: "प्राकृतिक आपदा",
		},
		Marathi: {
			Medical:  "वैद्यकीय आणीबाणी",
			Fire:     "आग आणीबाणी",
			Police:   "पोलीस मदत हवी",
			Threat:   "अपहरण/धमकी",
			Disaster: "नैसर्गिक आपत्ती",
		},
	}

	locationUnavailable = map[Language]string{
		English: "Location unavailable",
		Hindi:   "स्थान उपलब्ध नहीं",
		Marathi: "स्थान उपलब्ध नाही",
	}

	// templates take the category label & location link, in that order
	templates = map[Language]string{
		English: "SOS ALERT! %s. I need immediate help! My location: %s",
		Hindi:   "SOS अलर्ट! %s। मुझे तुरंत मदद चाहिए! मेरा स्थान: %s",
		Marathi: "SOS अलर्ट! %s। मला तातडीने मदत हवी! माझे स्थान: %s",
	}
)

// IsSupportedLanguage reports whether lang has its own template
func IsSupportedLanguage(lang Language) bool {
	_, ok := templates[lang]
	return ok
}

func IsValidCategory(category Category) bool {
	_, ok := categoryLabels[English][category]
	return ok
}

// ResolveLanguage returns lang, or DefaultLanguage when lang has no template
func ResolveLanguage(lang Language) Language {
	if IsSupportedLanguage(lang) {
		return lang
	}

	return DefaultLanguage
}

// MapsLink returns a google maps link that pins sample
func MapsLink(sample location.Sample) string {
	return fmt.Sprintf(MAPS_LINK_FORMAT, formatCoordinate(sample.Latitude), formatCoordinate(sample.Longitude))
}

// UnavailableToken is the text used in place of a maps link when there's no location
func UnavailableToken(lang Language) string {
	return locationUnavailable[ResolveLanguage(lang)]
}

// CategoryLabel returns the localized label for category. Unknown categories
// are labelled as medical emergencies.
func CategoryLabel(category Category, lang Language) string {
	labels := categoryLabels[ResolveLanguage(lang)]
	if label, ok := labels[category]; ok {
		return label
	}

	return labels[DefaultCategory]
}

// Compose builds the SOS message. It never fails: a nil sample is replaced by
// the localized "location unavailable" text.
func Compose(category Category, sample *location.Sample, lang Language) string {
	lang = ResolveLanguage(lang)

	locationLink := UnavailableToken(lang)
	if sample != nil {
		locationLink = MapsLink(*sample)
	}

	return fmt.Sprintf(templates[lang], CategoryLabel(category, lang), locationLink)
}

// formatCoordinate uses the shortest decimal form that round-trips
func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
