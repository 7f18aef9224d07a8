package engine

import (
	"strings"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
)

// VoicePolicy drives voice selection. Preferred names are tried in order;
// voices whose name mentions an excluded vendor are skipped by the English
// fallback (they are still eligible by exact name or as the last resort).
type VoicePolicy struct {
	Preferred       []string
	ExcludedVendors []string
}

// DefaultVoicePolicy returns the neural voices that read numbers cleanly.
func DefaultVoicePolicy() VoicePolicy {
	return VoicePolicy{
		Preferred: []string{
			"en-US-AvaNeural",
			"en-US-AndrewNeural",
			"en-US-JennyNeural",
			"en-GB-SoniaNeural",
		},
		ExcludedVendors: []string{"Google"},
	}
}

// SelectVoice picks a voice: exact preferred name, then any English voice
// not from an excluded vendor, then the first voice offered. It returns
// false when there are no voices, meaning "use the backend default".
func SelectVoice(voices []domain.Voice, p VoicePolicy) (domain.Voice, bool) {
	if len(voices) == 0 {
		return domain.Voice{}, false
	}

	for _, name := range p.Preferred {
		for _, v := range voices {
			if v.Name == name || v.DisplayName == name {
				return v, true
			}
		}
	}

	for _, v := range voices {
		if isEnglish(v.Locale) && !fromExcludedVendor(v, p.ExcludedVendors) {
			return v, true
		}
	}

	return voices[0], true
}

func isEnglish(locale string) bool {
	return strings.HasPrefix(strings.ToLower(locale), "en")
}

func fromExcludedVendor(v domain.Voice, vendors []string) bool {
	for _, vendor := range vendors {
		if vendor == "" {
			continue
		}
		if strings.Contains(v.Name, vendor) || strings.Contains(v.DisplayName, vendor) {
			return true
		}
	}
	return false
}
