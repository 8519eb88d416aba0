package enums

import "fmt"

// Platform identifies the marketplace an export file originated from.
type Platform string

const (
	PlatformAmazon   Platform = "amazon"
	PlatformNoon     Platform = "noon"
	PlatformTrendyol Platform = "trendyol"
	PlatformIlasouq  Platform = "ilasouq"
	PlatformTabby    Platform = "tabby"
	PlatformSMSA     Platform = "smsa"
)

// validPlatforms doubles as the detection priority order: the first tag
// found in a file name wins.
var validPlatforms = []Platform{
	PlatformAmazon,
	PlatformNoon,
	PlatformTrendyol,
	PlatformIlasouq,
	PlatformTabby,
	PlatformSMSA,
}

// AllPlatforms returns every known platform in detection priority order.
func AllPlatforms() []Platform {
	out := make([]Platform, len(validPlatforms))
	copy(out, validPlatforms)
	return out
}

// String implements fmt.Stringer.
func (p Platform) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Platform.
func (p Platform) IsValid() bool {
	for _, candidate := range validPlatforms {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlatform converts raw input into a Platform.
func ParsePlatform(value string) (Platform, error) {
	for _, candidate := range validPlatforms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid platform %q", value)
}
