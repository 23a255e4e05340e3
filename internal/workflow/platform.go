package workflow

import (
	"fmt"
	"strings"
)

// Platform is a publication target for a content item.
type Platform string

const (
	PlatformLinkedIn Platform = "LinkedIn"
	PlatformWebsite  Platform = "Website"
)

// AllPlatforms lists the recognized publication targets.
var AllPlatforms = []Platform{PlatformLinkedIn, PlatformWebsite}

// legacyPlatforms maps deprecated single-platform values from the old board
// layout onto the current set.
var legacyPlatforms = map[string]Platform{
	"Blog":    PlatformWebsite,
	"Twitter": PlatformLinkedIn,
}

// ParsePlatforms validates a platform set. The set must be non-empty and every
// member must be a recognized platform.
func ParsePlatforms(values []string) ([]Platform, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("platform must be a non-empty subset of: %s", platformList())
	}
	platforms := make([]Platform, 0, len(values))
	for _, v := range values {
		platform, ok := parsePlatform(v)
		if !ok {
			return nil, fmt.Errorf("platform %q is not recognized, must be a subset of: %s", v, platformList())
		}
		platforms = append(platforms, platform)
	}
	return platforms, nil
}

// NormalizePlatform resolves both current and legacy platform names.
func NormalizePlatform(v string) (Platform, bool) {
	if platform, ok := parsePlatform(v); ok {
		return platform, true
	}
	if platform, ok := legacyPlatforms[v]; ok {
		return platform, true
	}
	return "", false
}

func parsePlatform(v string) (Platform, bool) {
	for _, platform := range AllPlatforms {
		if v == string(platform) {
			return platform, true
		}
	}
	return "", false
}

func platformList() string {
	names := make([]string, len(AllPlatforms))
	for i, p := range AllPlatforms {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// Department is an optional tag on a content item, used only for filtering.
type Department string

const (
	DepartmentBSS        Department = "BSS"
	DepartmentTax        Department = "Tax Advisory"
	DepartmentConsulting Department = "Management Consulting"
	DepartmentOperations Department = "Operations"
	DepartmentTechnology Department = "Technology"
)

// AllDepartments lists the recognized department tags.
var AllDepartments = []Department{
	DepartmentBSS,
	DepartmentTax,
	DepartmentConsulting,
	DepartmentOperations,
	DepartmentTechnology,
}

// ParseDepartment validates a department tag. The empty string is accepted as
// "no department".
func ParseDepartment(v string) (Department, error) {
	if v == "" {
		return "", nil
	}
	for _, d := range AllDepartments {
		if v == string(d) {
			return d, nil
		}
	}
	names := make([]string, len(AllDepartments))
	for i, d := range AllDepartments {
		names[i] = string(d)
	}
	return "", fmt.Errorf("department must be one of: %s", strings.Join(names, ", "))
}
