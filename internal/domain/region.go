package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Region is a Riot platform code such as "na1" or "kr".
type Region string

// DefaultRegion is used when a request does not name one.
const DefaultRegion Region = "oc1"

// regionRouting maps each supported platform to its regional routing value.
var regionRouting = map[Region]string{
	"br1":  "americas",
	"la1":  "americas",
	"la2":  "americas",
	"na1":  "americas",
	"jp1":  "asia",
	"kr":   "asia",
	"eun1": "europe",
	"euw1": "europe",
	"me1":  "europe",
	"ru":   "europe",
	"tr1":  "europe",
	"oc1":  "sea",
	"ph2":  "sea",
	"sg2":  "sea",
	"th2":  "sea",
	"tw2":  "sea",
	"vn2":  "sea",
}

// ParseRegion normalizes and validates a platform code.
// An empty string yields DefaultRegion.
func ParseRegion(s string) (Region, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultRegion, nil
	}
	r := Region(s)
	if _, ok := regionRouting[r]; !ok {
		return "", fmt.Errorf("unsupported region %q", s)
	}
	return r, nil
}

// Valid reports whether r is in the supported set.
func (r Region) Valid() bool {
	_, ok := regionRouting[r]
	return ok
}

// Routing returns the regional routing host for match-v5.
func (r Region) Routing() string {
	return regionRouting[r]
}

// AccountRouting returns the regional routing host for account-v1,
// which is not served on "sea"; those platforms use "asia".
func (r Region) AccountRouting() string {
	routing := regionRouting[r]
	if routing == "sea" {
		return "asia"
	}
	return routing
}

func (r Region) String() string {
	return string(r)
}

// SupportedRegions returns every supported platform code, sorted.
func SupportedRegions() []Region {
	out := make([]Region, 0, len(regionRouting))
	for r := range regionRouting {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
