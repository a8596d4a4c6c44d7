package text

import (
	"sort"
	"strings"
)

// knownFeatures lists the OpenType feature tags the engines accept.
// Unknown tags are reported by the caller and skipped.
var knownFeatures = map[string]bool{
	"aalt": true, "c2pc": true, "c2sc": true, "calt": true, "case": true,
	"clig": true, "cpsp": true, "cswh": true, "dlig": true, "frac": true,
	"hist": true, "hlig": true, "kern": true, "liga": true, "lnum": true,
	"locl": true, "onum": true, "ordn": true, "ornm": true, "pcap": true,
	"pnum": true, "rlig": true, "salt": true, "sinf": true, "smcp": true,
	"subs": true, "sups": true, "swsh": true, "titl": true, "tnum": true,
	"unic": true, "zero": true,
}

func init() {
	// Stylistic sets ss01 through ss20.
	for i := 1; i <= 20; i++ {
		tag := "ss" + string(rune('0'+i/10)) + string(rune('0'+i%10))
		knownFeatures[tag] = true
	}
}

// KnownFeature reports whether tag is a recognized OpenType feature tag.
func KnownFeature(tag string) bool {
	return knownFeatures[tag]
}

// KnownFeatures returns every recognized OpenType feature tag, sorted.
func KnownFeatures() []string {
	tags := make([]string, 0, len(knownFeatures))
	for tag := range knownFeatures {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// ParseFeatureTag splits a feature name into its base tag and on/off state.
// A trailing "_off" suffix turns the feature off ("liga_off" disables
// ligatures); any other name enables its tag.
func ParseFeatureTag(name string) (tag string, on bool) {
	if base, found := strings.CutSuffix(name, "_off"); found {
		return base, false
	}
	return name, true
}
