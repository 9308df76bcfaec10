package posts

import (
	"fmt"
	"sort"
	"strings"

	"reposter/internal/services"
	"reposter/internal/textutil"
)

// Fingerprint axes.
const (
	// AxisContent compares NFC-normalised text, case preserved.
	AxisContent = "content"
	// AxisContentFolded compares NFC text after Unicode case folding.
	AxisContentFolded = "content-folded"
)

var fingerprints = map[string]func(ArchivedPost) string{
	AxisContent:       func(p ArchivedPost) string { return textutil.Normalize(p.Text) },
	AxisContentFolded: func(p ArchivedPost) string { return textutil.Fold(p.Text) },
}

// Fingerprint resolves the fingerprint function for axis.
func Fingerprint(axis string) (func(ArchivedPost) string, error) {
	fn, ok := fingerprints[axis]
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "posts", "fingerprint",
			fmt.Sprintf("unknown axis %q (known: %s)", axis, strings.Join(Axes(), ", ")), nil)
	}
	return fn, nil
}

// Axes lists the known axis names in sorted order.
func Axes() []string {
	names := make([]string, 0, len(fingerprints))
	for name := range fingerprints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
