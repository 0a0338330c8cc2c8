// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"strings"

	"github.com/pdiddy/paperclean/pkg/types"
)

// Reason explains why a page is deleted.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonBlank        Reason = "blank"
	ReasonAdditional   Reason = "additional"
	ReasonContinuation Reason = "continuation"
	ReasonTurnOver     Reason = "turn-over"
	ReasonMarker       Reason = "marker"
)

// Verdict is the classifier's decision for one page.
type Verdict struct {
	Delete bool
	Reason Reason
	// Marker is the phrase that matched, as configured.
	Marker string
}

// knownReasons maps the stock boilerplate phrases to their reason codes.
var knownReasons = map[string]Reason{
	"ADDITIONAL PAGE":      ReasonAdditional,
	"BEGINS ON PAGE":       ReasonContinuation,
	"IS ON THE NEXT PAGE.": ReasonContinuation,
	"PLEASE TURN OVER":     ReasonTurnOver,
}

// Classify decides whether a page whose extracted text is text should be
// deleted. Matching is a case-insensitive substring test, so surrounding
// text and layout noise do not matter. The blank-page marker is checked
// first, then the boilerplate markers in order.
func Classify(text string, rules types.RuleSet) Verdict {
	upper := strings.ToUpper(text)

	if m := rules.BlankPageMarker; m != "" && strings.Contains(upper, strings.ToUpper(m)) {
		return Verdict{Delete: true, Reason: ReasonBlank, Marker: m}
	}
	for _, m := range rules.BoilerplateMarkers {
		if m == "" {
			continue
		}
		key := strings.ToUpper(m)
		if !strings.Contains(upper, key) {
			continue
		}
		reason, ok := knownReasons[key]
		if !ok {
			reason = ReasonMarker
		}
		return Verdict{Delete: true, Reason: reason, Marker: m}
	}
	return Verdict{}
}
