package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/sharpscore/internal/domain/fingerprint"
)

// Score bands used by the static reason.
const (
	sharpBand  = 30
	squareBand = 70
)

// StaticExplainer writes a short templated reason from the records without
// calling out. It suits local runs and tests.
type StaticExplainer struct{}

// NewStaticExplainer returns a StaticExplainer.
func NewStaticExplainer() *StaticExplainer { return &StaticExplainer{} }

// Explain implements Explainer.
func (StaticExplainer) Explain(_ context.Context, score int, records []fingerprint.Record) (string, error) {
	var headless, datacenter, cookiesOff, quiet int
	var loadSum float64
	var loads int
	for _, r := range records {
		if r.Headless != nil && *r.Headless {
			headless++
		}
		if r.CookiesEnabled != nil && !*r.CookiesEnabled {
			cookiesOff++
		}
		if r.IPDetails != nil && r.IPDetails.IsDatacenter != nil && *r.IPDetails.IsDatacenter {
			datacenter++
		}
		if r.Events != nil && !isTrue(r.Events.Mousemove) && !isTrue(r.Events.Scroll) {
			quiet++
		}
		if r.PageLoadTime != nil {
			loadSum += *r.PageLoadTime
			loads++
		}
	}

	var b strings.Builder
	switch {
	case score <= sharpBand:
		fmt.Fprintf(&b, "This user scored %d, which looks like a sharp, professional bettor.", score)
	case score >= squareBand:
		fmt.Fprintf(&b, "This user scored %d, which looks like a casual, everyday punter.", score)
	default:
		fmt.Fprintf(&b, "This user scored %d, showing a mix of casual and sharp habits.", score)
	}

	n := len(records)
	var signs []string
	if headless > 0 {
		signs = append(signs, fmt.Sprintf("a hidden browser in %d of %d sessions", headless, n))
	}
	if cookiesOff > 0 {
		signs = append(signs, fmt.Sprintf("cookies turned off in %d", cookiesOff))
	}
	if datacenter > 0 {
		signs = append(signs, fmt.Sprintf("a datacenter connection in %d", datacenter))
	}
	if quiet > 0 {
		signs = append(signs, fmt.Sprintf("almost no scrolling or mouse movement in %d", quiet))
	}
	if len(signs) > 0 {
		fmt.Fprintf(&b, " We saw %s.", strings.Join(signs, ", "))
	} else {
		b.WriteString(" Their sessions look like normal home browsing.")
	}
	if loads > 0 {
		fmt.Fprintf(&b, " Pages loaded in about %.0fms on average.", loadSum/float64(loads))
	}
	return b.String(), nil
}

func isTrue(b *bool) bool { return b != nil && *b }
