// Package resolve infers the (locality, week) identity of a source document
// from its structured fields, its filename and its body text, in that
// priority order. The identity keys every downstream naming decision, so an
// ambiguous or unknown result is an error here rather than a guess.
package resolve

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/DanielZo0/CMS-Sales/constants"
	"github.com/DanielZo0/CMS-Sales/internal/common"
	"github.com/DanielZo0/CMS-Sales/internal/extract"
)

// Resolution is a resolved document identity.
type Resolution struct {
	Locality constants.Locality
	Week     int
}

// explicit week markers, tried in order; the bare 1-2 digit fallback is only
// consulted when no other source produced a week at all.
var (
	reWeekMarkers = []*regexp.Regexp{
		regexp.MustCompile(`(?i)wk\s*(\d{1,2})`),
		regexp.MustCompile(`(?i)week\s*(\d{1,2})`),
		regexp.MustCompile(`(?i)\bw(\d{1,2})\b`),
		regexp.MustCompile(`\((\d{1,2})\)`),
	}
	reBareNumber = regexp.MustCompile(`\b(\d{1,2})\b`)
	reBodyWeek   = regexp.MustCompile(`(?i)(?:invoice for week|week)\s+(\d{1,2})`)
)

// startDateLayouts parse the week boundary dates as printed (d/m/yy).
var startDateLayouts = []string{"2/1/06", "2/1/2006", "02/01/06", "02/01/2006"}

type Resolver struct {
	logger *slog.Logger
}

func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

// Resolve determines the locality and week for a document. fields may be nil
// when extraction did not run or failed; resolution then works from the
// filename alone.
func (r *Resolver) Resolve(filename string, fields *extract.RawFields) (Resolution, error) {
	loc, err := r.resolveLocality(filename, fields)
	if err != nil {
		return Resolution{}, err
	}
	week, err := r.resolveWeek(filename, fields)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Locality: loc, Week: week}, nil
}

func (r *Resolver) resolveLocality(filename string, fields *extract.RawFields) (constants.Locality, error) {
	// 1: structured field from the extractor
	if fields != nil && fields.Locality != "" {
		if loc, ok := constants.ParseLocality(fields.Locality); ok {
			return loc, nil
		}
		r.logger.Debug("structured locality token not in known set",
			"file", filename, "token", fields.Locality)
	}
	// 2: locality name in the filename
	base := strings.ToLower(filepath.Base(filename))
	if loc, ok := scanForLocality(base); ok {
		return loc, nil
	}
	// 3: locality name in the body text
	if fields != nil {
		if loc, ok := scanForLocality(strings.ToLower(fields.BodyText)); ok {
			return loc, nil
		}
	}
	if fields != nil && fields.Locality != "" {
		return "", common.ResolutionErrorf("unknown locality %q in %s", fields.Locality, filepath.Base(filename))
	}
	return "", common.ResolutionErrorf("no locality found for %s", filepath.Base(filename))
}

func scanForLocality(haystack string) (constants.Locality, bool) {
	for _, name := range constants.AllLocalities() {
		if strings.Contains(haystack, strings.ToLower(name)) {
			return constants.Locality(name), true
		}
	}
	// trading-name variant without the plural
	if strings.Contains(haystack, "carter") {
		return constants.Carters, true
	}
	return "", false
}

func (r *Resolver) resolveWeek(filename string, fields *extract.RawFields) (int, error) {
	structured := 0
	if fields != nil && fields.Week != "" {
		if w, err := strconv.Atoi(fields.Week); err == nil && validWeek(w) {
			structured = w
		}
	}

	base := filepath.Base(filename)
	fromFilename := weekFromMarkers(base)

	fromBody := 0
	if fields != nil && fields.BodyText != "" {
		if m := reBodyWeek.FindStringSubmatch(fields.BodyText); m != nil {
			if w, err := strconv.Atoi(m[1]); err == nil && validWeek(w) {
				fromBody = w
			}
		}
	}

	// A document-derived week that disagrees with an explicit filename marker
	// is ambiguous: refuse to pick rather than silently preferring one.
	docWeek := structured
	if docWeek == 0 {
		docWeek = fromBody
	}
	if docWeek != 0 && fromFilename != 0 && docWeek != fromFilename {
		return 0, common.ResolutionErrorf(
			"week %d from document conflicts with week %d from filename %s",
			docWeek, fromFilename, base)
	}
	if docWeek != 0 {
		return docWeek, nil
	}
	if fromFilename != 0 {
		return fromFilename, nil
	}

	// derive from the week start date when present
	if fields != nil && fields.StartDate != "" {
		for _, layout := range startDateLayouts {
			if t, err := time.Parse(layout, fields.StartDate); err == nil {
				_, week := t.ISOWeek()
				return week, nil
			}
		}
	}

	// last resort: a bare one or two digit number in the filename
	if m := reBareNumber.FindStringSubmatch(base); m != nil {
		if w, err := strconv.Atoi(m[1]); err == nil && validWeek(w) {
			return w, nil
		}
	}
	return 0, common.ResolutionErrorf("no week number found for %s", base)
}

func weekFromMarkers(name string) int {
	for _, re := range reWeekMarkers {
		if m := re.FindStringSubmatch(name); m != nil {
			if w, err := strconv.Atoi(m[1]); err == nil && validWeek(w) {
				return w
			}
		}
	}
	return 0
}

func validWeek(w int) bool {
	return w >= 1 && w <= 53
}
