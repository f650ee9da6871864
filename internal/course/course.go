// Package course fetches and decodes the TGF course catalog.
//
// The calculator page embeds every rated tee as a dropdown option whose value
// packs all nine rating fields into one fixed-width numeric string. This
// package decodes those options into Tee records and offers the same
// API-first, browser-fallback split as the player directory.
package course

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Tee is one rated set of starting markers, named "<Course> - <Tee>".
// Ratings carry one decimal digit; slopes are whole numbers (55-155).
type Tee struct {
	Name        string  `json:"name"`
	Par18       int     `json:"par_18"`
	Rating18    float64 `json:"cr_18"`
	Slope18     int     `json:"slope_18"`
	ParFront    int     `json:"par_f9"`
	RatingFront float64 `json:"cr_f9"`
	SlopeFront  int     `json:"slope_f9"`
	ParBack     int     `json:"par_b9"`
	RatingBack  float64 `json:"cr_b9"`
	SlopeBack   int     `json:"slope_b9"`
}

const baseSeparator = " - "

// BaseName returns the course part of the tee-qualified name. Tees sharing a
// base name belong to the same course.
func (t Tee) BaseName() string {
	if i := strings.LastIndex(t.Name, baseSeparator); i >= 0 {
		return t.Name[:i]
	}
	return t.Name
}

// TeeName returns the tee part of the name, or the whole name when it has no
// separator.
func (t Tee) TeeName() string {
	if i := strings.LastIndex(t.Name, baseSeparator); i >= 0 {
		return t.Name[i+len(baseSeparator):]
	}
	return t.Name
}

const (
	// manualSentinel labels the dropdown entry for hand-typed ratings.
	manualSentinel = "Manuel"

	encodedLen = 27
	fieldWidth = 3
)

// decodeOption unpacks one dropdown option. The value concatenates nine
// 3-digit fields: par, rating*10 and slope for 18 holes, then the front nine,
// then the back nine. A field that fails to parse invalidates the whole
// option; there are no partially decoded tees.
func decodeOption(label, value string) (Tee, bool) {
	if label == manualSentinel || len(value) < encodedLen {
		return Tee{}, false
	}

	var fields [9]int
	for i := range fields {
		n, err := strconv.Atoi(value[i*fieldWidth : (i+1)*fieldWidth])
		if err != nil {
			return Tee{}, false
		}
		fields[i] = n
	}

	return Tee{
		Name:        label,
		Par18:       fields[0],
		Rating18:    float64(fields[1]) / 10.0,
		Slope18:     fields[2],
		ParFront:    fields[3],
		RatingFront: float64(fields[4]) / 10.0,
		SlopeFront:  fields[5],
		ParBack:     fields[6],
		RatingBack:  float64(fields[7]) / 10.0,
		SlopeBack:   fields[8],
	}, true
}

// ParseCatalog extracts every decodable tee from the calculator page markup.
// Undecodable options are skipped; they never abort their siblings.
func ParseCatalog(r io.Reader) ([]Tee, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	tees := make([]Tee, 0)
	doc.Find("select#DpCourses option").Each(func(_ int, sel *goquery.Selection) {
		value, _ := sel.Attr("value")
		label := strings.TrimSpace(sel.Text())
		if tee, ok := decodeOption(label, value); ok {
			tees = append(tees, tee)
		}
	})
	return tees, nil
}

// FindByName returns the tees whose full name contains the query,
// case-insensitively.
func FindByName(tees []Tee, query string) []Tee {
	q := strings.ToLower(query)
	matches := make([]Tee, 0)
	for _, t := range tees {
		if strings.Contains(strings.ToLower(t.Name), q) {
			matches = append(matches, t)
		}
	}
	return matches
}

// GroupByBase buckets tees under their course's base name.
func GroupByBase(tees []Tee) map[string][]Tee {
	grouped := make(map[string][]Tee)
	for _, t := range tees {
		base := t.BaseName()
		grouped[base] = append(grouped[base], t)
	}
	return grouped
}

// SortBySlope returns a copy ordered hardest tee first.
func SortBySlope(tees []Tee) []Tee {
	sorted := append([]Tee(nil), tees...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Slope18 > sorted[j].Slope18
	})
	return sorted
}
