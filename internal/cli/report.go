package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/bkoksal/tgf-handicap/internal/course"
	"github.com/bkoksal/tgf-handicap/internal/player"
	"github.com/bkoksal/tgf-handicap/internal/whs"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Report is the calculation result for one course.
type Report struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Course      string         `json:"course"`
	Allowance   int            `json:"allowance"`
	Players     []ReportPlayer `json:"players"`
	Tees        []TeeRow       `json:"tees"`
}

// ReportPlayer is one confirmed player with the index the rows were
// calculated from.
type ReportPlayer struct {
	FedNo    string   `json:"fed_no"`
	Name     string   `json:"name"`
	Club     string   `json:"club,omitempty"`
	HcpIndex *float64 `json:"hcp_index"`
}

// TeeRow holds one tee's ratings and the playing handicap per player name.
// A nil handicap marks a player without an index or a tee that cannot be
// rated.
type TeeRow struct {
	Tee       string          `json:"tee"`
	Par       int             `json:"par"`
	Rating    float64         `json:"rating"`
	Slope     int             `json:"slope"`
	Handicaps map[string]*int `json:"handicaps"`
}

// BuildReport calculates the full tee-by-player table, hardest tee first.
func BuildReport(players []player.Record, tees []course.Tee, allowance int) *Report {
	report := &Report{
		GeneratedAt: time.Now().UTC(),
		Allowance:   allowance,
		Players:     make([]ReportPlayer, 0, len(players)),
		Tees:        make([]TeeRow, 0, len(tees)),
	}
	if len(tees) > 0 {
		report.Course = tees[0].BaseName()
	}

	for _, p := range players {
		report.Players = append(report.Players, ReportPlayer{
			FedNo:    p.FedNo,
			Name:     p.Name,
			Club:     p.Club,
			HcpIndex: p.HandicapIndex,
		})
	}

	for _, t := range course.SortBySlope(tees) {
		row := TeeRow{
			Tee:       t.TeeName(),
			Par:       t.Par18,
			Rating:    t.Rating18,
			Slope:     t.Slope18,
			Handicaps: make(map[string]*int, len(players)),
		}
		for _, p := range players {
			row.Handicaps[p.Name] = nil
			if p.HandicapIndex == nil {
				continue
			}
			if v, ok := whs.PlayingHandicap(*p.HandicapIndex, t.Slope18, t.Rating18, t.Par18, allowance); ok {
				value := v
				row.Handicaps[p.Name] = &value
			}
		}
		report.Tees = append(report.Tees, row)
	}
	return report
}

// WriteReport writes the report in the specified format
func WriteReport(w io.Writer, report *Report, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case FormatText:
		return writeText(w, report)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeText(w io.Writer, report *Report) error {
	fmt.Fprintf(w, "Course: %s\n", report.Course)
	if report.Allowance != whs.FullAllowance {
		fmt.Fprintf(w, "Allowance: %d%%\n", report.Allowance)
	}
	for _, p := range report.Players {
		fmt.Fprintf(w, "%s (fed no %s): index %s\n", p.Name, p.FedNo, formatIndex(p.HcpIndex))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "TEE\tPAR\tCR\tSLOPE")
	for _, p := range report.Players {
		fmt.Fprintf(tw, "\t%s", p.Name)
	}
	fmt.Fprintln(tw)

	for _, row := range report.Tees {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%d", row.Tee, row.Par, row.Rating, row.Slope)
		for _, p := range report.Players {
			fmt.Fprintf(tw, "\t%s", formatHandicap(row.Handicaps[p.Name]))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func formatIndex(index *float64) string {
	if index == nil {
		return "-"
	}
	return strconv.FormatFloat(*index, 'f', 1, 64)
}

func formatHandicap(hcp *int) string {
	if hcp == nil {
		return "-"
	}
	return strconv.Itoa(*hcp)
}
