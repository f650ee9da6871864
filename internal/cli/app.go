package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/bkoksal/tgf-handicap/internal/course"
	"github.com/bkoksal/tgf-handicap/internal/player"
	"github.com/bkoksal/tgf-handicap/internal/resolver"
)

// App runs one calculation against an already-wired directory and catalog.
// The streams are injectable so the interactive selection loop can be tested
// with scripted input.
type App struct {
	Directory player.Directory
	Catalog   course.Catalog

	In  io.Reader
	Out io.Writer
	Err io.Writer

	Verbose bool

	scanner *bufio.Scanner
}

// Run resolves every player token, picks the course and writes the report.
func (a *App) Run(playersArg, courseArg string, allowance int, format OutputFormat) error {
	tokens := splitPlayers(playersArg)
	if len(tokens) == 0 {
		return fmt.Errorf("no players given")
	}

	res := resolver.New(a.Directory)
	res.Cache = player.NewQueryCache()

	confirmed := make([]player.Record, 0, len(tokens))
	for _, token := range tokens {
		rec, err := a.resolvePlayer(res, token)
		if err != nil {
			return err
		}
		if rec != nil {
			confirmed = append(confirmed, *rec)
		}
	}
	if len(confirmed) == 0 {
		return fmt.Errorf("none of the players could be resolved")
	}

	tees, err := a.pickCourse(courseArg)
	if err != nil {
		return err
	}

	return WriteReport(a.Out, BuildReport(confirmed, tees, allowance), format)
}

// splitPlayers breaks the comma-separated player argument into clean tokens.
func splitPlayers(arg string) []string {
	parts := strings.Split(arg, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

func (a *App) resolvePlayer(res *resolver.Resolver, token string) (*player.Record, error) {
	result, err := res.Resolve(token)
	if err != nil {
		return nil, fmt.Errorf("looking up %q: %w", token, err)
	}

	if result.Resolved() {
		if a.Verbose {
			fmt.Fprintf(a.Err, "Resolved %q to %s (fed no %s)\n", token, result.Player.Name, result.Player.FedNo)
		}
		return result.Player, nil
	}

	if result.NotFound() {
		fmt.Fprintf(a.Err, "No usable player found for %q.\n", token)
		for _, rec := range result.Excluded {
			fmt.Fprintf(a.Err, "  skipped: %s (%s), %s\n", rec.Name, rec.FedNo, describeExclusion(rec))
		}
		return nil, nil
	}

	return a.promptPlayer(token, result.Candidates)
}

func describeExclusion(rec player.Record) string {
	if !rec.Active() {
		return "handicap status " + rec.Status
	}
	return "no handicap index"
}

// promptPlayer asks the user to pick one candidate. An empty line skips the
// token; anything Select rejects gets reprompted.
func (a *App) promptPlayer(token string, candidates []player.Record) (*player.Record, error) {
	fmt.Fprintf(a.Out, "Multiple players match %q:\n", token)
	for i, c := range candidates {
		fmt.Fprintf(a.Out, "  %d. %s  fed no %s  %s  index %s\n",
			i+1, c.Name, c.FedNo, c.Club, formatIndex(c.HandicapIndex))
	}

	for {
		fmt.Fprint(a.Out, "Enter a list number or federation number (empty to skip): ")
		line, ok := a.readLine()
		if !ok {
			return nil, fmt.Errorf("input closed while selecting a player for %q", token)
		}
		if strings.TrimSpace(line) == "" {
			fmt.Fprintf(a.Err, "Skipping %q.\n", token)
			return nil, nil
		}
		if rec, ok := resolver.Select(candidates, line); ok {
			return rec, nil
		}
		fmt.Fprintln(a.Out, "Not a valid choice.")
	}
}

// pickCourse matches the query against the catalog. A match on any tee pulls
// in the course's whole tee set; several distinct courses trigger a prompt.
func (a *App) pickCourse(query string) ([]course.Tee, error) {
	all, err := a.Catalog.Courses()
	if err != nil {
		return nil, fmt.Errorf("fetching course catalog: %w", err)
	}

	matches := course.FindByName(all, query)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no course matches %q", query)
	}

	bases := make([]string, 0)
	for base := range course.GroupByBase(matches) {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	base := bases[0]
	if len(bases) > 1 {
		base, err = a.promptCourse(query, bases)
		if err != nil {
			return nil, err
		}
	}

	tees := make([]course.Tee, 0)
	for _, t := range all {
		if t.BaseName() == base {
			tees = append(tees, t)
		}
	}
	return tees, nil
}

func (a *App) promptCourse(query string, bases []string) (string, error) {
	fmt.Fprintf(a.Out, "Multiple courses match %q:\n", query)
	for i, base := range bases {
		fmt.Fprintf(a.Out, "  %d. %s\n", i+1, base)
	}

	for {
		fmt.Fprint(a.Out, "Enter a list number: ")
		line, ok := a.readLine()
		if !ok {
			return "", fmt.Errorf("input closed while selecting a course for %q", query)
		}
		line = strings.TrimSpace(line)
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(bases) {
			return bases[n-1], nil
		}
		for _, base := range bases {
			if strings.EqualFold(base, line) {
				return base, nil
			}
		}
		fmt.Fprintln(a.Out, "Not a valid choice.")
	}
}

func (a *App) readLine() (string, bool) {
	if a.scanner == nil {
		a.scanner = bufio.NewScanner(a.In)
	}
	if !a.scanner.Scan() {
		return "", false
	}
	return a.scanner.Text(), true
}
