package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/bkoksal/tgf-handicap/internal/course"
	"github.com/bkoksal/tgf-handicap/internal/player"
)

type fakeDirectory struct {
	byName  map[string][]player.Record
	byFedNo map[string][]player.Record
	err     error
}

func (d *fakeDirectory) SearchByName(name string) ([]player.Record, error) {
	return d.byName[name], d.err
}

func (d *fakeDirectory) SearchByFedNo(fedno string) ([]player.Record, error) {
	return d.byFedNo[fedno], d.err
}

type fakeCatalog struct {
	tees []course.Tee
	err  error
}

func (c *fakeCatalog) Courses() ([]course.Tee, error) { return c.tees, c.err }

func activeRecord(fedno, name string, index float64) player.Record {
	return player.Record{
		FedNo:         fedno,
		Name:          name,
		Club:          "Kemer G&CC",
		HandicapIndex: &index,
		Status:        player.StatusActive,
	}
}

func kemerTees() []course.Tee {
	return []course.Tee{
		{Name: "Kemer Golf & Country Club - RED", Par18: 72, Rating18: 70.1, Slope18: 124},
		{Name: "Kemer Golf & Country Club - WHITE", Par18: 72, Rating18: 72.7, Slope18: 137},
	}
}

func gloriaTees() []course.Tee {
	return []course.Tee{
		{Name: "Gloria New Course - BLACK", Par18: 71, Rating18: 74.5, Slope18: 135},
	}
}

func newTestApp(dir player.Directory, cat course.Catalog, input string) (*App, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	app := &App{
		Directory: dir,
		Catalog:   cat,
		In:        strings.NewReader(input),
		Out:       out,
		Err:       errOut,
	}
	return app, out, errOut
}

func TestSplitPlayers(t *testing.T) {
	tests := []struct {
		arg  string
		want []string
	}{
		{"Ali Akar", []string{"Ali Akar"}},
		{"Ali Akar, 2769", []string{"Ali Akar", "2769"}},
		{" Ali Akar ,, Ayse Demir ", []string{"Ali Akar", "Ayse Demir"}},
		{",  ,", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := splitPlayers(tt.arg)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitPlayers(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}

func TestRunResolvedPlayer(t *testing.T) {
	dir := &fakeDirectory{byName: map[string][]player.Record{
		"Ali Akar": {activeRecord("2769", "Ali Akar", 10.4)},
	}}
	app, out, _ := newTestApp(dir, &fakeCatalog{tees: kemerTees()}, "")

	if err := app.Run("Ali Akar", "kemer", 100, FormatJSON); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var report Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("bad JSON output: %v", err)
	}
	if report.Course != "Kemer Golf & Country Club" {
		t.Errorf("course = %q", report.Course)
	}
	if len(report.Tees) != 2 || report.Tees[0].Slope != 137 {
		t.Fatalf("tees = %+v, want 2 rows hardest first", report.Tees)
	}

	// 10.4*(137/113) + (72.7-72) = 13.3 -> 13
	got := report.Tees[0].Handicaps["Ali Akar"]
	if got == nil || *got != 13 {
		t.Errorf("WHITE handicap = %v, want 13", got)
	}
}

func TestRunLooksUpFedNoDirectly(t *testing.T) {
	dir := &fakeDirectory{byFedNo: map[string][]player.Record{
		"2769": {activeRecord("2769", "Ali Akar", 10.4)},
	}}
	app, _, _ := newTestApp(dir, &fakeCatalog{tees: kemerTees()}, "")

	if err := app.Run("2769", "kemer", 100, FormatJSON); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunInteractiveSelection(t *testing.T) {
	dir := &fakeDirectory{byName: map[string][]player.Record{
		"Akar": {
			activeRecord("2769", "Ali Akar", 10.4),
			activeRecord("3001", "Ayse Akar", 22.0),
		},
	}}
	// First answer is garbage, second picks the listed position.
	app, out, _ := newTestApp(dir, &fakeCatalog{tees: kemerTees()}, "bogus\n2\n")

	if err := app.Run("Akar", "kemer", 100, FormatJSON); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Not a valid choice.") {
		t.Error("expected a reprompt after invalid input")
	}

	start := strings.Index(text, "{")
	var report Report
	if err := json.Unmarshal([]byte(text[start:]), &report); err != nil {
		t.Fatalf("bad JSON output: %v", err)
	}
	if len(report.Players) != 1 || report.Players[0].FedNo != "3001" {
		t.Errorf("players = %+v, want Ayse Akar", report.Players)
	}
}

func TestRunSkipsNotFoundButKeepsOthers(t *testing.T) {
	inactive := activeRecord("9999", "Mehmet Yilmaz", 5.0)
	inactive.Status = "Pasif"
	dir := &fakeDirectory{byName: map[string][]player.Record{
		"Mehmet Yilmaz": {inactive},
		"Ali Akar":      {activeRecord("2769", "Ali Akar", 10.4)},
	}}
	app, out, errOut := newTestApp(dir, &fakeCatalog{tees: kemerTees()}, "")

	if err := app.Run("Mehmet Yilmaz, Ali Akar", "kemer", 100, FormatJSON); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(errOut.String(), "Mehmet Yilmaz") {
		t.Error("the unusable record should be reported on stderr")
	}

	var report Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("bad JSON output: %v", err)
	}
	if len(report.Players) != 1 || report.Players[0].Name != "Ali Akar" {
		t.Errorf("players = %+v, want only Ali Akar", report.Players)
	}
}

func TestRunFailsWhenNoPlayersResolve(t *testing.T) {
	app, _, _ := newTestApp(&fakeDirectory{}, &fakeCatalog{tees: kemerTees()}, "")
	if err := app.Run("Nobody", "kemer", 100, FormatText); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRunSurfacesDirectoryError(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("session unavailable")}
	app, _, _ := newTestApp(dir, &fakeCatalog{tees: kemerTees()}, "")
	if err := app.Run("Ali Akar", "kemer", 100, FormatText); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRunUnknownCourse(t *testing.T) {
	dir := &fakeDirectory{byName: map[string][]player.Record{
		"Ali Akar": {activeRecord("2769", "Ali Akar", 10.4)},
	}}
	app, _, _ := newTestApp(dir, &fakeCatalog{tees: kemerTees()}, "")
	if err := app.Run("Ali Akar", "augusta", 100, FormatText); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRunPromptsBetweenCourses(t *testing.T) {
	dir := &fakeDirectory{byName: map[string][]player.Record{
		"Ali Akar": {activeRecord("2769", "Ali Akar", 10.4)},
	}}
	catalog := &fakeCatalog{tees: append(kemerTees(), gloriaTees()...)}
	// "c" matches both courses; bases list alphabetically, 1 = Gloria.
	app, out, _ := newTestApp(dir, catalog, "1\n")

	if err := app.Run("Ali Akar", "c", 100, FormatJSON); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Multiple courses match") {
		t.Error("expected a course selection prompt")
	}

	start := strings.Index(text, "{")
	var report Report
	if err := json.Unmarshal([]byte(text[start:]), &report); err != nil {
		t.Fatalf("bad JSON output: %v", err)
	}
	if report.Course != "Gloria New Course" {
		t.Errorf("course = %q, want Gloria New Course", report.Course)
	}
}

func TestRunMatchOnOneTeeBringsWholeCourse(t *testing.T) {
	dir := &fakeDirectory{byName: map[string][]player.Record{
		"Ali Akar": {activeRecord("2769", "Ali Akar", 10.4)},
	}}
	app, out, _ := newTestApp(dir, &fakeCatalog{tees: kemerTees()}, "")

	if err := app.Run("Ali Akar", "kemer golf & country club - red", 100, FormatJSON); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var report Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("bad JSON output: %v", err)
	}
	if len(report.Tees) != 2 {
		t.Errorf("got %d tees, want both tees of the matched course", len(report.Tees))
	}
}
