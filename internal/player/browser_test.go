package player

import "testing"

func TestSplitClub(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantCode string
	}{
		{"name with code", "Kemer Golf & Country Club (103)", "Kemer Golf & Country Club", "103"},
		{"nested parentheses", "Gloria (Serik) Golf Club (7)", "Gloria (Serik) Golf Club", "7"},
		{"no code", "National Golf Club", "National Golf Club", ""},
		{"unclosed parenthesis", "Lone (Club", "Lone (Club", ""},
		{"surrounding whitespace", "  Carya GC (55)  ", "Carya GC", "55"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, code := splitClub(tt.input)
			if name != tt.wantName || code != tt.wantCode {
				t.Errorf("splitClub(%q) = %q, %q, want %q, %q",
					tt.input, name, code, tt.wantName, tt.wantCode)
			}
		})
	}
}

func TestParseIndex(t *testing.T) {
	if got := parseIndex("10.4"); got == nil || *got != 10.4 {
		t.Errorf("parseIndex(10.4) = %v", got)
	}
	for _, text := range []string{"", "-", "N/A"} {
		if got := parseIndex(text); got != nil {
			t.Errorf("parseIndex(%q) = %v, want nil", text, *got)
		}
	}
}

func TestRowsToRecords(t *testing.T) {
	rows := [][]string{
		{"2769", "Ali Akar", "Kemer G&CC (103)", "10.4", "Aktif", "Amatör", "E", "Yetişkin", ""},
		{"6099", "Mehmet Yılmaz", "Gloria GC (7)", "-", "Pasif", "Amatör", "E", "Yetişkin", ""},
		{"too", "short", "row"}, // skipped, not fatal
	}

	records := rowsToRecords(rows)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.FedNo != "2769" || first.Name != "Ali Akar" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.Club != "Kemer G&CC" || first.ClubCode != "103" {
		t.Errorf("club split = %q/%q", first.Club, first.ClubCode)
	}
	if first.HandicapIndex == nil || *first.HandicapIndex != 10.4 {
		t.Errorf("HandicapIndex = %v, want 10.4", first.HandicapIndex)
	}
	if !first.Active() {
		t.Error("first scraped record should be active")
	}

	if records[1].HandicapIndex != nil {
		t.Error("dash handicap should map to nil index")
	}
}
