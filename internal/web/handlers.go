package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bkoksal/tgf-handicap/internal/course"
	"github.com/bkoksal/tgf-handicap/internal/logger"
	"github.com/bkoksal/tgf-handicap/internal/player"
	"github.com/bkoksal/tgf-handicap/internal/resolver"
	"github.com/bkoksal/tgf-handicap/internal/whs"
)

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	// Players holds only the active records; the raw count lets the client
	// explain a result that was found but filtered out.
	Players  []player.Record `json:"players"`
	TotalRaw int             `json:"total_raw"`
	Cached   bool            `json:"cached"`
	Error    string          `json:"error,omitempty"`
}

func (s *Server) handleSearchPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "empty query")
		return
	}

	if records, ok := s.queries.Get(query); ok {
		s.log.Info("player search", logger.Fields{"query": player.Normalize(query), "cached": true})
		s.writeSearch(w, records, true)
		return
	}

	var records []player.Record
	var err error
	if resolver.IsFedNo(query) {
		records, err = s.directory.SearchByFedNo(query)
	} else {
		records, err = s.directory.SearchByName(query)
	}
	if err != nil {
		s.log.Error("player search failed", logger.Fields{"query": player.Normalize(query)}, err)
		writeJSON(w, http.StatusOK, searchResponse{
			Players: []player.Record{},
			Error:   "TGF server did not respond. Please try again.",
		})
		return
	}

	if len(records) > 0 {
		s.queries.Set(query, records)
	}
	s.log.Info("player search", logger.Fields{
		"query": player.Normalize(query), "results": len(records), "cached": false,
	})
	s.writeSearch(w, records, false)
}

func (s *Server) writeSearch(w http.ResponseWriter, records []player.Record, cached bool) {
	active, _ := player.SplitActive(records)
	if active == nil {
		active = []player.Record{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Players:  active,
		TotalRaw: len(records),
		Cached:   cached,
	})
}

// teeEntry is a catalog tee with its name split out for the client.
type teeEntry struct {
	course.Tee
	BaseName string `json:"base_name"`
	TeeLabel string `json:"tee"`
}

type coursesResponse struct {
	Courses map[string][]teeEntry `json:"courses"`
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}

	tees, err := s.catalog.Courses()
	if err != nil {
		s.log.Error("course catalog fetch failed", nil, err)
		writeError(w, http.StatusBadGateway, "could not retrieve course data")
		return
	}

	grouped := make(map[string][]teeEntry)
	for _, t := range tees {
		base := t.BaseName()
		grouped[base] = append(grouped[base], teeEntry{
			Tee:      t,
			BaseName: base,
			TeeLabel: t.TeeName(),
		})
	}

	s.log.Info("course catalog served", logger.Fields{"tees": len(tees), "courses": len(grouped)})
	writeJSON(w, http.StatusOK, coursesResponse{Courses: grouped})
}

type calcPlayer struct {
	Name     string   `json:"name"`
	HcpIndex *float64 `json:"hcp_index"`
}

type calcRequest struct {
	Players []calcPlayer `json:"players"`
	Course  string       `json:"course"`
}

type calcRow struct {
	Tee    string  `json:"tee"`
	Par    int     `json:"par"`
	Rating float64 `json:"rating"`
	Slope  int     `json:"slope"`

	// Handicaps maps player name to playing handicap; null marks a player
	// without an index or a tee that cannot be rated.
	Handicaps map[string]*int `json:"handicaps"`
}

type calcResponse struct {
	Course  string       `json:"course"`
	Tees    []calcRow    `json:"tees"`
	Players []calcPlayer `json:"players"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	var req calcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tees, err := s.catalog.Courses()
	if err != nil {
		s.log.Error("course catalog fetch failed", nil, err)
		writeError(w, http.StatusBadGateway, "could not retrieve course data")
		return
	}

	var matching []course.Tee
	for _, t := range tees {
		if t.BaseName() == req.Course {
			matching = append(matching, t)
		}
	}
	if len(matching) == 0 {
		writeError(w, http.StatusNotFound, "course '"+req.Course+"' not found")
		return
	}

	rows := make([]calcRow, 0, len(matching))
	for _, t := range course.SortBySlope(matching) {
		row := calcRow{
			Tee:       t.TeeName(),
			Par:       t.Par18,
			Rating:    t.Rating18,
			Slope:     t.Slope18,
			Handicaps: make(map[string]*int, len(req.Players)),
		}
		for _, p := range req.Players {
			row.Handicaps[p.Name] = nil
			if p.HcpIndex == nil {
				continue
			}
			if phcp, ok := whs.PlayingHandicap(*p.HcpIndex, t.Slope18, t.Rating18, t.Par18, whs.FullAllowance); ok {
				value := phcp
				row.Handicaps[p.Name] = &value
			}
		}
		rows = append(rows, row)
	}

	s.log.Info("handicaps calculated", logger.Fields{
		"course": req.Course, "players": len(req.Players), "tees": len(rows),
	})
	writeJSON(w, http.StatusOK, calcResponse{Course: req.Course, Tees: rows, Players: req.Players})
}
