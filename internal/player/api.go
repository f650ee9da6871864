package player

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/bkoksal/tgf-handicap/internal/session"
)

const (
	// SessionPage is the bootstrap target for handicap-list sessions.
	SessionPage = "handicaps"

	// ListPage is the handicap list itself; sessions are warmed against it
	// and searches present it as their referer.
	ListPage = "FederatedsList_V2.aspx"

	searchEndpoint = "FederatedsList_V2.aspx/HandicapsLST"

	defaultPageSize = 100
)

// SessionExtra returns the extra bootstrap parameters a handicap-list
// session needs.
func SessionExtra() url.Values {
	return url.Values{"ccode": {"All"}}
}

// Client searches the handicap list through its JSON endpoint.
type Client struct {
	sessions session.Provider
	pageSize int
}

// NewClient creates a directory client drawing sessions from the provider.
func NewClient(sessions session.Provider) *Client {
	return &Client{sessions: sessions, pageSize: defaultPageSize}
}

// SearchByName implements Directory.
func (c *Client) SearchByName(name string) ([]Record, error) {
	return c.search(name, "")
}

// SearchByFedNo implements Directory.
func (c *Client) SearchByFedNo(fedno string) ([]Record, error) {
	return c.search("", fedno)
}

// searchPayload mirrors the jTable request the list page itself sends.
// Every filter is left at its match-everything default except the name or
// federation-number field, which are mutually exclusive.
type searchPayload struct {
	Name       string `json:"name"`
	FedNo      string `json:"fedno"`
	ClubCode   string `json:"ClubCode"`
	FedStat    string `json:"FedStat"`
	Gender     string `json:"Gender"`
	AgeLev     string `json:"Agelev"`
	HcpStat    string `json:"HcpStat"`
	FromHcp    string `json:"FHcp"`
	ToHcp      string `json:"THcp"`
	ProAm      string `json:"ProAm"`
	IniFlag    string `json:"IniFlag"`
	FromAge    string `json:"FAge"`
	ToAge      string `json:"TAge"`
	Permit     string `json:"Permit"`
	MaxResults string `json:"MaxResults"`
	MessMax    string `json:"MessMax"`
	StartIndex int    `json:"jtStartIndex"`
	PageSize   int    `json:"jtPageSize"`
	Sorting    string `json:"jtSorting"`
}

type searchEnvelope struct {
	D struct {
		Records []apiRecord `json:"Records"`
	} `json:"d"`
}

// apiRecord is the wire shape of one list entry. hcp_exact arrives as the
// index scaled by ten (104 means 10.4); null means no index at all.
type apiRecord struct {
	FederationCode flexString `json:"federation_code"`
	Name           string     `json:"name"`
	Acronym        string     `json:"acronym"`
	ClubCode       flexString `json:"club_code"`
	HcpExact       *float64   `json:"hcp_exact"`
	HcpStatus      string     `json:"hcp_status"`
	Gender         string     `json:"gender"`
	AgeLevel       string     `json:"age_level"`
}

func (r apiRecord) toRecord() Record {
	rec := Record{
		FedNo:    string(r.FederationCode),
		Name:     r.Name,
		Club:     r.Acronym,
		ClubCode: string(r.ClubCode),
		Status:   r.HcpStatus,
		Gender:   r.Gender,
		AgeGroup: r.AgeLevel,
	}
	if r.HcpExact != nil {
		index := *r.HcpExact / 10.0
		rec.HandicapIndex = &index
	}
	return rec
}

func (c *Client) search(name, fedno string) ([]Record, error) {
	sess, err := c.sessions.Get()
	if err != nil {
		return nil, err
	}

	payload := searchPayload{
		Name:     name,
		FedNo:    fedno,
		ClubCode: "All",
		FedStat:  "9",
		Gender:   "All",
		AgeLev:   "All",
		HcpStat:  "All",
		ProAm:    "All",
		IniFlag:  "0",
		// MaxResults "0" means unlimited on the server side; the page size
		// below is what actually bounds the result.
		MaxResults: "0",
		PageSize:   c.pageSize,
		Sorting:    "name ASC",
	}

	var envelope searchEnvelope
	if err := sess.PostJSON(searchEndpoint, ListPage, payload, &envelope); err != nil {
		c.sessions.Invalidate()
		return nil, fmt.Errorf("handicap search: %w", err)
	}

	records := make([]Record, 0, len(envelope.D.Records))
	for _, r := range envelope.D.Records {
		records = append(records, r.toRecord())
	}
	return records, nil
}

// flexString tolerates the site sending codes as either JSON strings or
// numbers, which it does inconsistently between list revisions.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}
