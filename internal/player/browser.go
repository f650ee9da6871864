package player

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// ListPageURL is the public handicap-list page on the main site.
	ListPageURL = "https://www.tgf.org.tr/tr/handikap-listesi"

	nameInput    = "#insrhname"
	fednoInput   = "#insrhfedno"
	searchButton = "#btnSearch"

	// Results render asynchronously with no completion signal to wait on.
	resultSettle = 3 * time.Second

	browserTimeout = 90 * time.Second
)

// rowsJS pulls every result row's cell texts out of the jTable.
const rowsJS = `Array.from(document.querySelectorAll('.jtable tbody tr.jtable-data-row'))` +
	`.map(r => Array.from(r.querySelectorAll('td')).map(c => c.innerText.trim()))`

// Browser searches the public handicap list by driving a headless browser.
// It is the fallback for when the JSON endpoint's undocumented handshake
// breaks: the public page always works, just slowly.
type Browser struct {
	URL      string
	Timeout  time.Duration
	Headless bool
}

// NewBrowser returns a headless browser directory with default settings.
func NewBrowser() *Browser {
	return &Browser{URL: ListPageURL, Timeout: browserTimeout, Headless: true}
}

// SearchByName implements Directory.
func (b *Browser) SearchByName(name string) ([]Record, error) {
	return b.search(nameInput, name)
}

// SearchByFedNo implements Directory.
func (b *Browser) SearchByFedNo(fedno string) ([]Record, error) {
	return b.search(fednoInput, fedno)
}

func (b *Browser) search(inputSel, value string) ([]Record, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()
	ctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()
	ctx, cancelTimeout := context.WithTimeout(ctx, b.Timeout)
	defer cancelTimeout()

	// The search form lives in an embedded frame. Navigating straight to the
	// frame's source URL sidesteps cross-frame element targeting.
	var frameSrc string
	var found bool
	if err := chromedp.Run(ctx,
		chromedp.Navigate(b.URL),
		chromedp.WaitReady("iframe", chromedp.ByQuery),
		chromedp.AttributeValue("iframe", "src", &frameSrc, &found, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("loading handicap list page: %w", err)
	}
	if !found || frameSrc == "" {
		return nil, errors.New("handicap list page has no embedded frame")
	}

	var rows [][]string
	if err := chromedp.Run(ctx,
		chromedp.Navigate(frameSrc),
		chromedp.WaitVisible(inputSel, chromedp.ByQuery),
		chromedp.Clear(inputSel, chromedp.ByQuery),
		chromedp.SendKeys(inputSel, value, chromedp.ByQuery),
		chromedp.Click(searchButton, chromedp.ByQuery),
		chromedp.Sleep(resultSettle),
		chromedp.Evaluate(rowsJS, &rows),
	); err != nil {
		return nil, fmt.Errorf("scraping handicap results: %w", err)
	}

	return rowsToRecords(rows), nil
}

// rowsToRecords converts scraped table rows into Records. Rows with too few
// cells are skipped rather than failing the whole scrape.
func rowsToRecords(rows [][]string) []Record {
	records := make([]Record, 0, len(rows))
	for _, cells := range rows {
		if len(cells) < 8 {
			continue
		}
		club, code := splitClub(cells[2])
		records = append(records, Record{
			FedNo:         cells[0],
			Name:          cells[1],
			Club:          club,
			ClubCode:      code,
			HandicapIndex: parseIndex(cells[3]),
			Status:        cells[4],
			Gender:        cells[6],
			AgeGroup:      cells[7],
		})
	}
	return records
}

// splitClub separates "Club Name (code)" into its parts. Text without a
// trailing parenthesized code comes back whole with an empty code.
func splitClub(text string) (name, code string) {
	text = strings.TrimSpace(text)
	open := strings.LastIndex(text, "(")
	if open < 0 || !strings.HasSuffix(text, ")") {
		return text, ""
	}
	return strings.TrimSpace(text[:open]), strings.TrimSuffix(text[open+1:], ")")
}

// parseIndex reads the handicap cell; "-" and blank mean no index.
func parseIndex(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &v
}
