package player

import "fmt"

// Fallback is a Directory that tries a primary backend and degrades to a
// secondary one when the primary fails outright. With OnEmpty set it also
// retries an empty primary result, which hosted contexts want because the
// JSON endpoint sometimes answers an empty page instead of failing.
type Fallback struct {
	Primary   Directory
	Secondary Directory
	OnEmpty   bool
}

// SearchByName implements Directory.
func (f *Fallback) SearchByName(name string) ([]Record, error) {
	return f.search(
		func(d Directory) ([]Record, error) { return d.SearchByName(name) },
	)
}

// SearchByFedNo implements Directory.
func (f *Fallback) SearchByFedNo(fedno string) ([]Record, error) {
	return f.search(
		func(d Directory) ([]Record, error) { return d.SearchByFedNo(fedno) },
	)
}

func (f *Fallback) search(run func(Directory) ([]Record, error)) ([]Record, error) {
	records, err := run(f.Primary)
	if err != nil {
		fallback, ferr := run(f.Secondary)
		if ferr != nil {
			return nil, fmt.Errorf("primary search failed (%v), fallback: %w", err, ferr)
		}
		return fallback, nil
	}

	if len(records) == 0 && f.OnEmpty {
		// The primary answered but found nothing; a browser pass sometimes
		// still succeeds. Its failure must not mask the legitimate empty
		// result.
		if fallback, ferr := run(f.Secondary); ferr == nil {
			return fallback, nil
		}
	}
	return records, nil
}
