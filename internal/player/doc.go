// Package player looks up registered players on the TGF handicap list.
//
// Two backends implement the same Directory interface: Client talks to the
// list's JSON endpoint through an authenticated session, and Browser drives
// the public search page with a headless browser when the JSON path is
// broken. Both normalize results into the same Record shape. A per-day
// QueryCache spares the flaky upstream from repeated identical lookups.
package player
