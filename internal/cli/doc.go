// Package cli implements the tgf-handicap command: resolve players against
// the federation handicap list, pick a course from the rated-tee catalog and
// print the playing handicap table for every tee.
package cli
