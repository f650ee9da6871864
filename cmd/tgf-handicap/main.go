package main

import "github.com/bkoksal/tgf-handicap/internal/cli"

func main() {
	cli.Execute()
}
