package main

import (
	"fmt"

	"github.com/ichoosetoaccept/raycast-docset"
)

// Run executes the preview command.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	urls, err := deps.Source.DiscoverURLs(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}

	for _, u := range urls {
		fmt.Fprintln(deps.Stdout, u)
	}

	return nil
}
