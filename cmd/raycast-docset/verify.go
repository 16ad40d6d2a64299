package main

import (
	"fmt"
	"path/filepath"

	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/ichoosetoaccept/raycast-docset/dash"
)

// Run executes the verify command.
func (c *VerifyCmd) Run(deps *Dependencies) error {
	validator := &dash.Validator{MinEntries: c.MinEntries}
	report, err := validator.Validate(deps.Ctx, c.Path)
	if err != nil {
		return err
	}

	for _, msg := range report.Errors {
		fmt.Fprintf(deps.Stdout, "error: %s\n", msg)
	}
	for _, msg := range report.Warnings {
		fmt.Fprintf(deps.Stdout, "warning: %s\n", msg)
	}
	fmt.Fprintf(deps.Stdout, "%d documents, %d index entries, %d anchors\n",
		report.Documents, report.Entries, report.Anchors)

	name := filepath.Base(c.Path)
	if !report.OK() {
		return docset.Errorf(docset.EINVALID, "%s failed validation with %d errors", name, len(report.Errors))
	}
	if c.Strict && len(report.Warnings) > 0 {
		return docset.Errorf(docset.EINVALID, "%s has %d warnings and --strict is set", name, len(report.Warnings))
	}

	fmt.Fprintln(deps.Stdout, "OK")
	return nil
}
