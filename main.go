// The main package for the resume-link-scraper executable.
package main

import (
	"github.com/JakeFAU/resume-link-scraper/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
