// Package system provides the wall clock used to time scrape runs.
package system

import "time"

// Clock implements scrape.Clock. Times are reported in UTC so run logs line
// up across hosts.
type Clock struct{}

// New creates a Clock.
func New() *Clock { return &Clock{} }

// Now returns the current UTC time.
func (Clock) Now() time.Time { return time.Now().UTC() }
