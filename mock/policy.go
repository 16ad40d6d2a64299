package mock

import "github.com/ichoosetoaccept/raycast-docset"

var _ docset.FetchPolicy = (*FetchPolicy)(nil)

// FetchPolicy is a mock implementation of docset.FetchPolicy.
type FetchPolicy struct {
	AllowFn func(url string) bool
}

func (p *FetchPolicy) Allow(url string) bool {
	return p.AllowFn(url)
}
