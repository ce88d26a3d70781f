package search

import (
	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/retrieval"
	"github.com/poiesic/propmatch/scoring"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterInterpretation(criteria core.SearchCriteria)
	AfterRetrieval(candidates []retrieval.Candidate)
	Excluded(profile *core.PropertyProfile, reason scoring.Exclusion)
	Scored(profile *core.PropertyProfile, score scoring.Score)
	Finish(outcome *core.SearchOutcome)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                        {}
func (n *noopMonitor) AfterInterpretation(_ core.SearchCriteria)             {}
func (n *noopMonitor) AfterRetrieval(_ []retrieval.Candidate)                {}
func (n *noopMonitor) Excluded(_ *core.PropertyProfile, _ scoring.Exclusion) {}
func (n *noopMonitor) Scored(_ *core.PropertyProfile, _ scoring.Score)       {}
func (n *noopMonitor) Finish(_ *core.SearchOutcome)                          {}
