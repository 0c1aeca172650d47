package search

import "github.com/poiesic/textrag/index"

// SearchMonitor provides hooks to observe the question-answering process.
// Implement this interface to track intermediate steps during retrieval.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEmbedding(dimension int)
	AfterIndexQuery(matches []index.Match)
	AfterContextAssembly(context string)
	Finish(answer string)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                  {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)       {}
func (n *noopMonitor) AfterIndexQuery(_ []index.Match) {}
func (n *noopMonitor) AfterContextAssembly(_ string)   {}
func (n *noopMonitor) Finish(_ string)                 {}
