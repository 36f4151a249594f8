package dto

import (
	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/sankey"
)

// SankeyNodeResponse is one node of the flow graph.
type SankeyNodeResponse struct {
	ID string `json:"id"`
}

// SankeyLinkResponse is one directed flow between two nodes.
type SankeyLinkResponse struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int64  `json:"value"`
}

// SankeyResponse is the aggregated money-flow graph.
type SankeyResponse struct {
	Nodes []SankeyNodeResponse `json:"nodes"`
	Links []SankeyLinkResponse `json:"links"`
}

// ToSankeyResponse converts a Graph to its response form.
func ToSankeyResponse(graph *sankey.Graph) SankeyResponse {
	nodes := make([]SankeyNodeResponse, len(graph.Nodes))
	for i, n := range graph.Nodes {
		nodes[i] = SankeyNodeResponse{ID: n.ID}
	}
	links := make([]SankeyLinkResponse, len(graph.Links))
	for i, l := range graph.Links {
		links[i] = SankeyLinkResponse{Source: l.Source, Target: l.Target, Value: l.Value}
	}
	return SankeyResponse{Nodes: nodes, Links: links}
}
