// Package hierarchy turns the flat topic and content tables into the nested
// tree students browse: topic, subtopic, group card, content.
//
// Everything here is pure. Inputs are never mutated and the same inputs
// always produce the same tree.
package hierarchy

import (
	"github.com/yungbote/meraki-backend/internal/domain"
)

// Kind tags a node with the row it was built from.
type Kind string

const (
	KindTopic     Kind = "topic"
	KindSubtopic  Kind = "subtopic"
	KindGroupCard Kind = "groupcard"
	KindContent   Kind = "content"
)

// UntitledTitle is shown when a content row has neither title nor short description.
const UntitledTitle = "Untitled"

// Node is one entry of the tree. Children is never nil.
type Node struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"type"`
	Title     string         `json:"title"`
	Rating    *domain.Rating `json:"rating"`
	ViewCount int            `json:"view_count"`
	Children  []*Node        `json:"children"`
}

// RatingInfo is the per-content rating state attached to nodes.
type RatingInfo struct {
	Rating    domain.Rating
	ViewCount int
}

// Ratings maps content id to the student's rating of it.
type Ratings map[string]RatingInfo

// RatingsFrom indexes rating rows by content id. Later rows win on duplicates.
func RatingsFrom(rows []*domain.ContentRating) Ratings {
	out := make(Ratings, len(rows))
	for _, r := range rows {
		if r == nil || r.ContentID == "" {
			continue
		}
		out[r.ContentID] = RatingInfo{Rating: r.Rating, ViewCount: r.ViewCount}
	}
	return out
}

func (r Ratings) attach(n *Node) {
	info, ok := r[n.ID]
	if !ok {
		return
	}
	rating := info.Rating
	n.Rating = &rating
	n.ViewCount = info.ViewCount
}

// Clone deep-copies a forest.
func Clone(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		out = append(out, n.shallowWith(Clone(n.Children)))
	}
	return out
}

func (n *Node) shallowWith(children []*Node) *Node {
	cp := *n
	if n.Rating != nil {
		r := *n.Rating
		cp.Rating = &r
	}
	cp.Children = children
	return &cp
}
