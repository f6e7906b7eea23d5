package hierarchy

import "github.com/yungbote/meraki-backend/internal/domain"

type Stats struct {
	Topics     int                   `json:"topics"`
	Subtopics  int                   `json:"subtopics"`
	GroupCards int                   `json:"groupcards"`
	Content    int                   `json:"content"`
	ByRating   map[domain.Rating]int `json:"by_rating"`
}

// Count tallies nodes per kind and rated nodes per rating over the whole forest.
func Count(nodes []*Node) Stats {
	s := Stats{ByRating: map[domain.Rating]int{}}
	var walk func([]*Node)
	walk = func(ns []*Node) {
		for _, n := range ns {
			if n == nil {
				continue
			}
			switch n.Kind {
			case KindTopic:
				s.Topics++
			case KindSubtopic:
				s.Subtopics++
			case KindGroupCard:
				s.GroupCards++
			case KindContent:
				s.Content++
			}
			if n.Rating != nil {
				s.ByRating[*n.Rating]++
			}
			walk(n.Children)
		}
	}
	walk(nodes)
	return s
}
