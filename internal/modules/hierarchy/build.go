package hierarchy

import (
	"strings"

	"github.com/yungbote/meraki-backend/internal/domain"
)

// DefaultMaxDepth bounds topic nesting when Options.MaxDepth is unset.
const DefaultMaxDepth = 32

type Options struct {
	// MaxDepth is the deepest topic level expanded. Level 0 is the roots.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

type builder struct {
	topicsByParent map[string][]domain.Topic
	contentByTopic map[string][]domain.Content
	contentByGroup map[string][]domain.Content
	ratings        Ratings
	maxDepth       int
	onPath         map[string]bool
}

// Build assembles the tree rooted at topics without a parent.
//
// Topic order follows the input order. Under each topic come its subtopics,
// then standalone content, then group cards. Content that names a group card
// of the same topic in contentgroup is listed only under that card. Topics
// with a blank name are dropped along with their subtree. A topic already on
// the current path is skipped, so cyclic parent references terminate.
func Build(topics []domain.Topic, content []domain.Content, ratings Ratings, opts Options) []*Node {
	b := &builder{
		topicsByParent: make(map[string][]domain.Topic),
		contentByTopic: make(map[string][]domain.Content),
		contentByGroup: make(map[string][]domain.Content),
		ratings:        ratings,
		maxDepth:       opts.maxDepth(),
		onPath:         make(map[string]bool),
	}
	for _, t := range topics {
		b.topicsByParent[t.Parent()] = append(b.topicsByParent[t.Parent()], t)
	}
	for _, c := range content {
		tid := strings.TrimSpace(c.TopicID)
		b.contentByTopic[tid] = append(b.contentByTopic[tid], c)
		if g := c.Group(); g != "" {
			b.contentByGroup[g] = append(b.contentByGroup[g], c)
		}
	}
	return b.topics("", 0)
}

func (b *builder) topics(parentID string, depth int) []*Node {
	out := []*Node{}
	if depth >= b.maxDepth {
		return out
	}
	for _, t := range b.topicsByParent[parentID] {
		id := strings.TrimSpace(t.ID)
		name := strings.TrimSpace(t.Topic)
		if name == "" || b.onPath[id] {
			continue
		}
		kind := KindTopic
		if !t.IsRoot() {
			kind = KindSubtopic
		}
		n := &Node{ID: id, Kind: kind, Title: name}
		b.ratings.attach(n)

		b.onPath[id] = true
		n.Children = b.topics(id, depth+1)
		delete(b.onPath, id)

		n.Children = append(n.Children, b.topicContent(id)...)
		out = append(out, n)
	}
	return out
}

// topicContent returns standalone content followed by group cards.
func (b *builder) topicContent(topicID string) []*Node {
	rows := b.contentByTopic[topicID]
	cards := make([]domain.Content, 0)
	cardIDs := make(map[string]bool)
	for _, c := range rows {
		if c.IsGroupCard() {
			cards = append(cards, c)
			cardIDs[c.ID] = true
		}
	}
	standalone := make([]domain.Content, 0, len(rows))
	for _, c := range rows {
		if c.IsGroupCard() {
			continue
		}
		if g := c.Group(); g != "" && cardIDs[g] {
			continue
		}
		standalone = append(standalone, c)
	}
	sortContent(standalone)
	sortContent(cards)

	out := make([]*Node, 0, len(standalone)+len(cards))
	for _, c := range standalone {
		out = append(out, b.leaf(c))
	}
	for _, card := range cards {
		n := &Node{ID: card.ID, Kind: KindGroupCard, Title: ContentTitle(card), Children: b.groupChildren(card.ID)}
		b.ratings.attach(n)
		out = append(out, n)
	}
	return out
}

// groupChildren lists every row whose contentgroup is cardID, from any topic.
// A card naming itself is not its own child.
func (b *builder) groupChildren(cardID string) []*Node {
	members := make([]domain.Content, 0, len(b.contentByGroup[cardID]))
	for _, c := range b.contentByGroup[cardID] {
		if c.ID == cardID {
			continue
		}
		members = append(members, c)
	}
	sortContent(members)
	out := make([]*Node, 0, len(members))
	for _, c := range members {
		out = append(out, b.leaf(c))
	}
	return out
}

func (b *builder) leaf(c domain.Content) *Node {
	n := &Node{ID: c.ID, Kind: KindContent, Title: ContentTitle(c), Children: []*Node{}}
	b.ratings.attach(n)
	return n
}
