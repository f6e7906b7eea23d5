package catalog

import (
	"strings"

	"gorm.io/datatypes"
)

// PromptGroupCard marks a content row that aggregates other rows through
// their contentgroup column.
const PromptGroupCard = "groupcard"

type Content struct {
	ID                    string                      `gorm:"column:id;primaryKey" json:"id"`
	TopicID               string                      `gorm:"column:topicid;index" json:"topicid"`
	ImageID               string                      `gorm:"column:imageid" json:"imageid"`
	VideoID               string                      `gorm:"column:videoid" json:"videoid"`
	VideoID2              string                      `gorm:"column:videoid2" json:"videoid2"`
	ChallengeSubject      datatypes.JSONSlice[string] `gorm:"column:challengesubject" json:"challengesubject"`
	ParentID              string                      `gorm:"column:parentid" json:"parentid"`
	Prompt                string                      `gorm:"column:prompt" json:"prompt"`
	Information           string                      `gorm:"column:information" json:"information"`
	Title                 string                      `gorm:"column:title;not null" json:"title"`
	ShortBlurb            string                      `gorm:"column:short_blurb" json:"short_blurb"`
	SecondShortBlurb      string                      `gorm:"column:second_short_blurb" json:"second_short_blurb"`
	Translation           string                      `gorm:"column:translation" json:"translation"`
	Vocabulary            string                      `gorm:"column:vocabulary" json:"vocabulary"`
	ShowTranslation       string                      `gorm:"column:showtranslation" json:"showtranslation"`
	ShowStudent           string                      `gorm:"column:showstudent" json:"showstudent"`
	Order                 string                      `gorm:"column:order" json:"order"`
	ContentGroup          string                      `gorm:"column:contentgroup;index" json:"contentgroup"`
	TypeOfTaking          string                      `gorm:"column:typeoftaking" json:"typeoftaking"`
	ShortDescription      string                      `gorm:"column:short_description" json:"short_description"`
	URL                   string                      `gorm:"column:url" json:"url"`
	Header                string                      `gorm:"column:header" json:"header"`
	ImageLink             string                      `gorm:"column:imagelink" json:"imagelink"`
	TranslationDictionary datatypes.JSON              `gorm:"column:translation_dictionary" json:"translation_dictionary"`
}

func (Content) TableName() string { return "content" }

func (c Content) IsGroupCard() bool {
	return strings.EqualFold(strings.TrimSpace(c.Prompt), PromptGroupCard)
}

// Group returns the trimmed group card id this row belongs to, or "".
func (c Content) Group() string {
	return strings.TrimSpace(c.ContentGroup)
}

// ContentPatch is the set of content columns editors may change in place.
type ContentPatch struct {
	ShortDescription *string `json:"short_description"`
	ShortBlurb       *string `json:"short_blurb"`
	ImageID          *string `json:"imageid"`
	VideoID          *string `json:"videoid"`
	VideoID2         *string `json:"videoid2"`
}

// Columns returns the non-nil fields keyed by column name.
func (p ContentPatch) Columns() map[string]interface{} {
	out := map[string]interface{}{}
	if p.ShortDescription != nil {
		out["short_description"] = *p.ShortDescription
	}
	if p.ShortBlurb != nil {
		out["short_blurb"] = *p.ShortBlurb
	}
	if p.ImageID != nil {
		out["imageid"] = *p.ImageID
	}
	if p.VideoID != nil {
		out["videoid"] = *p.VideoID
	}
	if p.VideoID2 != nil {
		out["videoid2"] = *p.VideoID2
	}
	return out
}

// ContentGroupSummary is one row of the content group listing.
type ContentGroupSummary struct {
	ContentGroup string `json:"contentgroup"`
	URL          string `json:"url"`
	ContentCount int64  `json:"content_count"`
}

// ContentGroupBucket is one group of a topic's content split.
type ContentGroupBucket struct {
	GroupName string     `json:"groupName"`
	Content   []*Content `json:"content"`
	Count     int        `json:"count"`
}

// TopicContentSplit partitions a topic's content by contentgroup.
type TopicContentSplit struct {
	Groups           []ContentGroupBucket `json:"groups"`
	UngroupedContent []*Content           `json:"ungroupedContent"`
}

// SplitByGroup buckets rows by trimmed contentgroup in first-seen order.
// Rows without a group go to UngroupedContent.
func SplitByGroup(rows []*Content) TopicContentSplit {
	out := TopicContentSplit{Groups: []ContentGroupBucket{}, UngroupedContent: []*Content{}}
	index := map[string]int{}
	for _, c := range rows {
		if c == nil {
			continue
		}
		g := c.Group()
		if g == "" {
			out.UngroupedContent = append(out.UngroupedContent, c)
			continue
		}
		i, ok := index[g]
		if !ok {
			i = len(out.Groups)
			index[g] = i
			out.Groups = append(out.Groups, ContentGroupBucket{GroupName: g, Content: []*Content{}})
		}
		out.Groups[i].Content = append(out.Groups[i].Content, c)
		out.Groups[i].Count++
	}
	return out
}
