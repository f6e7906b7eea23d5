package legacyimport

import (
	"errors"

	"gorm.io/datatypes"

	types "github.com/yungbote/meraki-backend/internal/domain"
)

var errMissingID = errors.New("row has no id")

type converter func(r Row) (any, error)

var converters = map[string]converter{
	"users":     convertUser,
	"topics":    convertTopic,
	"content":   convertContent,
	"images":    convertImage,
	"videos":    convertVideo,
	"questions": convertQuestion,
	"matching":  convertMatching,
}

func requireID(r Row) (string, error) {
	id := r.String("id")
	if id == "" {
		return "", errMissingID
	}
	return id, nil
}

func convertUser(r Row) (any, error) {
	id, err := requireID(r)
	if err != nil {
		return nil, err
	}
	return &types.User{
		ID:          id,
		FirstName:   r.String("first_name"),
		LastName:    r.String("last_name"),
		FullName:    r.String("full_name"),
		Email:       r.String("email"),
		MerakiEmail: r.String("meraki_email"),
	}, nil
}

func convertTopic(r Row) (any, error) {
	id, err := requireID(r)
	if err != nil {
		return nil, err
	}
	return &types.Topic{
		ID:               id,
		Topic:            r.String("topic"),
		ShortSummary:     r.String("short_summary"),
		ChallengeSubject: r.String("challengesubject"),
		Image:            r.String("image"),
		ParentID:         r.OptString("parentid"),
		ShowStudent:      r.Bool("showstudent"),
	}, nil
}

func convertContent(r Row) (any, error) {
	id, err := requireID(r)
	if err != nil {
		return nil, err
	}
	title := r.String("title")
	if title == "" {
		title = id
	}
	return &types.Content{
		ID:                    id,
		TopicID:               r.String("topicid"),
		ImageID:               r.String("imageid"),
		VideoID:               r.String("videoid"),
		VideoID2:              r.String("videoid2"),
		ChallengeSubject:      datatypes.JSONSlice[string](r.List("challengesubject")),
		ParentID:              r.String("parentid"),
		Prompt:                r.String("prompt"),
		Information:           r.String("information"),
		Title:                 title,
		ShortBlurb:            r.String("short_blurb"),
		SecondShortBlurb:      r.String("second_short_blurb"),
		Translation:           r.String("translation"),
		Vocabulary:            r.String("vocabulary"),
		ShowTranslation:       r.String("showtranslation"),
		ShowStudent:           r.String("showstudent"),
		Order:                 r.String("order"),
		ContentGroup:          r.String("contentgroup"),
		TypeOfTaking:          r.String("typeoftaking"),
		ShortDescription:      r.String("short_description"),
		URL:                   r.String("url"),
		Header:                r.String("header"),
		ImageLink:             r.String("imagelink"),
		TranslationDictionary: datatypes.JSON(r.JSON("translation_dictionary")),
	}, nil
}

func convertImage(r Row) (any, error) {
	id, err := requireID(r)
	if err != nil {
		return nil, err
	}
	return &types.Image{
		ID:          id,
		ImageLink:   r.String("imagelink"),
		ContentID:   r.String("contentid"),
		Default:     r.String("default"),
		Description: r.String("description"),
		ImageFile:   r.String("imagefile"),
		Name:        r.String("name"),
		QuestionID:  r.String("questionid"),
		ShowImage:   r.String("showimage"),
		TopicID:     r.String("topicid"),
	}, nil
}

func convertVideo(r Row) (any, error) {
	id, err := requireID(r)
	if err != nil {
		return nil, err
	}
	v := &types.Video{
		ID:          id,
		TopicID:     r.String("topicid"),
		ContentID:   r.String("contentid"),
		VideoLink:   r.String("videolink"),
		VideoUpload: r.String("videoupload"),
		ShowVideo:   r.String("showvideo"),
		VideoName:   r.String("video_name"),
		Description: r.String("description"),
		First:       r.String("first"),
		Second:      r.String("second"),
	}
	if t, ok := r.Time("created_at"); ok {
		v.CreatedAt = t
	}
	return v, nil
}

// convertQuestion folds the four legacy answer columns into Choices.
func convertQuestion(r Row) (any, error) {
	id, err := requireID(r)
	if err != nil {
		return nil, err
	}
	return &types.Question{
		ID:            id,
		Topic:         r.String("topic"),
		RandomOrder:   r.String("randomorder"),
		QuestionLevel: r.String("questionlevel"),
		ContentID:     r.String("contentid"),
		QuestionType:  r.String("question_type"),
		Text:          r.String("noi_dung"),
		Video:         r.String("video"),
		Picture:       r.String("picture"),
		Choices:       datatypes.JSONSlice[string](r.Slots("cau_tra_loi_", 4)),
		CorrectChoice: r.String("correct_choice"),
		WritingChoice: r.String("writing_choice"),
		Time:          r.String("time"),
		Explanation:   r.String("explanation"),
		QuestionOrder: r.String("questionorder"),
		Answer:        r.String("answer"),
	}, nil
}

// convertMatching folds prompt1..6 and choice1..6 into position-aligned lists.
func convertMatching(r Row) (any, error) {
	id, err := requireID(r)
	if err != nil {
		return nil, err
	}
	m := &types.Matching{
		ID:          id,
		Type:        r.String("type"),
		Subject:     r.String("subject"),
		Topic:       r.String("topic"),
		Description: r.String("description"),
		TopicID:     r.String("topicid"),
		Prompts:     datatypes.JSONSlice[string](r.Slots("prompt", types.MaxMatchingPairs)),
		Choices:     datatypes.JSONSlice[string](r.Slots("choice", types.MaxMatchingPairs)),
	}
	if t, ok := r.Time("created_at"); ok {
		m.CreatedAt = t
	}
	return m, nil
}
