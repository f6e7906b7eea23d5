package catalog

import "time"

type Image struct {
	ID          string `gorm:"column:id;primaryKey" json:"id"`
	ImageLink   string `gorm:"column:imagelink" json:"imagelink"`
	ContentID   string `gorm:"column:contentid;index" json:"contentid"`
	Default     string `gorm:"column:default" json:"default"`
	Description string `gorm:"column:description" json:"description"`
	ImageFile   string `gorm:"column:imagefile" json:"imagefile"`
	Name        string `gorm:"column:name" json:"name"`
	QuestionID  string `gorm:"column:questionid" json:"questionid"`
	ShowImage   string `gorm:"column:showimage" json:"showimage"`
	TopicID     string `gorm:"column:topicid" json:"topicid"`
}

func (Image) TableName() string { return "image" }

type Video struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	TopicID     string    `gorm:"column:topicid;index" json:"topicid"`
	ContentID   string    `gorm:"column:contentid;index" json:"contentid"`
	VideoLink   string    `gorm:"column:videolink" json:"videolink"`
	VideoUpload string    `gorm:"column:videoupload" json:"videoupload"`
	ShowVideo   string    `gorm:"column:showvideo" json:"showvideo"`
	VideoName   string    `gorm:"column:video_name" json:"video_name"`
	Description string    `gorm:"column:description" json:"description"`
	First       string    `gorm:"column:first" json:"first"`
	Second      string    `gorm:"column:second" json:"second"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Video) TableName() string { return "video" }
