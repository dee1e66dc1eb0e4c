package domain

// Article is the slice of the CMS-owned articles table this service reads
type Article struct {
	BaseModel
	Slug            string `gorm:"type:varchar(255);uniqueIndex" json:"slug"`
	Title           string `gorm:"type:varchar(255)" json:"title"`
	CommentsEnabled bool   `gorm:"not null;default:true" json:"commentsEnabled"`
}

// TableName specifies the table name for Article
func (Article) TableName() string {
	return "articles"
}
