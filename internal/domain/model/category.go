package model

type Category struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}
