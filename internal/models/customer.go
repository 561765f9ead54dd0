package models

type Customer struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string `gorm:"not null;index" json:"name"`
	Email    string `gorm:"not null" json:"email"`
	ImageURL string `gorm:"column:image_url" json:"image_url"`
}
