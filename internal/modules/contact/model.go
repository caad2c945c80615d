package contact

import "time"

// Message is one contact-form submission.
type Message struct {
	ID        string    `gorm:"primaryKey;type:char(36)"`
	Name      string    `gorm:"size:100;not null" validate:"required,max=100"`
	Email     string    `gorm:"size:255;not null" validate:"required,email,max=255"`
	Subject   string    `gorm:"size:200;not null" validate:"required,max=200"`
	Body      string    `gorm:"column:message;type:text;not null" validate:"required,max=5000"`
	ClientIP  string    `gorm:"size:64"`
	Notified  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;index:ix_contact_messages_created"`
}

func (Message) TableName() string { return "contact_messages" }
