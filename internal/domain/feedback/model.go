package feedback

import "time"

// StatusApproved marks feedback that moderation has cleared for display.
const StatusApproved = "Approved"

// Feedback is a user review of the app. Only approved, five-star entries
// flagged for marketing ever reach the landing page.
type Feedback struct {
	ID                 uint   `gorm:"primaryKey"`
	UserID             *uint  `gorm:"index"`
	UserFirstName      string `gorm:"not null"`
	Message            string `gorm:"not null"`
	Rating             int    `gorm:"not null"`
	Status             string `gorm:"not null;default:'Inbox';index"`
	DisplayOnMarketing bool   `gorm:"not null;default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Testimonial is the published shape of a feedback entry.
type Testimonial struct {
	ID            uint   `json:"id"`
	Message       string `json:"message"`
	UserFirstName string `json:"userFirstName"`
	Rating        int    `json:"rating"`
}

// Displayable reports whether an entry carries everything the testimonial
// card needs.
func (f Feedback) Displayable() bool {
	return f.Message != "" && f.UserFirstName != "" && f.Rating >= 1 && f.Rating <= 5
}

// Testimonial converts the record to its published shape.
func (f Feedback) Testimonial() Testimonial {
	return Testimonial{
		ID:            f.ID,
		Message:       f.Message,
		UserFirstName: f.UserFirstName,
		Rating:        f.Rating,
	}
}
