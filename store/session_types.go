package store

import (
	"time"

	"github.com/google/uuid"
)

// CreatorType identifies who authored a moodboard.
type CreatorType string

const (
	// CreatorWizard marks a moodboard curated by the human operator.
	CreatorWizard CreatorType = "wizard"
	// CreatorAI marks a moodboard synthesized by the generation layer.
	CreatorAI CreatorType = "ai"
)

// Session is the sole persisted entity: the complete shared state
// between one end-user flow and one wizard operator. The stored
// document is always the whole session; there are no partial updates.
type Session struct {
	ID              string            `json:"id"`
	CustomerProfile *string           `json:"customerProfile"`
	Questionnaire   map[string]string `json:"questionnaire"`
	Recommendations []Recommendation  `json:"recommendations"`
	Feedback        []Message         `json:"feedback"`
	Moodboards      []Moodboard       `json:"moodboards"`
	// Timestamp is the creation time in Unix milliseconds, set once.
	Timestamp int64 `json:"timestamp"`
}

// Recommendation is a single suggested design item with rationale and
// an optional illustrative image set after creation.
type Recommendation struct {
	ID          string `json:"id"`
	Item        string `json:"item"`
	Explanation string `json:"explanation"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Message is one feedback chat entry. FromUser is true for end-user
// authored messages and false for wizard authored ones.
type Message struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	FromUser  bool   `json:"fromUser"`
	Timestamp int64  `json:"timestamp"`
}

// Moodboard is a curated set of 1-4 images with a description
// representing a design direction.
type Moodboard struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Images      []string    `json:"images"`
	CreatedBy   CreatorType `json:"createdBy"`
}

// NewMessage builds a feedback entry with a fresh id and timestamp.
func NewMessage(content string, fromUser bool) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		FromUser:  fromUser,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewRecommendation builds a recommendation entry with a fresh id.
func NewRecommendation(item, explanation string) Recommendation {
	return Recommendation{
		ID:          uuid.NewString(),
		Item:        item,
		Explanation: explanation,
	}
}

// NewMoodboard builds a moodboard entry with a fresh id.
func NewMoodboard(title, description string, images []string, createdBy CreatorType) Moodboard {
	return Moodboard{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Images:      images,
		CreatedBy:   createdBy,
	}
}
