package domain

import "time"

// Inquiry is one chatbot exchange. OwnerID is empty for anonymous
// visitors.
type Inquiry struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	OwnerID     string    `bson:"owner_id,omitempty" json:"ownerId,omitempty"`
	UserMessage string    `bson:"user_message" json:"userMessage"`
	BotResponse string    `bson:"bot_response" json:"botResponse"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}
