package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification mirrors a document in the LMS "notifications" collection.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Recipient primitive.ObjectID `bson:"recipient" json:"recipient"`
	Message   string             `bson:"message" json:"message"`
	Type      string             `bson:"type" json:"type"`
	OnModel   string             `bson:"onModel,omitempty" json:"onModel,omitempty"` // collection RelatedID points into
	RelatedID primitive.ObjectID `bson:"relatedId,omitempty" json:"relatedId,omitempty"`
	IsRead    bool               `bson:"isRead" json:"isRead"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func (n *Notification) GetID() primitive.ObjectID   { return n.ID }
func (n *Notification) SetID(id primitive.ObjectID) { n.ID = id }
