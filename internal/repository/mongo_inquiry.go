package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vaishnavid04/Everwear/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type inquiryDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id,omitempty"`
	UserMessage string             `bson:"user_message"`
	BotResponse string             `bson:"bot_response"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d inquiryDoc) toDomain() domain.Inquiry {
	return domain.Inquiry{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		UserMessage: d.UserMessage,
		BotResponse: d.BotResponse,
		CreatedAt:   d.CreatedAt,
	}
}

type mongoInquiryRepository struct {
	collection *mongo.Collection
}

func NewMongoInquiryRepository(db *mongo.Database) InquiryRepository {
	return &mongoInquiryRepository{
		collection: db.Collection("inquiries"),
	}
}

func (m *mongoInquiryRepository) SaveInquiry(ctx context.Context, inquiry *domain.Inquiry) error {
	doc := inquiryDoc{
		OwnerID:     inquiry.OwnerID,
		UserMessage: inquiry.UserMessage,
		BotResponse: inquiry.BotResponse,
		CreatedAt:   time.Now(),
	}

	result, err := m.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to save inquiry: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		inquiry.ID = oid.Hex()
	}
	inquiry.CreatedAt = doc.CreatedAt
	return nil
}

func (m *mongoInquiryRepository) ListInquiries(ctx context.Context) ([]domain.Inquiry, error) {
	return m.list(ctx, bson.M{})
}

func (m *mongoInquiryRepository) ListInquiriesByOwner(ctx context.Context, ownerID string) ([]domain.Inquiry, error) {
	return m.list(ctx, bson.M{"owner_id": ownerID})
}

func (m *mongoInquiryRepository) list(ctx context.Context, filter bson.M) ([]domain.Inquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	var inquiries []domain.Inquiry
	for cursor.Next(ctx) {
		var doc inquiryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode inquiry: %w", err)
		}
		inquiries = append(inquiries, doc.toDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return inquiries, nil
}
