package service

import (
	"context"
	"log"
	"strings"

	"github.com/vaishnavid04/Everwear/internal/domain"
	"github.com/vaishnavid04/Everwear/internal/repository"
)

// faqRule is one scripted answer: the first rule whose keyword appears
// in the lowercased message wins.
type faqRule struct {
	keywords []string
	response string
}

var faqRules = []faqRule{
	{
		keywords: []string{"size", "sizing", "fit"},
		response: "Our sizing runs true to size. We offer XS, S, M, L, and XL. For the best fit, we recommend checking our size guide. Most customers find their usual size works perfectly!",
	},
	{
		keywords: []string{"ship", "delivery"},
		response: "Standard delivery takes 3-5 business days, and shipping is free on orders over $100. Below that a flat $10 fee applies at checkout.",
	},
	{
		keywords: []string{"return", "exchange", "refund"},
		response: "We have a 30-day return policy. Items must be unworn with tags attached. Returns are free and easy - just use our prepaid return label.",
	},
	{
		keywords: []string{"order", "track"},
		response: "You can see every order and its status on your order history page once you're signed in. Orders move from pending to shipped to delivered.",
	},
	{
		keywords: []string{"help", "what can you"},
		response: "I can help you with: sizing questions, shipping info, product details, returns, and finding the perfect essentials for your wardrobe. What would you like to know?",
	},
}

const faqFallback = "I'd be happy to help! I can answer questions about sizing, shipping, our products, or help you choose the right essentials. You can also contact our support team for more detailed assistance."

type ChatService struct {
	inquiries repository.InquiryRepository
}

func NewChatService(inquiries repository.InquiryRepository) *ChatService {
	return &ChatService{inquiries: inquiries}
}

// Reply produces the scripted answer and logs the exchange. A failure
// to save the inquiry never interrupts the chat flow.
func (s *ChatService) Reply(ctx context.Context, ownerID, message string) (domain.Inquiry, error) {
	response := respond(message)

	inquiry := domain.Inquiry{
		OwnerID:     ownerID,
		UserMessage: message,
		BotResponse: response,
	}

	if err := s.inquiries.SaveInquiry(ctx, &inquiry); err != nil {
		log.Printf("save inquiry error: %v", err)
	}

	return inquiry, nil
}

func (s *ChatService) ListInquiries(ctx context.Context) ([]domain.Inquiry, error) {
	return s.inquiries.ListInquiries(ctx)
}

func (s *ChatService) ListInquiriesByOwner(ctx context.Context, ownerID string) ([]domain.Inquiry, error) {
	return s.inquiries.ListInquiriesByOwner(ctx, ownerID)
}

const faqGreeting = "Hi there! I'm here to help you find the perfect essentials. I can answer questions about sizing, shipping, our products, or help you choose the right pieces for your style!"

func respond(message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))
	if strings.HasPrefix(lower, "hi") || strings.HasPrefix(lower, "hello") || strings.HasPrefix(lower, "hey") {
		return faqGreeting
	}
	for _, rule := range faqRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.response
			}
		}
	}
	return faqFallback
}
