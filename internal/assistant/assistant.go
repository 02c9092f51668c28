// Package assistant implements the scripted shopping assistant. It matches
// keyword intents against the prompt, answers from the live catalog, and
// keeps a per-user log of every exchange.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/tgshopai/tgshop-backend/internal/catalog"
	"github.com/tgshopai/tgshop-backend/pkg/db"
	"github.com/tgshopai/tgshop-backend/pkg/db/models"
	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
	"github.com/tgshopai/tgshop-backend/pkg/money"
)

const recommendationLimit = 3

var recommendKeywords = []string{"recommend", "suggest", "gift", "advise", "what to buy"}

var catalogKeywords = []string{"catalog", "catalogue", "assortment", "in stock", "what do you sell"}

const helpReply = "I can help you pick something from the shop. " +
	"Ask me for a recommendation, or send /catalog to browse everything we have."

// Service answers assistant prompts and records the exchange.
type Service struct {
	client  *db.Client
	catalog *catalog.Repository
}

// NewService wires the assistant to the store and the catalog.
func NewService(client *db.Client, catalogRepo *catalog.Repository) *Service {
	return &Service{client: client, catalog: catalogRepo}
}

// Reply resolves the prompt for a registered user, composes an answer, and
// persists the exchange. Unknown identities are rejected; the assistant never
// registers users on its own.
func (s *Service) Reply(ctx context.Context, externalID int64, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "prompt is empty")
	}

	var user models.User
	err := s.client.DB().WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&user).Error
	if err != nil {
		if db.IsNotFound(err) {
			return "", pkgerrors.NotFound("user")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assistant store unavailable")
	}

	reply, err := s.compose(ctx, prompt)
	if err != nil {
		return "", err
	}

	log := models.AssistantLog{UserID: user.ID, Prompt: prompt, Response: reply}
	if err := s.client.DB().WithContext(ctx).Create(&log).Error; err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assistant store unavailable")
	}
	return reply, nil
}

func (s *Service) compose(ctx context.Context, prompt string) (string, error) {
	lower := strings.ToLower(prompt)

	if matchesAny(lower, recommendKeywords) {
		return s.recommend(ctx)
	}
	if matchesAny(lower, catalogKeywords) {
		return "Take a look at the full catalog with /catalog.", nil
	}
	return helpReply, nil
}

func (s *Service) recommend(ctx context.Context) (string, error) {
	products, err := s.catalog.ListActive(ctx, recommendationLimit)
	if err != nil {
		return "", err
	}
	if len(products) == 0 {
		return "The shelves are empty right now. Check back a little later.", nil
	}

	var b strings.Builder
	b.WriteString("Here is what I would pick:\n")
	for _, product := range products {
		fmt.Fprintf(&b, "- %s for %s, order with /buy %s\n",
			product.Name, money.FormatMinor(product.PriceCents), product.SKU)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func matchesAny(lower string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
