// Package bot routes chat commands to the core services. The router is
// transport agnostic: cmd/bot feeds it Telegram updates, tests feed it plain
// messages, and any other chat surface could do the same.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tgshopai/tgshop-backend/internal/assistant"
	"github.com/tgshopai/tgshop-backend/internal/catalog"
	"github.com/tgshopai/tgshop-backend/internal/orders"
	"github.com/tgshopai/tgshop-backend/internal/users"
	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
	"github.com/tgshopai/tgshop-backend/pkg/logger"
	"github.com/tgshopai/tgshop-backend/pkg/money"
)

const historyLimit = 10

// Message is one inbound chat message, already stripped of transport detail.
type Message struct {
	ExternalID  int64
	DisplayName string
	Text        string
}

// Router dispatches messages to the core and renders replies as plain text.
type Router struct {
	users     *users.Repository
	catalog   *catalog.Repository
	orders    *orders.Repository
	assistant *assistant.Service
	log       *logger.Logger
}

// NewRouter builds a router over the core services.
func NewRouter(usersRepo *users.Repository, catalogRepo *catalog.Repository, ordersRepo *orders.Repository, assistantService *assistant.Service, log *logger.Logger) *Router {
	return &Router{
		users:     usersRepo,
		catalog:   catalogRepo,
		orders:    ordersRepo,
		assistant: assistantService,
		log:       log,
	}
}

// Handle processes one message and returns the reply text. It never returns
// an error to the transport: core failures are translated into user-facing
// text here, since the core itself never formats prose.
func (r *Router) Handle(ctx context.Context, msg Message) string {
	ctx = r.log.WithExternalID(ctx, msg.ExternalID)

	text := strings.TrimSpace(msg.Text)
	command, args := splitCommand(text)

	switch command {
	case "/start":
		return r.handleStart(ctx, msg)
	case "/catalog":
		return r.handleCatalog(ctx)
	case "/buy":
		return r.handleBuy(ctx, msg.ExternalID, args)
	case "/myorders":
		return r.handleMyOrders(ctx, msg.ExternalID)
	case "/ai":
		return r.handleAssistant(ctx, msg.ExternalID, args)
	default:
		if text == "" {
			return "Send /start to begin, or /catalog to browse the shop."
		}
		return "You said: " + text
	}
}

func (r *Router) handleStart(ctx context.Context, msg Message) string {
	user, err := r.users.Upsert(ctx, msg.ExternalID, msg.DisplayName)
	if err != nil {
		r.log.Error(ctx, "start failed", err)
		return r.renderError(err)
	}

	name := "there"
	if user.DisplayName != nil && *user.DisplayName != "" {
		name = *user.DisplayName
	}
	return fmt.Sprintf("Hi %s! Welcome to the shop. "+
		"Browse with /catalog, order with /buy <SKU>, or ask me anything with /ai.", name)
}

func (r *Router) handleCatalog(ctx context.Context) string {
	products, err := r.catalog.ListActive(ctx, 0)
	if err != nil {
		r.log.Error(ctx, "catalog listing failed", err)
		return r.renderError(err)
	}
	if len(products) == 0 {
		return "The catalog is empty right now."
	}

	var b strings.Builder
	b.WriteString("Our catalog:\n")
	for _, product := range products {
		fmt.Fprintf(&b, "%s %s for %s, order with /buy %s\n",
			product.SKU, product.Name, money.FormatMinor(product.PriceCents), product.SKU)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Router) handleBuy(ctx context.Context, externalID int64, args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "Usage: /buy <SKU> [qty]"
	}

	sku := fields[0]
	qty := 1
	if len(fields) > 1 {
		parsed, err := strconv.Atoi(fields[1])
		if err != nil {
			return "Usage: /buy <SKU> [qty]"
		}
		qty = parsed
	}

	order, err := r.orders.CreateOrder(ctx, externalID, sku, qty)
	if err != nil {
		r.log.Error(r.log.WithField(ctx, "sku", sku), "order failed", err)
		return r.renderError(err)
	}

	line := order.Lines[0]
	return fmt.Sprintf("Order #%d placed: %d x %s for %s total.",
		order.ID, line.Qty, sku, money.FormatMinor(order.TotalCents))
}

func (r *Router) handleMyOrders(ctx context.Context, externalID int64) string {
	list, err := r.orders.ListByExternalID(ctx, externalID, historyLimit)
	if err != nil {
		r.log.Error(ctx, "order history failed", err)
		return r.renderError(err)
	}
	if len(list) == 0 {
		return "You have no orders yet. Try /catalog to find something."
	}

	var b strings.Builder
	b.WriteString("Your orders:\n")
	for _, order := range list {
		fmt.Fprintf(&b, "#%d (%s) for %s\n",
			order.ID, order.Status, money.FormatMinor(order.TotalCents))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Router) handleAssistant(ctx context.Context, externalID int64, prompt string) string {
	reply, err := r.assistant.Reply(ctx, externalID, prompt)
	if err != nil {
		r.log.Error(ctx, "assistant failed", err)
		return r.renderError(err)
	}
	return reply
}

func (r *Router) renderError(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "Something went wrong. Please try again."
	}
	switch typed.Code() {
	case pkgerrors.CodeNotFound:
		if pkgerrors.IsNotFound(err, "user") {
			return "I don't know you yet. Send /start first."
		}
		if pkgerrors.IsNotFound(err, "product") {
			return "I couldn't find that product. Check /catalog for what we have."
		}
		return "I couldn't find that. Check /catalog for what we have."
	case pkgerrors.CodeValidation:
		return typed.Message()
	case pkgerrors.CodeDependency:
		return "The shop is briefly unavailable. Please try again in a minute."
	default:
		return "Something went wrong. Please try again."
	}
}

func splitCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	command, args, _ := strings.Cut(text, " ")
	// Telegram suffixes commands with the bot name in group chats.
	if at := strings.Index(command, "@"); at != -1 {
		command = command[:at]
	}
	return strings.ToLower(command), strings.TrimSpace(args)
}
