package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/models"
)

// Headers the identity provider signs each delivery with.
const (
	HeaderWebhookID        = "svix-id"
	HeaderWebhookTimestamp = "svix-timestamp"
	HeaderWebhookSignature = "svix-signature"
)

const maxWebhookBody = 1 << 20

// UserResolver creates or updates the local user for an identity.
type UserResolver interface {
	Resolve(ctx context.Context, id auth.Identity) (*models.User, error)
}

// userEvent is the subset of the identity provider's user event we read.
type userEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		Username       string `json:"username"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

func (e *userEvent) identity() auth.Identity {
	id := auth.Identity{
		Subject:   e.Data.ID,
		FirstName: e.Data.FirstName,
		LastName:  e.Data.LastName,
		Username:  e.Data.Username,
	}
	if len(e.Data.EmailAddresses) > 0 {
		id.Email = e.Data.EmailAddresses[0].EmailAddress
	}
	return id
}

// WebhookHandler syncs users from identity provider events so they show up
// with current names before their first API call.
type WebhookHandler struct {
	wh       *svix.Webhook
	resolver UserResolver
}

// NewWebhookHandler verifies deliveries with secret, the provider's
// "whsec_" signing secret.
func NewWebhookHandler(secret string, resolver UserResolver) (*WebhookHandler, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook secret: %w", err)
	}
	return &WebhookHandler{wh: wh, resolver: resolver}, nil
}

func (h *WebhookHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/webhooks/identity", h.HandleIdentity)
}

// HandleIdentity handles user.created and user.updated events. Other event
// types are acknowledged and ignored.
func (h *WebhookHandler) HandleIdentity(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	for _, header := range []string{HeaderWebhookID, HeaderWebhookTimestamp, HeaderWebhookSignature} {
		if c.GetHeader(header) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing signature headers"})
			return
		}
	}
	// Verify also rejects timestamps outside the replay window
	if err := h.wh.Verify(body, c.Request.Header); err != nil {
		slog.Warn("Webhook signature rejected", "remote_addr", c.ClientIP(), "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var event userEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	slog.Info("Webhook received", "type", event.Type)

	switch event.Type {
	case "user.created", "user.updated":
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if event.Data.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user id"})
		return
	}
	user, err := h.resolver.Resolve(c.Request.Context(), event.identity())
	if err != nil {
		slog.Error("Failed to sync user from webhook", "external_ref", event.Data.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sync user"})
		return
	}

	slog.Info("User synced from webhook", "user_id", user.ID, "display_name", user.DisplayName)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "user_id": user.ID})
}
