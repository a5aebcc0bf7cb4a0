package webhookconfig

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"signalhook/src/model"
	"signalhook/src/repository"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
)

var ErrConfigNotFound = errors.New("webhook configuration not found")

type CreateInput struct {
	Name        string
	Token       string
	Description string
	BaseURL     string
}

// Manager administers webhook configurations on a SQL backend.
type Manager struct {
	Log  *logger.Entry
	Repo *repository.WebhookConfigRepository
	Out  io.Writer
	// NewID is replaceable in tests.
	NewID func() string
}

func (m *Manager) newID() string {
	if m.NewID != nil {
		return m.NewID()
	}
	return uuid.NewString()
}

// ValidateToken checks the token length in characters, not bytes.
func ValidateToken(token string) error {
	n := utf8.RuneCountInString(token)
	if n < model.MinSecurityTokenLength || n > model.MaxSecurityTokenLength {
		return fmt.Errorf("security token must be between %d and %d characters",
			model.MinSecurityTokenLength, model.MaxSecurityTokenLength)
	}
	return nil
}

func (m *Manager) Create(ctx context.Context, in CreateInput) (*model.WebhookConfig, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	if err := ValidateToken(in.Token); err != nil {
		return nil, err
	}

	id := m.newID()
	config := &model.WebhookConfig{
		ID:                      id,
		Name:                    name,
		Description:             in.Description,
		WebhookURL:              strings.TrimRight(in.BaseURL, "/") + "/" + id,
		SecurityToken:           in.Token,
		NotificationPreferences: model.DefaultNotificationPreferences(),
		IsActive:                true,
	}

	if err := m.Repo.Create(ctx, config); err != nil {
		return nil, fmt.Errorf("create webhook config: %w", err)
	}

	m.Log.WithField("config_id", id).Info("webhook configuration created")
	_, _ = fmt.Fprintf(m.Out, "id:  %s\nurl: %s\n", config.ID, config.WebhookURL)
	return config, nil
}

// List prints every configuration. Tokens are never printed.
func (m *Manager) List(ctx context.Context) error {
	configs, err := m.Repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list webhook configs: %w", err)
	}

	tw := tabwriter.NewWriter(m.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tACTIVE\tCREATED\tURL")
	for _, c := range configs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n",
			c.ID, c.Name, c.IsActive, c.CreatedAt.UTC().Format(time.RFC3339), c.WebhookURL)
	}
	return tw.Flush()
}

func (m *Manager) Rotate(ctx context.Context, id, token string) error {
	if err := ValidateToken(token); err != nil {
		return err
	}

	found, err := m.Repo.UpdateSecurityToken(ctx, id, token)
	if err != nil {
		return fmt.Errorf("rotate webhook config token: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrConfigNotFound, id)
	}

	m.Log.WithField("config_id", id).Info("webhook configuration token rotated")
	_, _ = fmt.Fprintf(m.Out, "token rotated for %s\n", id)
	return nil
}
