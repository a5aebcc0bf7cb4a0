package supabase

import (
	"context"

	"signalhook/src/model"
)

// ConfigStore reads webhook configurations through PostgREST.
type ConfigStore struct {
	client *Client
}

func NewConfigStore(client *Client) *ConfigStore {
	return &ConfigStore{client: client}
}

// GetByID returns (nil, nil) when the configuration does not exist. Only the
// security token is selected.
func (s *ConfigStore) GetByID(ctx context.Context, id string) (*model.WebhookConfig, error) {
	token, found, err := s.client.GetSecurityToken(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &model.WebhookConfig{ID: id, SecurityToken: token}, nil
}

// SignalStore appends signals through PostgREST.
type SignalStore struct {
	client *Client
}

func NewSignalStore(client *Client) *SignalStore {
	return &SignalStore{client: client}
}

// Insert writes config_id, payload and received_at. The hosted table assigns
// the id and has no fingerprint column.
func (s *SignalStore) Insert(ctx context.Context, signal *model.WebhookSignal) error {
	return s.client.InsertSignal(ctx, signal.ConfigID, signal.Payload, signal.ReceivedAt)
}
