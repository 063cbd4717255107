package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
)

type fakeTenants struct {
	exists bool
	err    error
	asked  string
}

func (f *fakeTenants) Exists(ctx context.Context, tenantID string) (bool, error) {
	f.asked = tenantID
	return f.exists, f.err
}

const widgetTenantID = "a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11"

func TestWidgetChat_UnknownTenantRejected(t *testing.T) {
	tenants := &fakeTenants{exists: false}
	svc := NewChatService(nil, nil, nil, tenants)

	_, _, err := svc.WidgetChat(context.Background(), widgetTenantID, "", "what are the HOA fees?")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.Equal(t, widgetTenantID, tenants.asked)
}

func TestWidgetChat_MalformedTenantRejectedBeforeLookup(t *testing.T) {
	tenants := &fakeTenants{exists: true}
	svc := NewChatService(nil, nil, nil, tenants)

	_, _, err := svc.WidgetChat(context.Background(), "not-a-tenant", "", "hello")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.Empty(t, tenants.asked)
}

func TestWidgetChat_LookupErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	svc := NewChatService(nil, nil, nil, &fakeTenants{err: boom})

	_, _, err := svc.WidgetChat(context.Background(), widgetTenantID, "", "hello")
	require.ErrorIs(t, err, boom)
}

func TestWidgetChat_KnownTenantReachesChatValidation(t *testing.T) {
	svc := NewChatService(nil, nil, nil, &fakeTenants{exists: true})

	// An empty message fails Chat's own validation, which proves the
	// tenant gate handed off to the normal path.
	_, _, err := svc.WidgetChat(context.Background(), widgetTenantID, "", "")
	require.ErrorIs(t, err, apperr.ErrInvalid)
}
