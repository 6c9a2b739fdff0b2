package mqtt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) Invalidate(ctx context.Context, configurationID string) error {
	return m.Called(ctx, configurationID).Error(0)
}

func TestMountEventBroker_SingleEvent(t *testing.T) {
	inv := &mockInvalidator{}
	inv.On("Invalidate", mock.Anything, "c1").Return(nil).Once()

	b := NewMountEventBroker(inv, zap.NewNop())
	err := b.HandleMessage("deployment/mount-events", []byte(`{"configuration_id":"c1","equipment_kind":"device","equipment_id":"7"}`))
	assert.NoError(t, err)
	inv.AssertExpectations(t)
}

func TestMountEventBroker_BatchDeduplicates(t *testing.T) {
	inv := &mockInvalidator{}
	inv.On("Invalidate", mock.Anything, "c1").Return(nil).Once()
	inv.On("Invalidate", mock.Anything, "c2").Return(nil).Once()

	b := NewMountEventBroker(inv, zap.NewNop())
	payload := ` [
		{"configuration_id":"c1","equipment_kind":"device","equipment_id":"1"},
		{"configuration_id":"c1","equipment_kind":"platform","equipment_id":"1"},
		{"configuration_id":"c2","equipment_kind":"device","equipment_id":"2"},
		{"configuration_id":"c3","equipment_kind":"sensor","equipment_id":"3"}
	]`
	assert.NoError(t, b.HandleMessage("deployment/mount-events", []byte(payload)))
	inv.AssertExpectations(t)
	inv.AssertNotCalled(t, "Invalidate", mock.Anything, "c3")
}

func TestMountEventBroker_EmptyConfigurationInvalidatesAll(t *testing.T) {
	inv := &mockInvalidator{}
	inv.On("Invalidate", mock.Anything, "").Return(nil).Once()

	b := NewMountEventBroker(inv, zap.NewNop())
	assert.NoError(t, b.HandleMessage("deployment/mount-events", []byte(`{}`)))
	inv.AssertExpectations(t)
}

func TestMountEventBroker_Errors(t *testing.T) {
	inv := &mockInvalidator{}
	b := NewMountEventBroker(inv, zap.NewNop())

	assert.Error(t, b.HandleMessage("deployment/mount-events", []byte(`not json`)))
	inv.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)

	inv.On("Invalidate", mock.Anything, "c1").Return(errors.New("redis down")).Once()
	assert.Error(t, b.HandleMessage("deployment/mount-events", []byte(`{"configuration_id":"c1"}`)))
}
