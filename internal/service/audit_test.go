package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"garage/internal/model"
)

func TestAuditLog_FlushesOnClose(t *testing.T) {
	var recorded []model.AuthEvent
	mockEvents := new(MockAuthEventRepository)
	mockEvents.On("CreateBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded = append(recorded, args.Get(1).([]model.AuthEvent)...)
	}).Return(nil)

	audit := NewAuditLog(mockEvents)
	audit.Record(context.Background(), model.AuthEvent{Email: "a@b.com", Action: model.AuthActionLogin})
	audit.Record(context.Background(), model.AuthEvent{Email: "c@d.com", Action: model.AuthActionSignup})

	require.NoError(t, audit.Close(context.Background()))
	require.Len(t, recorded, 2)
	assert.Equal(t, "a@b.com", recorded[0].Email)
	assert.False(t, recorded[0].CreatedAt.IsZero())
}

func TestAuditLog_RecordAfterClose(t *testing.T) {
	mockEvents := new(MockAuthEventRepository)
	mockEvents.On("Create", mock.Anything, mock.MatchedBy(func(ev *model.AuthEvent) bool {
		return ev.Email == "late@b.com"
	})).Return(nil).Once()

	audit := NewAuditLog(mockEvents)
	require.NoError(t, audit.Close(context.Background()))
	require.NoError(t, audit.Close(context.Background()))

	assert.NotPanics(t, func() {
		audit.Record(context.Background(), model.AuthEvent{Email: "late@b.com", Action: model.AuthActionLogin})
	})
	mockEvents.AssertExpectations(t)
	mockEvents.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestAuditLog_Nil(t *testing.T) {
	var audit *AuditLog
	assert.NotPanics(t, func() {
		audit.Record(context.Background(), model.AuthEvent{Email: "a@b.com"})
	})
	assert.NoError(t, audit.Close(context.Background()))
}
