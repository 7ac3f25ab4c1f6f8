package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zachholt/nightout-presence/internal/model"
	"github.com/zachholt/nightout-presence/internal/testutil"
)

// MockCoordinateStore mocks the CoordinateStore interface
type MockCoordinateStore struct {
	mock.Mock
}

func (m *MockCoordinateStore) GetByUserID(ctx context.Context, userID uuid.UUID) (model.Coordinate, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Coordinate), args.Error(1)
}

func (m *MockCoordinateStore) Upsert(ctx context.Context, userID uuid.UUID, latitude, longitude float64) (model.Coordinate, error) {
	args := m.Called(ctx, userID, latitude, longitude)
	return args.Get(0).(model.Coordinate), args.Error(1)
}

func (m *MockCoordinateStore) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCoordinateStore) FindWithinBox(ctx context.Context, box model.BoundingBox) ([]model.UserCoordinate, error) {
	args := m.Called(ctx, box)
	return args.Get(0).([]model.UserCoordinate), args.Error(1)
}

// MockUserStore mocks the UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

// MockPublisher mocks the PresencePublisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event model.PresenceEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func ptr(v float64) *float64 { return &v }

func TestPresence_UpdatePresence(t *testing.T) {
	userID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	user := model.User{ID: userID, Email: "test@example.com"}

	tests := []struct {
		name       string
		params     model.UpdatePresenceParams
		mockSetup  func(*MockCoordinateStore, *MockUserStore, *MockPublisher)
		wantErr    error
		wantAbsent bool
	}{
		{
			name: "check-in with both coordinates",
			params: model.UpdatePresenceParams{
				UserID:    userID,
				Latitude:  ptr(40.7128),
				Longitude: ptr(-74.0060),
			},
			mockSetup: func(cs *MockCoordinateStore, us *MockUserStore, pub *MockPublisher) {
				us.On("GetByID", mock.Anything, userID).Return(user, nil)
				cs.On("Upsert", mock.Anything, userID, 40.7128, -74.0060).Return(model.Coordinate{
					ID:        uuid.New(),
					UserID:    userID,
					Latitude:  40.7128,
					Longitude: -74.0060,
				}, nil)
				pub.On("Publish", mock.Anything, mock.MatchedBy(func(e model.PresenceEvent) bool {
					return e.Event == model.PresenceCheckedIn && e.UserID == userID
				})).Return(nil)
			},
		},
		{
			name: "check-out with neither coordinate",
			params: model.UpdatePresenceParams{
				UserID: userID,
			},
			mockSetup: func(cs *MockCoordinateStore, us *MockUserStore, pub *MockPublisher) {
				us.On("GetByID", mock.Anything, userID).Return(user, nil)
				cs.On("Delete", mock.Anything, userID).Return(nil)
				pub.On("Publish", mock.Anything, mock.MatchedBy(func(e model.PresenceEvent) bool {
					return e.Event == model.PresenceCheckedOut && e.UserID == userID
				})).Return(nil)
			},
			wantAbsent: true,
		},
		{
			name: "latitude without longitude rejected",
			params: model.UpdatePresenceParams{
				UserID:   userID,
				Latitude: ptr(40.7128),
			},
			mockSetup: func(cs *MockCoordinateStore, us *MockUserStore, pub *MockPublisher) {},
			wantErr:   model.ErrInvalidCoordinate,
		},
		{
			name: "longitude without latitude rejected",
			params: model.UpdatePresenceParams{
				UserID:    userID,
				Longitude: ptr(-74.0060),
			},
			mockSetup: func(cs *MockCoordinateStore, us *MockUserStore, pub *MockPublisher) {},
			wantErr:   model.ErrInvalidCoordinate,
		},
		{
			name: "latitude out of range",
			params: model.UpdatePresenceParams{
				UserID:    userID,
				Latitude:  ptr(90.5),
				Longitude: ptr(-74.0060),
			},
			mockSetup: func(cs *MockCoordinateStore, us *MockUserStore, pub *MockPublisher) {
				us.On("GetByID", mock.Anything, userID).Return(user, nil)
			},
			wantErr: model.ErrInvalidCoordinate,
		},
		{
			name: "non-finite longitude",
			params: model.UpdatePresenceParams{
				UserID:    userID,
				Latitude:  ptr(40.7128),
				Longitude: ptr(math.NaN()),
			},
			mockSetup: func(cs *MockCoordinateStore, us *MockUserStore, pub *MockPublisher) {
				us.On("GetByID", mock.Anything, userID).Return(user, nil)
			},
			wantErr: model.ErrInvalidCoordinate,
		},
		{
			name: "user not found",
			params: model.UpdatePresenceParams{
				UserID:    userID,
				Latitude:  ptr(40.7128),
				Longitude: ptr(-74.0060),
			},
			mockSetup: func(cs *MockCoordinateStore, us *MockUserStore, pub *MockPublisher) {
				us.On("GetByID", mock.Anything, userID).Return(model.User{}, model.ErrNotFound)
			},
			wantErr: model.ErrUserNotFound,
		},
		{
			name: "store error on upsert",
			params: model.UpdatePresenceParams{
				UserID:    userID,
				Latitude:  ptr(40.7128),
				Longitude: ptr(-74.0060),
			},
			mockSetup: func(cs *MockCoordinateStore, us *MockUserStore, pub *MockPublisher) {
				us.On("GetByID", mock.Anything, userID).Return(user, nil)
				cs.On("Upsert", mock.Anything, userID, 40.7128, -74.0060).
					Return(model.Coordinate{}, errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coordStore := &MockCoordinateStore{}
			userStore := &MockUserStore{}
			publisher := &MockPublisher{}
			tt.mockSetup(coordStore, userStore, publisher)

			svc := NewPresence(coordStore, userStore, publisher, testutil.MakeNoopLogger())

			coord, err := svc.UpdatePresence(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, model.ErrInvalidCoordinate) || errors.Is(tt.wantErr, model.ErrUserNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				}
			} else {
				require.NoError(t, err)
				if tt.wantAbsent {
					assert.Nil(t, coord)
				} else {
					require.NotNil(t, coord)
					assert.Equal(t, *tt.params.Latitude, coord.Latitude)
					assert.Equal(t, *tt.params.Longitude, coord.Longitude)
				}
			}

			coordStore.AssertExpectations(t)
			userStore.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestPresence_UpdatePresence_PartialCoordinateTouchesNoStore(t *testing.T) {
	coordStore := &MockCoordinateStore{}
	userStore := &MockUserStore{}

	svc := NewPresence(coordStore, userStore, nil, testutil.MakeNoopLogger())

	_, err := svc.UpdatePresence(context.Background(), model.UpdatePresenceParams{
		UserID:   uuid.New(),
		Latitude: ptr(40.7128),
	})

	require.ErrorIs(t, err, model.ErrInvalidCoordinate)
	coordStore.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	coordStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	userStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestPresence_UpdatePresence_PublishFailureDoesNotFailRequest(t *testing.T) {
	userID := uuid.New()
	coordStore := &MockCoordinateStore{}
	userStore := &MockUserStore{}
	publisher := &MockPublisher{}

	userStore.On("GetByID", mock.Anything, userID).Return(model.User{ID: userID}, nil)
	coordStore.On("Upsert", mock.Anything, userID, 40.7128, -74.0060).Return(model.Coordinate{
		UserID:    userID,
		Latitude:  40.7128,
		Longitude: -74.0060,
	}, nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker unreachable"))

	svc := NewPresence(coordStore, userStore, publisher, testutil.MakeNoopLogger())

	coord, err := svc.UpdatePresence(context.Background(), model.UpdatePresenceParams{
		UserID:    userID,
		Latitude:  ptr(40.7128),
		Longitude: ptr(-74.0060),
	})

	require.NoError(t, err)
	require.NotNil(t, coord)
	publisher.AssertExpectations(t)
}

func TestPresence_GetCurrentLocation(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		mockSetup func(*MockCoordinateStore)
		wantErr   error
	}{
		{
			name: "present user",
			mockSetup: func(cs *MockCoordinateStore) {
				cs.On("GetByUserID", mock.Anything, userID).Return(model.Coordinate{
					UserID:    userID,
					Latitude:  40.7128,
					Longitude: -74.0060,
				}, nil)
			},
		},
		{
			name: "absent user",
			mockSetup: func(cs *MockCoordinateStore) {
				cs.On("GetByUserID", mock.Anything, userID).Return(model.Coordinate{}, model.ErrNotFound)
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "store unavailable",
			mockSetup: func(cs *MockCoordinateStore) {
				cs.On("GetByUserID", mock.Anything, userID).Return(model.Coordinate{}, errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coordStore := &MockCoordinateStore{}
			tt.mockSetup(coordStore)

			svc := NewPresence(coordStore, &MockUserStore{}, nil, testutil.MakeNoopLogger())

			coord, err := svc.GetCurrentLocation(context.Background(), userID)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, model.ErrNotFound) {
					assert.ErrorIs(t, err, model.ErrNotFound)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, coord.UserID)
			}

			coordStore.AssertExpectations(t)
		})
	}
}

func TestPresence_ClearLocation_Idempotent(t *testing.T) {
	userID := uuid.New()
	coordStore := &MockCoordinateStore{}
	publisher := &MockPublisher{}

	coordStore.On("Delete", mock.Anything, userID).Return(nil).Twice()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e model.PresenceEvent) bool {
		return e.Event == model.PresenceCheckedOut
	})).Return(nil).Twice()

	svc := NewPresence(coordStore, &MockUserStore{}, publisher, testutil.MakeNoopLogger())

	require.NoError(t, svc.ClearLocation(context.Background(), userID))
	require.NoError(t, svc.ClearLocation(context.Background(), userID))

	coordStore.AssertExpectations(t)
}
