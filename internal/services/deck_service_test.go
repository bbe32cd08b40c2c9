package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mkotas/flashdeck/internal/errors"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/services"
	"github.com/mkotas/flashdeck/internal/testutil/mocks"
)

func requireAppCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestGetDeck_OwnerSeesPrivateDeck(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(decks, new(mocks.MockFolderRepository))

	decks.On("Get", mock.Anything, int64(1)).
		Return(&models.Deck{ID: 1, UserID: "alice"}, nil)

	deck, err := svc.GetDeck(context.Background(), "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deck.ID)
}

func TestGetDeck_NonOwnerSeesNotFound(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(decks, new(mocks.MockFolderRepository))

	decks.On("Get", mock.Anything, int64(1)).
		Return(&models.Deck{ID: 1, UserID: "alice"}, nil)

	_, err := svc.GetDeck(context.Background(), "bob", 1)
	requireAppCode(t, err, apperrors.ErrCodeNotFound)
}

func TestGetDeck_PublicDeckVisibleToAnyone(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(decks, new(mocks.MockFolderRepository))

	decks.On("Get", mock.Anything, int64(1)).
		Return(&models.Deck{ID: 1, UserID: "alice", IsPublic: true}, nil)

	deck, err := svc.GetDeck(context.Background(), "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", deck.UserID)
}

func TestCreateDeck_RejectsEmptyName(t *testing.T) {
	svc := services.NewDeckService(new(mocks.MockDeckRepository), new(mocks.MockFolderRepository))

	_, err := svc.CreateDeck(context.Background(), "alice", "   ", "", nil)
	requireAppCode(t, err, apperrors.ErrCodeInvalidArgument)
}

func TestCreateDeck_RejectsForeignFolder(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	folders := new(mocks.MockFolderRepository)
	svc := services.NewDeckService(decks, folders)

	folderID := int64(7)
	folders.On("Get", mock.Anything, folderID).
		Return(&models.Folder{ID: folderID, UserID: "bob"}, nil)

	_, err := svc.CreateDeck(context.Background(), "alice", "Deck", "", &folderID)
	requireAppCode(t, err, apperrors.ErrCodeNotFound)
	decks.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestDeleteDeck_NonOwnerCannotDelete(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(decks, new(mocks.MockFolderRepository))

	decks.On("Get", mock.Anything, int64(1)).
		Return(&models.Deck{ID: 1, UserID: "alice", IsPublic: true}, nil)

	err := svc.DeleteDeck(context.Background(), "bob", 1)
	requireAppCode(t, err, apperrors.ErrCodeNotFound)
	decks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestForkDeck_RequiresPublicSource(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(decks, new(mocks.MockFolderRepository))

	decks.On("Get", mock.Anything, int64(1)).
		Return(&models.Deck{ID: 1, UserID: "alice", IsPublic: false}, nil)

	// The owner can see the deck but still cannot fork a private one.
	_, err := svc.ForkDeck(context.Background(), "alice", 1)
	requireAppCode(t, err, apperrors.ErrCodeInvalidArgument)
}

func TestForkDeck_CopiesPublicDeck(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(decks, new(mocks.MockFolderRepository))

	src := models.Deck{ID: 1, UserID: "alice", Name: "Shared", IsPublic: true, CardCount: 3}
	srcID := int64(1)
	decks.On("Get", mock.Anything, int64(1)).Return(&src, nil)
	decks.On("Fork", mock.Anything, src, "bob").Return(int64(2), nil)
	decks.On("Get", mock.Anything, int64(2)).
		Return(&models.Deck{ID: 2, UserID: "bob", Name: "Shared", ForkedFromID: &srcID, CardCount: 3}, nil)

	fork, err := svc.ForkDeck(context.Background(), "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, "bob", fork.UserID)
	require.NotNil(t, fork.ForkedFromID)
	assert.Equal(t, srcID, *fork.ForkedFromID)
	decks.AssertExpectations(t)
}
