package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carefinder-ng/carefinder/internal/application/services"
	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	apperrors "github.com/carefinder-ng/carefinder/pkg/errors"
)

type mockHospitalRepo struct {
	mock.Mock
}

func (m *mockHospitalRepo) Create(ctx context.Context, raw *entities.RawHospital) (string, error) {
	args := m.Called(ctx, raw)
	return args.String(0), args.Error(1)
}

func (m *mockHospitalRepo) GetByID(ctx context.Context, id string) (*entities.RawHospital, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RawHospital), args.Error(1)
}

func (m *mockHospitalRepo) Search(ctx context.Context, req entities.SearchRequest, limit int) ([]entities.RawHospital, error) {
	args := m.Called(ctx, req, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RawHospital), args.Error(1)
}

func (m *mockHospitalRepo) List(ctx context.Context, limit, offset int) ([]entities.RawHospital, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RawHospital), args.Error(1)
}

type mockSearchRepo struct {
	mock.Mock
}

func (m *mockSearchRepo) SearchByName(ctx context.Context, term string, limit int) ([]entities.RawHospital, error) {
	args := m.Called(ctx, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RawHospital), args.Error(1)
}

func (m *mockSearchRepo) Index(ctx context.Context, hospital *entities.Hospital) error {
	args := m.Called(ctx, hospital)
	return args.Error(0)
}

func (m *mockSearchRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Search(ctx context.Context, req entities.SearchRequest, limit int) ([]entities.RawHospital, error) {
	args := m.Called(ctx, req, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RawHospital), args.Error(1)
}

func (m *mockDirectory) Name() string { return "mock" }

func TestHospitalService_Search_NormalizesResults(t *testing.T) {
	repo := new(mockHospitalRepo)
	service := services.NewHospitalService(repo)

	req := entities.SearchRequest{SearchTerm: "Lagos", SearchType: entities.SearchTypeLocation}
	repo.On("Search", mock.Anything, req, services.MaxSearchResults).Return([]entities.RawHospital{
		{Source: entities.SourceDocument, ID: "h-1", Name: "Lagoon Hospital", City: "Lagos", Phone: "0801"},
	}, nil)

	hospitals, err := service.Search(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.Equal(t, "Lagoon Hospital", hospitals[0].Name)
	assert.Equal(t, "Lagos, Unknown", hospitals[0].Location)
	assert.Equal(t, "0801", hospitals[0].ContactNumber)
	assert.False(t, hospitals[0].IsExternal)
	repo.AssertExpectations(t)
}

func TestHospitalService_Search_EmptyIsNotAnError(t *testing.T) {
	repo := new(mockHospitalRepo)
	service := services.NewHospitalService(repo)

	req := entities.SearchRequest{SearchTerm: "nowhere", SearchType: entities.SearchTypeLocation}
	repo.On("Search", mock.Anything, req, services.MaxSearchResults).Return([]entities.RawHospital{}, nil)

	hospitals, err := service.Search(context.Background(), req)

	require.NoError(t, err)
	assert.NotNil(t, hospitals)
	assert.Empty(t, hospitals)
}

func TestHospitalService_Search_MergesExternalListings(t *testing.T) {
	repo := new(mockHospitalRepo)
	directory := new(mockDirectory)
	service := services.NewHospitalService(repo, services.WithDirectory(directory))

	req := entities.SearchRequest{SearchTerm: "Lagos", SearchType: entities.SearchTypeLocation}
	repo.On("Search", mock.Anything, req, services.MaxSearchResults).Return([]entities.RawHospital{
		{Source: entities.SourceDocument, ID: "h-1", Name: "Registered Hospital"},
	}, nil)
	directory.On("Search", mock.Anything, req, services.MaxSearchResults-1).Return([]entities.RawHospital{
		{Source: entities.SourceExternal, ID: "ext-1", Name: "External Clinic"},
	}, nil)

	hospitals, err := service.Search(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, hospitals, 2)
	assert.False(t, hospitals[0].IsExternal)
	assert.True(t, hospitals[1].IsExternal)
	directory.AssertExpectations(t)
}

func TestHospitalService_Search_DirectoryFailureIsBestEffort(t *testing.T) {
	repo := new(mockHospitalRepo)
	directory := new(mockDirectory)
	service := services.NewHospitalService(repo, services.WithDirectory(directory))

	req := entities.SearchRequest{SearchTerm: "Lagos", SearchType: entities.SearchTypeLocation}
	repo.On("Search", mock.Anything, req, services.MaxSearchResults).Return([]entities.RawHospital{
		{Source: entities.SourceDocument, ID: "h-1", Name: "Registered Hospital"},
	}, nil)
	directory.On("Search", mock.Anything, req, mock.Anything).Return(nil, errors.New("directory down"))

	hospitals, err := service.Search(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, hospitals, 1)
}

func TestHospitalService_Search_CapsResults(t *testing.T) {
	repo := new(mockHospitalRepo)
	directory := new(mockDirectory)
	service := services.NewHospitalService(repo, services.WithDirectory(directory))

	primary := make([]entities.RawHospital, services.MaxSearchResults)
	for i := range primary {
		primary[i] = entities.RawHospital{Source: entities.SourceDocument, Name: "Hospital"}
	}

	req := entities.SearchRequest{SearchTerm: "hospital", SearchType: entities.SearchTypeName}
	repo.On("Search", mock.Anything, req, services.MaxSearchResults).Return(primary, nil)

	hospitals, err := service.Search(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, hospitals, services.MaxSearchResults)
	// Directory is never consulted once the cap is reached.
	directory.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestHospitalService_Search_NameUsesIndexFirst(t *testing.T) {
	repo := new(mockHospitalRepo)
	searchRepo := new(mockSearchRepo)
	service := services.NewHospitalService(repo, services.WithSearchRepo(searchRepo))

	req := entities.SearchRequest{SearchTerm: "Lagoon", SearchType: entities.SearchTypeName}
	searchRepo.On("SearchByName", mock.Anything, "Lagoon", services.MaxSearchResults).Return([]entities.RawHospital{
		{Source: entities.SourceDocument, ID: "h-1", Name: "Lagoon Hospital"},
	}, nil)

	hospitals, err := service.Search(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestHospitalService_Search_IndexFailureFallsBackToDatabase(t *testing.T) {
	repo := new(mockHospitalRepo)
	searchRepo := new(mockSearchRepo)
	service := services.NewHospitalService(repo, services.WithSearchRepo(searchRepo))

	req := entities.SearchRequest{SearchTerm: "Lagoon", SearchType: entities.SearchTypeName}
	searchRepo.On("SearchByName", mock.Anything, "Lagoon", services.MaxSearchResults).
		Return(nil, errors.New("typesense down"))
	repo.On("Search", mock.Anything, req, services.MaxSearchResults).Return([]entities.RawHospital{
		{Source: entities.SourceDocument, ID: "h-1", Name: "Lagoon Hospital"},
	}, nil)

	hospitals, err := service.Search(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, hospitals, 1)
	repo.AssertExpectations(t)
}

func TestHospitalService_Search_StorageFailurePropagates(t *testing.T) {
	repo := new(mockHospitalRepo)
	service := services.NewHospitalService(repo)

	req := entities.SearchRequest{SearchTerm: "Lagos", SearchType: entities.SearchTypeLocation}
	repo.On("Search", mock.Anything, req, services.MaxSearchResults).
		Return(nil, apperrors.NewUnavailableError("failed to query hospitals", errors.New("conn refused")))

	_, err := service.Search(context.Background(), req)

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeUnavailable, appErr.Type)
}

func TestHospitalService_Create_IndexFailureDoesNotFail(t *testing.T) {
	repo := new(mockHospitalRepo)
	searchRepo := new(mockSearchRepo)
	service := services.NewHospitalService(repo, services.WithSearchRepo(searchRepo))

	repo.On("Create", mock.Anything, mock.Anything).Return("new-id", nil)
	searchRepo.On("Index", mock.Anything, mock.Anything).Return(errors.New("typesense down"))

	id, err := service.Create(context.Background(), entities.CreateHospitalRequest{
		Name:        "New Hospital",
		Address:     "1 Broad Street",
		Phone:       "0801",
		City:        "Lagos",
		Region:      "Lagos State",
		Description: "A new hospital",
	})

	require.NoError(t, err)
	assert.Equal(t, "new-id", id)
	searchRepo.AssertExpectations(t)
}

func TestHospitalService_Create_StoreFailurePropagates(t *testing.T) {
	repo := new(mockHospitalRepo)
	service := services.NewHospitalService(repo)

	repo.On("Create", mock.Anything, mock.Anything).
		Return("", apperrors.NewUnavailableError("failed to create hospital", errors.New("conn refused")))

	_, err := service.Create(context.Background(), entities.CreateHospitalRequest{Name: "X"})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeUnavailable, appErr.Type)
}

func TestHospitalService_GetByID_Normalizes(t *testing.T) {
	repo := new(mockHospitalRepo)
	service := services.NewHospitalService(repo)

	repo.On("GetByID", mock.Anything, "h-1").Return(&entities.RawHospital{
		Source: entities.SourceDocument,
		ID:     "h-1",
		Name:   "Lagoon Hospital",
		Email:  "info@lagoon.ng",
	}, nil)

	hospital, err := service.GetByID(context.Background(), "h-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"info@lagoon.ng"}, hospital.Email)
	assert.NotNil(t, hospital.Specializations)
}

func TestHospitalService_Create_CanonicalizesSpecializations(t *testing.T) {
	repo := new(mockHospitalRepo)
	service := services.NewHospitalService(repo)

	var stored *entities.RawHospital
	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*entities.RawHospital)
		}).
		Return("new-id", nil)

	_, err := service.Create(context.Background(), entities.CreateHospitalRequest{
		Name:            "New Hospital",
		Address:         "1 Broad Street",
		Phone:           "0801",
		City:            "Lagos",
		Region:          "Lagos",
		Description:     "A new hospital",
		Specializations: []string{"O&G", "paeds", "Pediatrics"},
	})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"Obstetrics and Gynaecology", "Paediatrics"}, stored.Specializations)
}
