package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"careers-portal-backend/internal/domain"
	"careers-portal-backend/internal/usecase"
	"careers-portal-backend/pkg/apperror"
	"careers-portal-backend/pkg/logger"
	"careers-portal-backend/pkg/storage"
	"careers-portal-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Mock Repositories
type MockCareerUserRepo struct {
	mock.Mock
}

func (m *MockCareerUserRepo) GetByEmailAndMobile(ctx context.Context, email, mobile string) (*domain.CareerUser, error) {
	args := m.Called(ctx, email, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CareerUser), args.Error(1)
}

func (m *MockCareerUserRepo) GetByID(ctx context.Context, id int64) (*domain.CareerUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CareerUser), args.Error(1)
}

func (m *MockCareerUserRepo) GetLatest(ctx context.Context) (*domain.CareerUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CareerUser), args.Error(1)
}

func (m *MockCareerUserRepo) FetchActive(ctx context.Context, limit, offset int) ([]domain.CareerUser, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.CareerUser), args.Get(1).(int64), args.Error(2)
}

func (m *MockCareerUserRepo) Create(ctx context.Context, user *domain.CareerUser) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockCareerUserRepo) Update(ctx context.Context, id int64, changes domain.CareerUserChanges) error {
	return m.Called(ctx, id, changes).Error(0)
}

func (m *MockCareerUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

type MockResumeStorage struct {
	mock.Mock
}

func (m *MockResumeStorage) Upload(ctx context.Context, r io.Reader, objectName, contentType string) (string, error) {
	args := m.Called(ctx, r, objectName, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockResumeStorage) Exists(ctx context.Context, objectName string) (bool, error) {
	args := m.Called(ctx, objectName)
	return args.Bool(0), args.Error(1)
}

func newCareersUsecase(repo *MockCareerUserRepo, store *MockResumeStorage) domain.CareersUsecase {
	validate := validator.New()
	validation.RegisterValidators(validate)
	return usecase.NewCareersUsecase(repo, store, validate)
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr), "expected *apperror.AppError, got %v", err)
	if appErr != nil {
		assert.Equal(t, kind, appErr.Kind)
	}
}

func validInput() domain.RegisterInput {
	return domain.RegisterInput{
		Name:   "Jane Applicant",
		Email:  "jane@example.com",
		Mobile: "+4915112345678",
	}
}

func resumeFile() domain.ResumeFile {
	return domain.ResumeFile{
		Filename:    "resume.pdf",
		ContentType: "application/pdf",
		Size:        11,
		Content:     strings.NewReader("%PDF-1.4..."),
	}
}

func TestRegisterIDSequence(t *testing.T) {
	t.Run("empty store yields user_1", func(t *testing.T) {
		repo := new(MockCareerUserRepo)
		store := new(MockResumeStorage)
		uc := newCareersUsecase(repo, store)

		repo.On("GetByEmailAndMobile", mock.Anything, "jane@example.com", "+4915112345678").Return(nil, nil)
		repo.On("GetLatest", mock.Anything).Return(nil, nil)
		store.On("Upload", mock.Anything, mock.Anything, "user_1_resume.pdf", "application/pdf").
			Return("https://bucket.s3.ap-south-1.amazonaws.com/user_1_resume.pdf", nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CareerUser")).Return(nil)

		user, err := uc.Register(context.Background(), validInput(), resumeFile())
		assert.NoError(t, err)
		assert.Equal(t, "user_1", user.UserID)
		assert.True(t, user.IsActive)
		assert.Equal(t, "https://bucket.s3.ap-south-1.amazonaws.com/user_1_resume.pdf", user.ResumeURL)
	})

	t.Run("id follows the latest record suffix", func(t *testing.T) {
		repo := new(MockCareerUserRepo)
		store := new(MockResumeStorage)
		uc := newCareersUsecase(repo, store)

		repo.On("GetByEmailAndMobile", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		repo.On("GetLatest", mock.Anything).Return(&domain.CareerUser{ID: 7, UserID: "user_7"}, nil)
		store.On("Upload", mock.Anything, mock.Anything, "user_8_resume.pdf", mock.Anything).
			Return("https://bucket.s3.ap-south-1.amazonaws.com/user_8_resume.pdf", nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CareerUser")).Return(nil)

		user, err := uc.Register(context.Background(), validInput(), resumeFile())
		assert.NoError(t, err)
		assert.Equal(t, "user_8", user.UserID)
	})

	t.Run("malformed latest id fails generation", func(t *testing.T) {
		repo := new(MockCareerUserRepo)
		store := new(MockResumeStorage)
		uc := newCareersUsecase(repo, store)

		repo.On("GetByEmailAndMobile", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		repo.On("GetLatest", mock.Anything).Return(&domain.CareerUser{ID: 3, UserID: "user_abc"}, nil)

		_, err := uc.Register(context.Background(), validInput(), resumeFile())
		assertKind(t, err, apperror.KindGeneration)
		store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRegisterDuplicate(t *testing.T) {
	repo := new(MockCareerUserRepo)
	store := new(MockResumeStorage)
	uc := newCareersUsecase(repo, store)

	existing := &domain.CareerUser{ID: 1, UserID: "user_1", Email: "jane@example.com", Mobile: "+4915112345678"}
	repo.On("GetByEmailAndMobile", mock.Anything, "jane@example.com", "+4915112345678").Return(existing, nil)

	_, err := uc.Register(context.Background(), validInput(), resumeFile())
	assertKind(t, err, apperror.KindDuplicate)

	// No identifier consumed, nothing uploaded, nothing inserted.
	repo.AssertNotCalled(t, "GetLatest", mock.Anything)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterValidation(t *testing.T) {
	repo := new(MockCareerUserRepo)
	store := new(MockResumeStorage)
	uc := newCareersUsecase(repo, store)

	in := validInput()
	in.Email = "not-an-email"

	_, err := uc.Register(context.Background(), in, resumeFile())
	assertKind(t, err, apperror.KindValidation)
	repo.AssertNotCalled(t, "GetByEmailAndMobile", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterGenerationFailure(t *testing.T) {
	repo := new(MockCareerUserRepo)
	store := new(MockResumeStorage)
	uc := newCareersUsecase(repo, store)

	repo.On("GetByEmailAndMobile", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("GetLatest", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := uc.Register(context.Background(), validInput(), resumeFile())
	assertKind(t, err, apperror.KindGeneration)

	// Aborts before any upload: no orphaned objects.
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterUploadFailures(t *testing.T) {
	cases := []struct {
		name      string
		uploadErr error
		wantKind  apperror.Kind
	}{
		{"credentials", fmt.Errorf("%w: key invalid", storage.ErrNoCredentials), apperror.KindStoreAuth},
		{"client error", &storage.ClientError{Code: "QuotaExceeded", Message: "quota exceeded"}, apperror.KindStoreClient},
		{"transport", fmt.Errorf("%w: dial tcp", storage.ErrUnavailable), apperror.KindStoreUnavailable},
		{"unknown", errors.New("boom"), apperror.KindUploadUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockCareerUserRepo)
			store := new(MockResumeStorage)
			uc := newCareersUsecase(repo, store)

			repo.On("GetByEmailAndMobile", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
			repo.On("GetLatest", mock.Anything).Return(nil, nil)
			store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", tc.uploadErr)

			_, err := uc.Register(context.Background(), validInput(), resumeFile())
			assertKind(t, err, tc.wantKind)

			// Upload failure aborts before the durable write.
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterStoreClientMessagePassthrough(t *testing.T) {
	repo := new(MockCareerUserRepo)
	store := new(MockResumeStorage)
	uc := newCareersUsecase(repo, store)

	repo.On("GetByEmailAndMobile", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("GetLatest", mock.Anything).Return(nil, nil)
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", &storage.ClientError{Code: "AccessDenied2", Message: "bucket policy rejects writes"})

	_, err := uc.Register(context.Background(), validInput(), resumeFile())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bucket policy rejects writes")
}

func TestRegisterInsertRace(t *testing.T) {
	// A concurrent create that slipped past the probe hits the unique
	// index; the constraint violation maps to the same duplicate outcome.
	repo := new(MockCareerUserRepo)
	store := new(MockResumeStorage)
	uc := newCareersUsecase(repo, store)

	repo.On("GetByEmailAndMobile", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("GetLatest", mock.Anything).Return(nil, nil)
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://b.s3.r.amazonaws.com/o", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(fmt.Errorf("%w: 23505", domain.ErrDuplicate))

	_, err := uc.Register(context.Background(), validInput(), resumeFile())
	assertKind(t, err, apperror.KindDuplicate)
}

func TestRegisterPersistFailureAfterUpload(t *testing.T) {
	repo := new(MockCareerUserRepo)
	store := new(MockResumeStorage)
	uc := newCareersUsecase(repo, store)

	repo.On("GetByEmailAndMobile", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("GetLatest", mock.Anything).Return(nil, nil)
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://b.s3.r.amazonaws.com/o", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("commit failed"))

	_, err := uc.Register(context.Background(), validInput(), resumeFile())
	assertKind(t, err, apperror.KindPersistence)
}

func TestUpdateNameOnly(t *testing.T) {
	repo := new(MockCareerUserRepo)
	store := new(MockResumeStorage)
	uc := newCareersUsecase(repo, store)

	current := &domain.CareerUser{
		ID: 5, UserID: "user_5", Name: "Old Name",
		ResumeURL: "https://b.s3.r.amazonaws.com/user_5_resume.pdf", IsActive: true,
	}
	newName := "New Name"
	updated := *current
	updated.Name = newName

	repo.On("GetByID", mock.Anything, int64(5)).Return(current, nil).Once()
	repo.On("Update", mock.Anything, int64(5), mock.MatchedBy(func(c domain.CareerUserChanges) bool {
		return c.Name != nil && *c.Name == newName && c.Email == nil && c.Mobile == nil && c.ResumeURL == nil
	})).Return(nil)
	repo.On("GetByID", mock.Anything, int64(5)).Return(&updated, nil).Once()

	result, err := uc.Update(context.Background(), 5, domain.UpdateInput{Name: &newName}, nil)
	assert.NoError(t, err)
	assert.Equal(t, newName, result.Name)
	assert.Equal(t, current.ResumeURL, result.ResumeURL)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUploadFailureIsAllOrNothing(t *testing.T) {
	repo := new(MockCareerUserRepo)
	store := new(MockResumeStorage)
	uc := newCareersUsecase(repo, store)

	current := &domain.CareerUser{ID: 5, UserID: "user_5", IsActive: true}
	newName := "New Name"
	repo.On("GetByID", mock.Anything, int64(5)).Return(current, nil)
	store.On("Exists", mock.Anything, "user_5_resume.pdf").Return(true, nil)
	store.On("Upload", mock.Anything, mock.Anything, "user_5_resume.pdf", mock.Anything).
		Return("", fmt.Errorf("%w: dial tcp", storage.ErrUnavailable))

	resume := resumeFile()
	_, err := uc.Update(context.Background(), 5, domain.UpdateInput{Name: &newName}, &resume)
	assertKind(t, err, apperror.KindStoreUnavailable)

	// Neither the staged name nor the resume URL may be committed.
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateReplacementResume(t *testing.T) {
	repo := new(MockCareerUserRepo)
	store := new(MockResumeStorage)
	uc := newCareersUsecase(repo, store)

	current := &domain.CareerUser{ID: 5, UserID: "user_5", IsActive: true}
	newURL := "https://b.s3.r.amazonaws.com/user_5_resume.pdf"
	updated := *current
	updated.ResumeURL = newURL

	repo.On("GetByID", mock.Anything, int64(5)).Return(current, nil).Once()
	// Existence probe fails; the upload proceeds regardless.
	store.On("Exists", mock.Anything, "user_5_resume.pdf").Return(false, errors.New("head failed"))
	store.On("Upload", mock.Anything, mock.Anything, "user_5_resume.pdf", mock.Anything).Return(newURL, nil)
	repo.On("Update", mock.Anything, int64(5), mock.MatchedBy(func(c domain.CareerUserChanges) bool {
		return c.ResumeURL != nil && *c.ResumeURL == newURL && c.Name == nil
	})).Return(nil)
	repo.On("GetByID", mock.Anything, int64(5)).Return(&updated, nil).Once()

	resume := resumeFile()
	result, err := uc.Update(context.Background(), 5, domain.UpdateInput{}, &resume)
	assert.NoError(t, err)
	assert.Equal(t, newURL, result.ResumeURL)
}

func TestUpdateNotFound(t *testing.T) {
	t.Run("missing record", func(t *testing.T) {
		repo := new(MockCareerUserRepo)
		store := new(MockResumeStorage)
		uc := newCareersUsecase(repo, store)

		repo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)
		_, err := uc.Update(context.Background(), 99, domain.UpdateInput{}, nil)
		assertKind(t, err, apperror.KindNotFound)
	})

	t.Run("inactive record", func(t *testing.T) {
		repo := new(MockCareerUserRepo)
		store := new(MockResumeStorage)
		uc := newCareersUsecase(repo, store)

		repo.On("GetByID", mock.Anything, int64(5)).Return(&domain.CareerUser{ID: 5, IsActive: false}, nil)
		_, err := uc.Update(context.Background(), 5, domain.UpdateInput{}, nil)
		assertKind(t, err, apperror.KindNotFound)
	})
}

func TestUpdateSuppliedEmptyFieldsRejected(t *testing.T) {
	// A present-but-empty form field arrives as a non-nil pointer to "".
	// It must fail validation, not blank a column that registration
	// requires to hold a real value.
	empty := ""

	t.Run("empty mobile", func(t *testing.T) {
		repo := new(MockCareerUserRepo)
		uc := newCareersUsecase(repo, new(MockResumeStorage))

		_, err := uc.Update(context.Background(), 5, domain.UpdateInput{Mobile: &empty}, nil)
		assertKind(t, err, apperror.KindValidation)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty email", func(t *testing.T) {
		repo := new(MockCareerUserRepo)
		uc := newCareersUsecase(repo, new(MockResumeStorage))

		_, err := uc.Update(context.Background(), 5, domain.UpdateInput{Email: &empty}, nil)
		assertKind(t, err, apperror.KindValidation)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("active record is returned", func(t *testing.T) {
		repo := new(MockCareerUserRepo)
		uc := newCareersUsecase(repo, new(MockResumeStorage))

		repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.CareerUser{ID: 1, IsActive: true}, nil)
		user, err := uc.GetByID(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("missing record reports not found", func(t *testing.T) {
		repo := new(MockCareerUserRepo)
		uc := newCareersUsecase(repo, new(MockResumeStorage))

		repo.On("GetByID", mock.Anything, int64(2)).Return(nil, nil)
		_, err := uc.GetByID(context.Background(), 2)
		assertKind(t, err, apperror.KindNotFound)
	})

	t.Run("soft-deleted record reports inactive", func(t *testing.T) {
		repo := new(MockCareerUserRepo)
		uc := newCareersUsecase(repo, new(MockResumeStorage))

		repo.On("GetByID", mock.Anything, int64(3)).Return(&domain.CareerUser{ID: 3, IsActive: false}, nil)
		_, err := uc.GetByID(context.Background(), 3)
		assertKind(t, err, apperror.KindInactive)
	})
}

func TestSoftDelete(t *testing.T) {
	t.Run("flips the active flag", func(t *testing.T) {
		repo := new(MockCareerUserRepo)
		uc := newCareersUsecase(repo, new(MockResumeStorage))

		repo.On("GetByID", mock.Anything, int64(5)).Return(&domain.CareerUser{ID: 5, UserID: "user_5", IsActive: true}, nil)
		repo.On("SetActive", mock.Anything, int64(5), false).Return(nil)

		assert.NoError(t, uc.SoftDelete(context.Background(), 5))
		repo.AssertCalled(t, "SetActive", mock.Anything, int64(5), false)
	})

	t.Run("already inactive still succeeds", func(t *testing.T) {
		// The lookup does not filter on active state, so repeated
		// deletes are idempotent.
		repo := new(MockCareerUserRepo)
		uc := newCareersUsecase(repo, new(MockResumeStorage))

		repo.On("GetByID", mock.Anything, int64(5)).Return(&domain.CareerUser{ID: 5, IsActive: false}, nil)
		repo.On("SetActive", mock.Anything, int64(5), false).Return(nil)

		assert.NoError(t, uc.SoftDelete(context.Background(), 5))
	})

	t.Run("missing record reports not found", func(t *testing.T) {
		repo := new(MockCareerUserRepo)
		uc := newCareersUsecase(repo, new(MockResumeStorage))

		repo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)
		assertKind(t, uc.SoftDelete(context.Background(), 99), apperror.KindNotFound)
	})
}

func TestListPagination(t *testing.T) {
	repo := new(MockCareerUserRepo)
	uc := newCareersUsecase(repo, new(MockResumeStorage))

	page := make([]domain.CareerUser, 10)
	for i := range page {
		page[i] = domain.CareerUser{ID: int64(15 - i), IsActive: true}
	}
	repo.On("FetchActive", mock.Anything, 10, 0).Return(page, int64(15), nil)

	users, total, err := uc.List(context.Background(), 0, 10)
	assert.NoError(t, err)
	assert.Len(t, users, 10)
	assert.Equal(t, int64(15), total)

	rest := make([]domain.CareerUser, 5)
	repo.On("FetchActive", mock.Anything, 10, 10).Return(rest, int64(15), nil)
	users, total, err = uc.List(context.Background(), 10, 10)
	assert.NoError(t, err)
	assert.Len(t, users, 5)
	assert.Equal(t, int64(15), total)
}
