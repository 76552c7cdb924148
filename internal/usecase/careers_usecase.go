package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"careers-portal-backend/internal/domain"
	"careers-portal-backend/pkg/apperror"
	"careers-portal-backend/pkg/logger"
	"careers-portal-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
)

type careersUsecase struct {
	repo     domain.CareerUserRepository
	store    domain.ResumeStorage
	validate *validator.Validate
}

func NewCareersUsecase(repo domain.CareerUserRepository, store domain.ResumeStorage, validate *validator.Validate) domain.CareersUsecase {
	return &careersUsecase{
		repo:     repo,
		store:    store,
		validate: validate,
	}
}

// nextUserID derives the next sequential user id from the most recently
// inserted record. It deliberately reads only the latest row, not the
// maximum suffix across all rows, so identifier sequencing stays exactly
// as the portal has always produced it.
func (uc *careersUsecase) nextUserID(ctx context.Context) (string, error) {
	latest, err := uc.repo.GetLatest(ctx)
	if err != nil {
		logger.Log.Error("Error generating user ID", "error", err)
		return "", apperror.Generation(err)
	}
	if latest == nil {
		return "user_1", nil
	}

	parts := strings.Split(latest.UserID, "_")
	lastID, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		logger.Log.Error("Malformed user_id on latest record", "user_id", latest.UserID, "error", err)
		return "", apperror.Generation(err)
	}
	return fmt.Sprintf("user_%d", lastID+1), nil
}

// Register runs the creation pipeline: duplicate check, id generation,
// resume upload, insert. Each step aborts the whole operation on failure;
// cheap checks run before the upload, the upload before the durable
// write. A failed insert leaves an uploaded-but-unreferenced object in
// the bucket, which is accepted and logged rather than compensated.
func (uc *careersUsecase) Register(ctx context.Context, in domain.RegisterInput, resume domain.ResumeFile) (*domain.CareerUser, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if resume.Filename == "" {
		return nil, apperror.BadRequest("Resume file is required")
	}

	logger.Log.Info("Checking if the email and mobile already exist", "email", in.Email)
	existing, err := uc.repo.GetByEmailAndMobile(ctx, in.Email, in.Mobile)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if existing != nil {
		logger.Log.Warn("Both email and mobile number already exist", "email", in.Email)
		return nil, apperror.Duplicate("Both email and mobile number already exist")
	}

	userID, err := uc.nextUserID(ctx)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("%s_%s", userID, resume.Filename)
	logger.Log.Info("Uploading resume", "object", objectName, "size", resume.Size)
	resumeURL, err := uc.store.Upload(ctx, resume.Content, objectName, resume.ContentType)
	if err != nil {
		// The generated id is simply discarded; gaps are acceptable.
		return nil, uc.mapStorageErr(err)
	}

	user := &domain.CareerUser{
		UserID:    userID,
		Name:      in.Name,
		Email:     in.Email,
		Mobile:    in.Mobile,
		ResumeURL: resumeURL,
		IsActive:  true,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Concurrent create slipped past the probe; the unique
			// indexes are the backstop.
			return nil, apperror.Duplicate("Both email and mobile number already exist")
		}
		logger.Log.Error("Insert failed after upload, object left unreferenced",
			"object", objectName, "error", err)
		return nil, apperror.Persistence(err)
	}

	logger.Log.Info("User created successfully", "user_id", user.UserID)
	return user, nil
}

func (uc *careersUsecase) List(ctx context.Context, skip, limit int) ([]domain.CareerUser, int64, error) {
	users, total, err := uc.repo.FetchActive(ctx, limit, skip)
	if err != nil {
		return nil, 0, apperror.Persistence(err)
	}
	return users, total, nil
}

func (uc *careersUsecase) GetByID(ctx context.Context, id int64) (*domain.CareerUser, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	if !user.IsActive {
		return nil, apperror.Inactive("User inactive")
	}
	return user, nil
}

// Update stages an optional resume replacement and optional field changes
// and commits them together. An upload failure aborts before anything is
// written, so the stored record is untouched on any error path.
func (uc *careersUsecase) Update(ctx context.Context, id int64, in domain.UpdateInput, resume *domain.ResumeFile) (*domain.CareerUser, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if user == nil || !user.IsActive {
		return nil, apperror.NotFound("User not found")
	}

	changes := domain.CareerUserChanges{
		Name:   in.Name,
		Email:  in.Email,
		Mobile: in.Mobile,
	}

	if resume != nil {
		objectName := fmt.Sprintf("%s_%s", user.UserID, resume.Filename)

		// The probe only informs the log; the upload overwrites either way.
		if exists, probeErr := uc.store.Exists(ctx, objectName); probeErr != nil {
			logger.Log.Warn("Existence probe failed", "object", objectName, "error", probeErr)
		} else if exists {
			logger.Log.Info("Replacing existing resume object", "object", objectName)
		}

		resumeURL, upErr := uc.store.Upload(ctx, resume.Content, objectName, resume.ContentType)
		if upErr != nil {
			return nil, uc.mapStorageErr(upErr)
		}
		changes.ResumeURL = &resumeURL
	}

	if changes.IsEmpty() {
		return user, nil
	}

	if err := uc.repo.Update(ctx, id, changes); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Duplicate("Email or mobile number already in use")
		}
		return nil, apperror.Persistence(err)
	}

	updated, err := uc.repo.GetByID(ctx, id)
	if err != nil || updated == nil {
		return nil, apperror.Persistence(err)
	}
	return updated, nil
}

// SoftDelete flips is_active off. The lookup does not filter on active
// state, so deleting an already-inactive record succeeds again.
func (uc *careersUsecase) SoftDelete(ctx context.Context, id int64) error {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return apperror.Persistence(err)
	}
	if user == nil {
		return apperror.NotFound("User not found")
	}

	if err := uc.repo.SetActive(ctx, id, false); err != nil {
		return apperror.Persistence(err)
	}
	logger.Log.Info("User soft-deleted", "id", id, "user_id", user.UserID)
	return nil
}

func (uc *careersUsecase) mapStorageErr(err error) *apperror.AppError {
	var clientErr *storage.ClientError
	switch {
	case errors.Is(err, storage.ErrNoCredentials):
		logger.Log.Error("Storage credentials are missing or invalid", "error", err)
		return apperror.StoreAuth(err)
	case errors.As(err, &clientErr):
		logger.Log.Error("Storage client error during upload", "code", clientErr.Code, "error", err)
		return apperror.StoreClient(clientErr.Message, err)
	case errors.Is(err, storage.ErrUnavailable):
		logger.Log.Error("Storage transport failure during upload", "error", err)
		return apperror.StoreUnavailable(err)
	default:
		logger.Log.Error("Unexpected error during upload", "error", err)
		return apperror.UploadUnknown(err)
	}
}
