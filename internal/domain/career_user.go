package domain

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrDuplicate is returned by the repository when an insert or update hits
// a unique constraint (user_id, email or mobile).
var ErrDuplicate = errors.New("duplicate career user")

// CareerUser is a resume submission record on the careers portal.
type CareerUser struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Mobile    string     `json:"mobile"`
	ResumeURL string     `json:"resume_url"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// CareerUserChanges is the closed set of updatable fields. A nil pointer
// means "leave untouched". UserID, IsActive and timestamps are not
// updatable through this path.
type CareerUserChanges struct {
	Name      *string
	Email     *string
	Mobile    *string
	ResumeURL *string
}

// IsEmpty reports whether no field change was staged.
func (c CareerUserChanges) IsEmpty() bool {
	return c.Name == nil && c.Email == nil && c.Mobile == nil && c.ResumeURL == nil
}

// RegisterInput carries the parsed form fields for a registration.
type RegisterInput struct {
	Name   string `validate:"required,min=2,max=150"`
	Email  string `validate:"required,email,max=150"`
	Mobile string `validate:"required,valid_phone"`
}

// UpdateInput carries the optional form fields for an update.
type UpdateInput struct {
	Name   *string `validate:"omitempty,min=2,max=150"`
	Email  *string `validate:"omitempty,email,max=150"`
	Mobile *string `validate:"omitempty,valid_phone"`
}

// ResumeFile is an uploaded resume stream plus the metadata needed to
// name and type the object.
type ResumeFile struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type CareerUserRepository interface {
	// GetByEmailAndMobile returns the record matching both fields, or nil.
	GetByEmailAndMobile(ctx context.Context, email, mobile string) (*CareerUser, error)
	// GetByID does not filter on is_active; callers decide.
	GetByID(ctx context.Context, id int64) (*CareerUser, error)
	// GetLatest returns the most recently inserted record, or nil on an
	// empty table.
	GetLatest(ctx context.Context) (*CareerUser, error)
	// FetchActive returns a page of active records ordered newest-first
	// along with the total active count.
	FetchActive(ctx context.Context, limit, offset int) ([]CareerUser, int64, error)
	Create(ctx context.Context, user *CareerUser) error
	Update(ctx context.Context, id int64, changes CareerUserChanges) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// ResumeStorage is the object store gateway. Upload always overwrites and
// returns the public URL of the stored object.
type ResumeStorage interface {
	Upload(ctx context.Context, r io.Reader, objectName, contentType string) (string, error)
	Exists(ctx context.Context, objectName string) (bool, error)
}

type CareersUsecase interface {
	Register(ctx context.Context, in RegisterInput, resume ResumeFile) (*CareerUser, error)
	List(ctx context.Context, skip, limit int) ([]CareerUser, int64, error)
	GetByID(ctx context.Context, id int64) (*CareerUser, error)
	Update(ctx context.Context, id int64, in UpdateInput, resume *ResumeFile) (*CareerUser, error)
	SoftDelete(ctx context.Context, id int64) error
}
