package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	"github.com/BruksfildServices01/tour-booking/internal/domain/user"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/imaging"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/query"
	"github.com/BruksfildServices01/tour-booking/internal/resource"
	"github.com/BruksfildServices01/tour-booking/internal/storage"
	"github.com/BruksfildServices01/tour-booking/internal/validators"
)

const maxUploadSize = 5 << 20

type UsersHandler struct {
	*resource.Resource[models.User, *models.User]

	users   user.Repository
	storage storage.Storage
	audit   *audit.Dispatcher
}

func NewUsersHandler(
	db *gorm.DB,
	users user.Repository,
	store storage.Storage,
	audit *audit.Dispatcher,
) *UsersHandler {
	res := resource.New[models.User](db, resource.Config[models.User]{
		Name:       "user",
		Schema:     query.MustSchema(&models.User{}),
		Scope:      user.Active,
		WriteScope: user.Active,
		SoftDelete: func(tx *gorm.DB, id uuid.UUID) (int64, error) {
			return users.Deactivate(tx.Statement.Context, id)
		},
		Hooks: resource.Hooks[models.User]{
			BeforeSave: func(_ context.Context, _ *gorm.DB, u *models.User, _ bool) error {
				u.Email = validators.NormalizeEmail(u.Email)
				return nil
			},
		},
	})

	return &UsersHandler{
		Resource: res,
		users:    users,
		storage:  store,
		audit:    audit,
	}
}

type UpdateMeRequest struct {
	Name            string `json:"name" form:"name" binding:"omitempty,max=100"`
	Email           string `json:"email" form:"email" binding:"omitempty,email"`
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"passwordConfirm" form:"passwordConfirm"`
}

// CreateUser points clients to the signup flow.
func (h *UsersHandler) CreateUser(c *gin.Context) {
	_ = c.Error(httperr.BadRequest("This route is not defined! Please use /signup instead"))
}

// GetMe serves the session user through the generic single-item read.
func (h *UsersHandler) GetMe(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Params = append(c.Params, gin.Param{Key: "id", Value: u.ID.String()})
	h.GetOne(c)
}

func (h *UsersHandler) UpdateMe(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(err)
		return
	}
	if req.Password != "" || req.PasswordConfirm != "" {
		_ = c.Error(httperr.BadRequest("This route is not for password updates. Please use /updateMyPassword."))
		return
	}

	changes := map[string]any{}
	if req.Name != "" {
		changes["name"] = req.Name
	}
	if req.Email != "" {
		changes["email"] = validators.NormalizeEmail(req.Email)
	}

	photo, err := h.uploadPhoto(c, u.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if photo != "" {
		changes["photo"] = photo
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), u.ID, changes)
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpresp.OK(c, gin.H{"user": updated})
}

// uploadPhoto stores the optional multipart "photo" as a square WebP.
func (h *UsersHandler) uploadPhoto(c *gin.Context, userID uuid.UUID) (string, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return "", nil
	}
	fh, err := c.FormFile("photo")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", httperr.Wrap(http.StatusBadRequest, "Invalid photo upload", err)
	}
	if fh.Size > maxUploadSize {
		return "", httperr.BadRequest("Photo is too large, the limit is 5MB")
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, err := imaging.Process(f, imaging.UserPhoto, 90)
	if err != nil {
		return "", httperr.Wrap(http.StatusBadRequest, "Not an image! Please upload only images.", err)
	}

	key := fmt.Sprintf("users/user-%s-%d.webp", userID, time.Now().Unix())
	return h.storage.Put(c.Request.Context(), key, imaging.ContentType, img)
}

func (h *UsersHandler) DeleteMe(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if _, err := h.users.Deactivate(c.Request.Context(), u.ID); err != nil {
		_ = c.Error(err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(u.ID),
		Action:   audit.ActionAccountDeleted,
		Entity:   "user",
		EntityID: audit.Ptr(u.ID),
	})

	httpresp.NoContent(c)
}
