package routes

import (
	"fmt"
	"strings"
	"time"

	"github.com/LupryM/Birthday-reminder-app/storage"
	"github.com/LupryM/Birthday-reminder-app/store"
	"github.com/LupryM/Birthday-reminder-app/utils"

	"github.com/go-redis/redis/v8"
	"github.com/kataras/iris/v12"
)

type ProfileRoutes struct {
	store *store.Store
	rdb   *redis.Client
}

func NewProfileRoutes(s *store.Store, rdb *redis.Client) *ProfileRoutes {
	return &ProfileRoutes{store: s, rdb: rdb}
}

// GetMyProfile returns the caller's profile, creating it on first access
// the way the web app bootstraps one from auth metadata.
func (r *ProfileRoutes) GetMyProfile(ctx iris.Context) {
	userID := utils.GetUserID(ctx)

	user, err := r.store.UserByID(ctx.Request().Context(), userID)
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	profile, err := r.store.EnsureProfile(ctx.Request().Context(), user, "", "")
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	today := time.Now()
	ctx.JSON(iris.Map{
		"profile":           profile,
		"age":               utils.Age(profile.BirthdayDate(), today),
		"daysUntilBirthday": utils.DaysUntilBirthday(profile.BirthdayDate(), today),
	})
}

// ListProfiles returns everyone except the caller, sorted by upcoming
// birthday for the home timeline.
func (r *ProfileRoutes) ListProfiles(ctx iris.Context) {
	userID := utils.GetUserID(ctx)

	profiles, err := r.store.ProfilesExcept(ctx.Request().Context(), userID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"profiles": utils.SortByUpcomingBirthday(profiles, time.Now())})
}

type UpdateProfileInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Birthday string `json:"birthday" validate:"required,datetime=2006-01-02"`
	Role     string `json:"role" validate:"max=120"`
	// Avatar is either absent (keep the stored avatar), an existing
	// Cloudinary URL, or a base64 image to upload.
	Avatar *string `json:"avatar"`
}

// UpdateMyProfile writes name/birthday/role always and the avatar only when
// a new one was produced; avatar upload failures surface to the caller.
func (r *ProfileRoutes) UpdateMyProfile(ctx iris.Context) {
	userID := utils.GetUserID(ctx)

	var input UpdateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	fields := map[string]interface{}{
		"name":     input.Name,
		"birthday": input.Birthday,
		"role":     input.Role,
	}

	if input.Avatar != nil && *input.Avatar != "" {
		avatarURL := *input.Avatar
		if !strings.Contains(avatarURL, "res.cloudinary.com") {
			timestamp := time.Now().UnixNano() / int64(time.Millisecond)
			publicID := fmt.Sprintf("avatars/%s/avatar_%d", userID, timestamp)
			uploaded, err := storage.UploadAvatar(avatarURL, publicID)
			if err != nil {
				utils.CreateError(iris.StatusBadGateway, "Avatar Upload Failed", err.Error(), ctx)
				return
			}
			avatarURL = uploaded
		}
		fields["avatar_url"] = avatarURL
	}

	if err := r.store.UpdateProfileFields(ctx.Request().Context(), userID, fields); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	profile, err := r.store.ProfileByID(ctx.Request().Context(), userID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"profile": profile})
}

// DeleteMyAccount removes the profile and identity; the storage layer
// cascades to the wishlist, conversations and messages. The avatar image is
// cleaned up best effort.
func (r *ProfileRoutes) DeleteMyAccount(ctx iris.Context) {
	userID := utils.GetUserID(ctx)

	profile, err := r.store.ProfileByID(ctx.Request().Context(), userID)
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := r.store.DeleteProfile(ctx.Request().Context(), userID); err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Account Deletion Failed", err.Error(), ctx)
		return
	}

	if profile.AvatarURL != nil {
		if err := storage.DeleteAvatar(*profile.AvatarURL); err != nil {
			// Account is already gone; the orphaned image is not worth a failure.
			ctx.Application().Logger().Warnf("avatar cleanup failed for %s: %v", userID, err)
		}
	}

	ctx.JSON(iris.Map{"success": true})
}
