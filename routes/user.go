package routes

import (
	"encoding/json"
	"strings"

	"github.com/LupryM/Birthday-reminder-app/models"
	"github.com/LupryM/Birthday-reminder-app/store"
	"github.com/LupryM/Birthday-reminder-app/utils"

	"github.com/go-redis/redis/v8"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

type UserRoutes struct {
	store *store.Store
	rdb   *redis.Client
}

func NewUserRoutes(s *store.Store, rdb *redis.Client) *UserRoutes {
	return &UserRoutes{store: s, rdb: rdb}
}

type RegisterUserInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *UserRoutes) Register(ctx iris.Context) {
	var userInput RegisterUserInput
	if err := ctx.ReadJSON(&userInput); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	existing, err := r.store.UserByEmail(ctx.Request().Context(), userInput.Email)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existing != nil {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser := models.User{
		Email:    strings.ToLower(userInput.Email),
		Password: hashedPassword,
	}
	if err := r.store.CreateUser(ctx.Request().Context(), &newUser); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Bootstrap the profile from the sign-up metadata.
	if _, err := r.store.EnsureProfile(ctx.Request().Context(), &newUser, userInput.Name, userInput.Birthday); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	r.returnUser(&newUser, ctx)
}

func (r *UserRoutes) Login(ctx iris.Context) {
	var userInput LoginUserInput
	if err := ctx.ReadJSON(&userInput); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	errorMsg := "Invalid email or password."
	existingUser, err := r.store.UserByEmail(ctx.Request().Context(), userInput.Email)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existingUser == nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password)) != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	r.returnUser(existingUser, ctx)
}

// Refresh rotates a verified refresh token: the old one is revoked and a
// fresh pair is issued.
func (r *UserRoutes) Refresh(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	if token == nil {
		ctx.StopWithStatus(iris.StatusUnauthorized)
		return
	}

	tokenStr := string(token.Token)
	if !utils.RefreshTokenIsValid(r.rdb, tokenStr) {
		utils.CreateNotFound(ctx)
		return
	}
	utils.RevokeRefreshToken(r.rdb, tokenStr)

	tokenPair, err := utils.CreateTokenPair(r.rdb, token.StandardClaims.Subject)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

// Logout ends the device's session by revoking its refresh token.
func (r *UserRoutes) Logout(ctx iris.Context) {
	var input utils.RefreshTokenInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if err := r.store.DeviceSession(input.RefreshToken).SignOut(ctx.Request().Context()); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

type AlterPushTokenInput struct {
	Token string `json:"token" validate:"required"`
	Op    string `json:"op" validate:"required,oneof=add remove"`
}

// AlterPushToken registers or removes one Expo push token for the caller.
func (r *UserRoutes) AlterPushToken(ctx iris.Context) {
	userID := utils.GetUserID(ctx)

	var input AlterPushTokenInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	user, err := r.store.UserByID(ctx.Request().Context(), userID)
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	tokens := user.PushTokenList()
	switch input.Op {
	case "add":
		exists := false
		for _, t := range tokens {
			if t == input.Token {
				exists = true
				break
			}
		}
		if !exists {
			tokens = append(tokens, input.Token)
		}
	case "remove":
		kept := tokens[:0]
		for _, t := range tokens {
			if t != input.Token {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}

	encoded, err := json.Marshal(tokens)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if err := r.store.SetPushTokens(ctx.Request().Context(), userID, datatypes.JSON(encoded)); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "pushTokens": tokens})
}

type AllowsNotificationsInput struct {
	AllowsNotifications *bool `json:"allowsNotifications" validate:"required"`
}

func (r *UserRoutes) AllowsNotifications(ctx iris.Context) {
	userID := utils.GetUserID(ctx)

	var input AllowsNotificationsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := r.store.SetAllowsNotifications(ctx.Request().Context(), userID, *input.AllowsNotifications); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

func (r *UserRoutes) returnUser(user *models.User, ctx iris.Context) {
	tokenPair, err := utils.CreateTokenPair(r.rdb, user.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"id":           user.ID,
		"email":        user.Email,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

func hashAndSaltPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
