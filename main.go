package main

import (
	"fmt"
	"log"
	"os"

	"github.com/LupryM/Birthday-reminder-app/routes"
	"github.com/LupryM/Birthday-reminder-app/services"
	"github.com/LupryM/Birthday-reminder-app/storage"
	"github.com/LupryM/Birthday-reminder-app/store"
	"github.com/LupryM/Birthday-reminder-app/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	db := storage.InitializeDB()
	rdb := storage.InitializeRedis()
	appStore := store.New(db, rdb)

	notifier := services.NewNotificationService(appStore)
	reminders := services.NewReminderService(appStore, notifier)
	reminders.Start()

	userRoutes := routes.NewUserRoutes(appStore, rdb)
	profileRoutes := routes.NewProfileRoutes(appStore, rdb)
	wishlistRoutes := routes.NewWishlistRoutes(appStore)
	chatRoutes := routes.NewChatRoutes(appStore, notifier)

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", userRoutes.Register)
		user.Post("/login", userRoutes.Login)
		user.Post("/logout", accessTokenVerifierMiddleware, userRoutes.Logout)
		user.Patch("/pushtoken", accessTokenVerifierMiddleware, userRoutes.AlterPushToken)
		user.Patch("/settings/notifications", accessTokenVerifierMiddleware, userRoutes.AllowsNotifications)
	}

	profile := app.Party("/api/profile")
	{
		profile.Get("/", accessTokenVerifierMiddleware, profileRoutes.GetMyProfile)
		profile.Patch("/", accessTokenVerifierMiddleware, profileRoutes.UpdateMyProfile)
		profile.Delete("/", accessTokenVerifierMiddleware, profileRoutes.DeleteMyAccount)
		profile.Get("/friends", accessTokenVerifierMiddleware, profileRoutes.ListProfiles)
	}

	wishlist := app.Party("/api/wishlist")
	{
		wishlist.Get("/", accessTokenVerifierMiddleware, wishlistRoutes.GetMyWishlist)
		wishlist.Post("/", accessTokenVerifierMiddleware, wishlistRoutes.CreateWishlistItem)
		wishlist.Get("/user/{userID}", accessTokenVerifierMiddleware, wishlistRoutes.GetUserWishlist)
		wishlist.Delete("/{itemID}", accessTokenVerifierMiddleware, wishlistRoutes.DeleteWishlistItem)
		wishlist.Patch("/{itemID}/purchase", accessTokenVerifierMiddleware, wishlistRoutes.TogglePurchase)
	}

	conversation := app.Party("/api/conversation")
	{
		conversation.Post("/start-direct", accessTokenVerifierMiddleware, chatRoutes.StartConversation)
		conversation.Get("/{id}/messages", accessTokenVerifierMiddleware, chatRoutes.ListMessages)
		conversation.Post("/{id}/messages", accessTokenVerifierMiddleware, chatRoutes.CreateMessage)
		conversation.Get("/{id}/stream", accessTokenVerifierMiddleware, chatRoutes.StreamMessages)
		conversation.Post("/{id}/typing", accessTokenVerifierMiddleware, chatRoutes.Typing)
		conversation.Get("/{id}/typing", accessTokenVerifierMiddleware, chatRoutes.ListTyping)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, userRoutes.Refresh)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
