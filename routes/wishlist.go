package routes

import (
	"strconv"
	"strings"

	"github.com/LupryM/Birthday-reminder-app/models"
	"github.com/LupryM/Birthday-reminder-app/store"
	"github.com/LupryM/Birthday-reminder-app/utils"

	"github.com/kataras/iris/v12"
)

type WishlistRoutes struct {
	store *store.Store
}

func NewWishlistRoutes(s *store.Store) *WishlistRoutes {
	return &WishlistRoutes{store: s}
}

// GetMyWishlist lists the caller's own items.
func (r *WishlistRoutes) GetMyWishlist(ctx iris.Context) {
	userID := utils.GetUserID(ctx)

	items, err := r.store.WishlistFor(ctx.Request().Context(), userID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"items": items})
}

// GetUserWishlist lists a friend's items with purchaser names joined in.
func (r *WishlistRoutes) GetUserWishlist(ctx iris.Context) {
	ownerID := ctx.Params().Get("userID")

	items, err := r.store.WishlistFor(ctx.Request().Context(), ownerID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"items": items})
}

type CreateWishlistItemInput struct {
	Title string `json:"title" validate:"required,max=256"`
	URL   string `json:"url" validate:"omitempty,max=512"`
	// Price arrives as entered; anything unparsable stores as 0.
	Price string `json:"price"`
}

func (r *WishlistRoutes) CreateWishlistItem(ctx iris.Context) {
	userID := utils.GetUserID(ctx)

	var input CreateWishlistItemInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if strings.TrimSpace(input.Title) == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation error", "Title must not be blank.", ctx)
		return
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(input.Price), 64)
	if err != nil {
		price = 0
	}

	var itemURL *string
	if trimmed := strings.TrimSpace(input.URL); trimmed != "" {
		itemURL = &trimmed
	}

	item := models.WishlistItem{
		UserID:    userID,
		Title:     strings.TrimSpace(input.Title),
		Price:     price,
		URL:       itemURL,
		Purchased: false,
	}
	if err := r.store.InsertWishlistItem(ctx.Request().Context(), &item); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"item": item})
}

// DeleteWishlistItem is owner-scoped; deleting an already-gone id succeeds.
func (r *WishlistRoutes) DeleteWishlistItem(ctx iris.Context) {
	userID := utils.GetUserID(ctx)
	itemID := ctx.Params().Get("itemID")

	if err := r.store.DeleteWishlistItem(ctx.Request().Context(), itemID, userID); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

type TogglePurchaseInput struct {
	// The purchased state as the viewer currently sees it; the toggle flips it.
	CurrentlyPurchased bool `json:"currentlyPurchased"`
}

// TogglePurchase marks or unmarks a friend's item as purchased by the
// caller, then returns the owner's refreshed list so the client shows only
// confirmed state.
func (r *WishlistRoutes) TogglePurchase(ctx iris.Context) {
	userID := utils.GetUserID(ctx)
	itemID := ctx.Params().Get("itemID")

	item, err := r.store.WishlistItemByID(ctx.Request().Context(), itemID)
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	// Owners don't buy their own gifts.
	if item.UserID == userID {
		utils.CreateForbidden(ctx)
		return
	}

	var input TogglePurchaseInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.CurrentlyPurchased {
		err = r.store.SetPurchase(ctx.Request().Context(), itemID, false, nil)
	} else {
		err = r.store.SetPurchase(ctx.Request().Context(), itemID, true, &userID)
	}
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	items, err := r.store.WishlistFor(ctx.Request().Context(), item.UserID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"items": items})
}
