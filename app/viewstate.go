// Package app is the screen-flow engine of the birthday tracker: a single
// explicitly-owned state container holding the active view, the cached
// profile and wishlist, and the open chat. Its transition methods are the
// only way state changes; everything remote goes through the narrow Store
// interface so the engine is testable without Postgres or Redis.
package app

import (
	"github.com/LupryM/Birthday-reminder-app/models"
)

// ViewKind tags the active screen. Exactly one view is active at any time.
type ViewKind string

const (
	ViewHome           ViewKind = "home"
	ViewProfile        ViewKind = "profile"
	ViewFriends        ViewKind = "friends"
	ViewFriendProfile  ViewKind = "friend-profile"
	ViewFriendWishlist ViewKind = "friend-wishlist"
	ViewMyWishlist     ViewKind = "my-wishlist"
	ViewChat           ViewKind = "chat"
)

// Tab is one of the three root screens.
type Tab = ViewKind

// ViewState is the tagged union of screen and payload. Friend is set for
// the friend-profile, friend-wishlist and chat variants; Items only for
// friend-wishlist.
type ViewState struct {
	Kind   ViewKind
	Friend *models.Profile
	Items  []models.WishlistItem
}

func homeView() ViewState    { return ViewState{Kind: ViewHome} }
func profileView() ViewState { return ViewState{Kind: ViewProfile} }
func friendsView() ViewState { return ViewState{Kind: ViewFriends} }

func tabRootView(tab Tab) ViewState {
	switch tab {
	case ViewProfile:
		return profileView()
	case ViewFriends:
		return friendsView()
	default:
		return homeView()
	}
}

func friendProfileView(friend models.Profile) ViewState {
	return ViewState{Kind: ViewFriendProfile, Friend: &friend}
}

func friendWishlistView(friend models.Profile, items []models.WishlistItem) ViewState {
	return ViewState{Kind: ViewFriendWishlist, Friend: &friend, Items: items}
}

func myWishlistView() ViewState { return ViewState{Kind: ViewMyWishlist} }

func chatView(friend models.Profile) ViewState {
	return ViewState{Kind: ViewChat, Friend: &friend}
}

func isTab(tab Tab) bool {
	return tab == ViewHome || tab == ViewProfile || tab == ViewFriends
}
