package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LupryM/Birthday-reminder-app/models"
	"github.com/LupryM/Birthday-reminder-app/utils"
)

var (
	ErrInvalidTransition = errors.New("transition not valid from the current view")
	ErrTitleRequired     = errors.New("wishlist item title is required")
	ErrSessionEnded      = errors.New("session has ended")
)

// Session is the state container for one signed-in user. All mutation goes
// through its methods; the zero value is not usable, construct with
// NewSession.
type Session struct {
	store Store
	auth  Auth

	userID     string
	profile    *models.Profile
	friends    []models.Profile
	myWishlist []models.WishlistItem

	activeTab Tab
	view      ViewState
	chat      *ChatSession
	ended     bool

	now func() time.Time
}

// NewSession starts at the home tab with the collections the caller loaded
// during the initial authenticated fetch.
func NewSession(store Store, auth Auth, userID string, profile *models.Profile,
	friends []models.Profile, wishlist []models.WishlistItem) *Session {
	return &Session{
		store:      store,
		auth:       auth,
		userID:     userID,
		profile:    profile,
		friends:    friends,
		myWishlist: wishlist,
		activeTab:  ViewHome,
		view:       homeView(),
		now:        time.Now,
	}
}

func (s *Session) UserID() string           { return s.userID }
func (s *Session) ActiveTab() Tab           { return s.activeTab }
func (s *Session) Profile() *models.Profile { return s.profile }
func (s *Session) Chat() *ChatSession       { return s.chat }

// View returns the active view; its Items payload is a snapshot, mutations
// to it never reach the session.
func (s *Session) View() ViewState {
	view := s.view
	if view.Items != nil {
		items := make([]models.WishlistItem, len(view.Items))
		copy(items, view.Items)
		view.Items = items
	}
	return view
}

// Wishlist returns a snapshot of the cached own wishlist.
func (s *Session) Wishlist() []models.WishlistItem {
	items := make([]models.WishlistItem, len(s.myWishlist))
	copy(items, s.myWishlist)
	return items
}

// SortedFriends lists friends stably ordered by upcoming birthday.
func (s *Session) SortedFriends() []models.Profile {
	return utils.SortByUpcomingBirthday(s.friends, s.now())
}

// closeChat releases the live subscription; called on every transition that
// leaves the chat screen, including logout and account deletion.
func (s *Session) closeChat() {
	if s.chat != nil {
		s.chat.Close()
		s.chat = nil
	}
}

// SelectTab activates a tab root. Valid from any state.
func (s *Session) SelectTab(tab Tab) error {
	if s.ended {
		return ErrSessionEnded
	}
	if !isTab(tab) {
		return fmt.Errorf("unknown tab %q", tab)
	}
	s.closeChat()
	s.activeTab = tab
	s.view = tabRootView(tab)
	return nil
}

// SelectFriend opens a friend's profile from the home or friends tab.
func (s *Session) SelectFriend(friend models.Profile) error {
	if s.ended {
		return ErrSessionEnded
	}
	if s.view.Kind != ViewHome && s.view.Kind != ViewFriends {
		return ErrInvalidTransition
	}
	s.view = friendProfileView(friend)
	return nil
}

// ViewFriendWishlist fetches the friend's items (purchaser names joined in)
// and only then transitions, so the payload always reflects the store at
// that moment.
func (s *Session) ViewFriendWishlist(ctx context.Context) error {
	if s.ended {
		return ErrSessionEnded
	}
	if s.view.Kind != ViewFriendProfile {
		return ErrInvalidTransition
	}
	friend := *s.view.Friend
	items, err := s.store.WishlistFor(ctx, friend.ID)
	if err != nil {
		return fmt.Errorf("loading %s's wishlist: %w", friend.Name, err)
	}
	s.view = friendWishlistView(friend, items)
	return nil
}

// ViewOwnWishlist opens the caller's wishlist from the profile tab.
func (s *Session) ViewOwnWishlist() error {
	if s.ended {
		return ErrSessionEnded
	}
	if s.view.Kind != ViewProfile {
		return ErrInvalidTransition
	}
	s.view = myWishlistView()
	return nil
}

// OpenChat resolves the conversation with the friend shown on the current
// friend-profile view and transitions to the chat screen. The returned
// ChatSession is owned by this Session and released on any navigation away.
func (s *Session) OpenChat(ctx context.Context) (*ChatSession, error) {
	if s.ended {
		return nil, ErrSessionEnded
	}
	if s.view.Kind != ViewFriendProfile {
		return nil, ErrInvalidTransition
	}
	friend := *s.view.Friend
	chat, err := openChat(ctx, s.store, s.userID, friend)
	if err != nil {
		return nil, err
	}
	s.closeChat()
	s.chat = chat
	s.view = chatView(friend)
	return chat, nil
}

// Back returns to the immediate parent view: friend-wishlist and chat fall
// back to the friend's profile, detail views fall back to the active tab
// root.
func (s *Session) Back() error {
	if s.ended {
		return ErrSessionEnded
	}
	switch s.view.Kind {
	case ViewFriendWishlist, ViewChat:
		return s.BackToFriendProfile()
	case ViewFriendProfile, ViewMyWishlist:
		s.view = tabRootView(s.activeTab)
		return nil
	default:
		return ErrInvalidTransition
	}
}

// BackToFriendProfile returns from chat or friend-wishlist to the friend's
// profile.
func (s *Session) BackToFriendProfile() error {
	if s.ended {
		return ErrSessionEnded
	}
	if s.view.Kind != ViewChat && s.view.Kind != ViewFriendWishlist {
		return ErrInvalidTransition
	}
	friend := *s.view.Friend
	s.closeChat()
	s.view = friendProfileView(friend)
	return nil
}

// TogglePurchase flips an item's purchased state on the friend-wishlist
// screen, then re-fetches the friend's full list so the displayed state
// always reflects a successful remote write, never an optimistic guess.
func (s *Session) TogglePurchase(ctx context.Context, itemID string, currentlyPurchased bool) error {
	if s.ended {
		return ErrSessionEnded
	}
	if s.view.Kind != ViewFriendWishlist {
		return ErrInvalidTransition
	}

	if currentlyPurchased {
		if err := s.store.SetPurchase(ctx, itemID, false, nil); err != nil {
			return fmt.Errorf("clearing purchase: %w", err)
		}
	} else {
		purchaser := s.userID
		if err := s.store.SetPurchase(ctx, itemID, true, &purchaser); err != nil {
			return fmt.Errorf("marking purchased: %w", err)
		}
	}

	friend := *s.view.Friend
	items, err := s.store.WishlistFor(ctx, friend.ID)
	if err != nil {
		return fmt.Errorf("reloading %s's wishlist: %w", friend.Name, err)
	}
	s.view = friendWishlistView(friend, items)
	return nil
}

// AddWishlistItem creates an item on the caller's own list. Title must be
// non-empty, an empty url is stored as null, an unparsable price becomes 0.
// The created item, with its server-assigned id, is appended to the cache.
func (s *Session) AddWishlistItem(ctx context.Context, title, url, price string) (*models.WishlistItem, error) {
	if s.ended {
		return nil, ErrSessionEnded
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	parsedPrice, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		parsedPrice = 0
	}

	var itemURL *string
	if trimmed := strings.TrimSpace(url); trimmed != "" {
		itemURL = &trimmed
	}

	item := models.WishlistItem{
		UserID:    s.userID,
		Title:     title,
		Price:     parsedPrice,
		URL:       itemURL,
		Purchased: false,
	}
	if err := s.store.InsertWishlistItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("adding wishlist item: %w", err)
	}

	s.myWishlist = append(s.myWishlist, item)
	return &item, nil
}

// DeleteWishlistItem removes one of the caller's items remotely, then from
// the cache. An id already absent from the cache is a no-op.
func (s *Session) DeleteWishlistItem(ctx context.Context, itemID string) error {
	if s.ended {
		return ErrSessionEnded
	}
	if err := s.store.DeleteWishlistItem(ctx, itemID, s.userID); err != nil {
		return fmt.Errorf("deleting wishlist item: %w", err)
	}

	kept := s.myWishlist[:0]
	for _, item := range s.myWishlist {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.myWishlist = kept
	return nil
}

// SaveProfile writes name, birthday and role always, and the avatar only
// when a new one was produced; otherwise the previous avatar survives both
// remotely and in the cache.
func (s *Session) SaveProfile(ctx context.Context, name, birthday, role string, avatarURL *string) error {
	if s.ended {
		return ErrSessionEnded
	}
	fields := map[string]interface{}{
		"name":     name,
		"birthday": birthday,
		"role":     role,
	}
	if avatarURL != nil {
		fields["avatar_url"] = *avatarURL
	}
	if err := s.store.UpdateProfileFields(ctx, s.userID, fields); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	s.profile.Name = name
	s.profile.Birthday = birthday
	s.profile.Role = role
	if avatarURL != nil {
		s.profile.AvatarURL = avatarURL
	}
	return nil
}

// DeleteAccount removes the profile (the storage layer cascades to the
// wishlist, conversations and messages), ends the auth session and leaves
// the session unusable. Irreversible; confirmation is the caller's concern.
func (s *Session) DeleteAccount(ctx context.Context) error {
	if s.ended {
		return ErrSessionEnded
	}
	if err := s.store.DeleteProfile(ctx, s.userID); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return s.end(ctx)
}

// Logout ends the auth session and releases any open chat.
func (s *Session) Logout(ctx context.Context) error {
	if s.ended {
		return ErrSessionEnded
	}
	return s.end(ctx)
}

func (s *Session) end(ctx context.Context) error {
	s.closeChat()
	s.ended = true
	if err := s.auth.SignOut(ctx); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}
