package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/LupryM/Birthday-reminder-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	mu sync.Mutex

	wishlists     map[string][]models.WishlistItem
	conversations map[string]*models.Conversation
	messages      map[string][]models.Message
	subscribers   map[string][]chan models.Message

	updatedFields   map[string]interface{}
	deletedProfiles []string

	findOrCreateCalls int
	releaseCount      int
	nextID            int

	wishlistErr error
	purchaseErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wishlists:     map[string][]models.WishlistItem{},
		conversations: map[string]*models.Conversation{},
		messages:      map[string][]models.Message{},
		subscribers:   map[string][]chan models.Message{},
	}
}

func (f *fakeStore) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) WishlistFor(ctx context.Context, ownerID string) ([]models.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.wishlistErr != nil {
		return nil, f.wishlistErr
	}
	items := make([]models.WishlistItem, len(f.wishlists[ownerID]))
	copy(items, f.wishlists[ownerID])
	return items, nil
}

func (f *fakeStore) InsertWishlistItem(ctx context.Context, item *models.WishlistItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = f.newID("item")
	f.wishlists[item.UserID] = append(f.wishlists[item.UserID], *item)
	return nil
}

func (f *fakeStore) SetPurchase(ctx context.Context, itemID string, purchased bool, purchaser *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.purchaseErr != nil {
		return f.purchaseErr
	}
	for ownerID, items := range f.wishlists {
		for i := range items {
			if items[i].ID == itemID {
				items[i].Purchased = purchased
				items[i].PurchasedBy = purchaser
				f.wishlists[ownerID] = items
				return nil
			}
		}
	}
	return fmt.Errorf("item %s not found", itemID)
}

func (f *fakeStore) DeleteWishlistItem(ctx context.Context, itemID, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.wishlists[ownerID][:0]
	for _, item := range f.wishlists[ownerID] {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	f.wishlists[ownerID] = kept
	return nil
}

func (f *fakeStore) UpdateProfileFields(ctx context.Context, id string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedFields = fields
	return nil
}

func (f *fakeStore) DeleteProfile(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedProfiles = append(f.deletedProfiles, id)
	return nil
}

func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

func (f *fakeStore) FindOrCreateConversation(ctx context.Context, a, b string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findOrCreateCalls++
	key := pairKey(a, b)
	if conversation, ok := f.conversations[key]; ok {
		return conversation, nil
	}
	conversation := &models.Conversation{ID: f.newID("conv"), Participant1: a, Participant2: b}
	f.conversations[key] = conversation
	return conversation, nil
}

func (f *fakeStore) MessagesFor(ctx context.Context, conversationID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	messages := make([]models.Message, len(f.messages[conversationID]))
	copy(messages, f.messages[conversationID])
	return messages, nil
}

func (f *fakeStore) CreateMessage(ctx context.Context, message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	message.ID = f.newID("msg")
	message.CreatedAt = time.Now()
	f.messages[message.ConversationID] = append(f.messages[message.ConversationID], *message)
	for _, sub := range f.subscribers[message.ConversationID] {
		sub <- *message
	}
	return nil
}

func (f *fakeStore) SubscribeMessages(ctx context.Context, conversationID string) (<-chan models.Message, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan models.Message, 16)
	f.subscribers[conversationID] = append(f.subscribers[conversationID], ch)
	var once sync.Once
	release := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.releaseCount++
			subs := f.subscribers[conversationID][:0]
			for _, sub := range f.subscribers[conversationID] {
				if sub != ch {
					subs = append(subs, sub)
				}
			}
			f.subscribers[conversationID] = subs
			close(ch)
		})
	}
	return ch, release, nil
}

func (f *fakeStore) releases() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.releaseCount
}

type fakeAuth struct {
	signedOut bool
	err       error
}

func (a *fakeAuth) SignOut(ctx context.Context) error {
	if a.err != nil {
		return a.err
	}
	a.signedOut = true
	return nil
}

func testFriend() models.Profile {
	return models.Profile{ID: "friend-1", Name: "Maya", Birthday: "1994-08-30"}
}

func newTestSession(store *fakeStore) (*Session, *fakeAuth) {
	auth := &fakeAuth{}
	profile := &models.Profile{ID: "user-1", Name: "Lena", Birthday: "1996-01-20"}
	return NewSession(store, auth, "user-1", profile, []models.Profile{testFriend()}, nil), auth
}

func TestSessionStartsAtHome(t *testing.T) {
	session, _ := newTestSession(newFakeStore())

	assert.Equal(t, ViewHome, session.View().Kind)
	assert.Equal(t, ViewHome, session.ActiveTab())
}

func TestNavigationToFriendWishlistAndBack(t *testing.T) {
	store := newFakeStore()
	store.wishlists["friend-1"] = []models.WishlistItem{
		{ID: "item-a", UserID: "friend-1", Title: "Headphones"},
	}
	session, _ := newTestSession(store)
	ctx := context.Background()

	require.NoError(t, session.SelectFriend(testFriend()))
	assert.Equal(t, ViewFriendProfile, session.View().Kind)
	assert.Equal(t, "friend-1", session.View().Friend.ID)

	require.NoError(t, session.ViewFriendWishlist(ctx))
	assert.Equal(t, ViewFriendWishlist, session.View().Kind)
	require.Len(t, session.View().Items, 1)
	assert.Equal(t, "Headphones", session.View().Items[0].Title)

	require.NoError(t, session.Back())
	assert.Equal(t, ViewFriendProfile, session.View().Kind)

	require.NoError(t, session.Back())
	assert.Equal(t, ViewHome, session.View().Kind)
}

func TestSelectFriendOnlyFromHomeOrFriendsTab(t *testing.T) {
	session, _ := newTestSession(newFakeStore())

	require.NoError(t, session.SelectTab(ViewProfile))
	err := session.SelectFriend(testFriend())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, session.SelectTab(ViewFriends))
	assert.NoError(t, session.SelectFriend(testFriend()))
}

func TestSelectTabRejectsUnknown(t *testing.T) {
	session, _ := newTestSession(newFakeStore())

	assert.Error(t, session.SelectTab(ViewKind("settings")))
	assert.Equal(t, ViewHome, session.View().Kind)
}

func TestViewOwnWishlistOnlyFromProfile(t *testing.T) {
	session, _ := newTestSession(newFakeStore())

	assert.ErrorIs(t, session.ViewOwnWishlist(), ErrInvalidTransition)

	require.NoError(t, session.SelectTab(ViewProfile))
	require.NoError(t, session.ViewOwnWishlist())
	assert.Equal(t, ViewMyWishlist, session.View().Kind)

	require.NoError(t, session.Back())
	assert.Equal(t, ViewProfile, session.View().Kind)
}

func TestWishlistLoadFailureKeepsCurrentView(t *testing.T) {
	store := newFakeStore()
	store.wishlistErr = fmt.Errorf("connection refused")
	session, _ := newTestSession(store)

	require.NoError(t, session.SelectFriend(testFriend()))
	err := session.ViewFriendWishlist(context.Background())

	require.Error(t, err)
	assert.Equal(t, ViewFriendProfile, session.View().Kind)
}

func TestTogglePurchaseMarksThenClears(t *testing.T) {
	store := newFakeStore()
	store.wishlists["friend-1"] = []models.WishlistItem{
		{ID: "item-a", UserID: "friend-1", Title: "Book"},
	}
	session, _ := newTestSession(store)
	ctx := context.Background()

	require.NoError(t, session.SelectFriend(testFriend()))
	require.NoError(t, session.ViewFriendWishlist(ctx))

	require.NoError(t, session.TogglePurchase(ctx, "item-a", false))
	require.Len(t, session.View().Items, 1)
	assert.True(t, session.View().Items[0].Purchased)
	require.NotNil(t, session.View().Items[0].PurchasedBy)
	assert.Equal(t, "user-1", *session.View().Items[0].PurchasedBy)

	require.NoError(t, session.TogglePurchase(ctx, "item-a", true))
	assert.False(t, session.View().Items[0].Purchased)
	assert.Nil(t, session.View().Items[0].PurchasedBy)
}

func TestTogglePurchaseSecondPurchaserReplacesFirst(t *testing.T) {
	store := newFakeStore()
	first := "user-2"
	store.wishlists["friend-1"] = []models.WishlistItem{
		{ID: "item-a", UserID: "friend-1", Title: "Book", Purchased: true, PurchasedBy: &first},
	}
	session, _ := newTestSession(store)
	ctx := context.Background()

	require.NoError(t, session.SelectFriend(testFriend()))
	require.NoError(t, session.ViewFriendWishlist(ctx))

	// First purchaser clears their mark, then this user buys the item:
	// the row must end up attributed to the second setter only.
	require.NoError(t, session.TogglePurchase(ctx, "item-a", true))
	require.Len(t, session.View().Items, 1)
	assert.False(t, session.View().Items[0].Purchased)
	assert.Nil(t, session.View().Items[0].PurchasedBy)

	require.NoError(t, session.TogglePurchase(ctx, "item-a", false))
	item := session.View().Items[0]
	assert.True(t, item.Purchased)
	require.NotNil(t, item.PurchasedBy)
	assert.Equal(t, "user-1", *item.PurchasedBy)
}

func TestTogglePurchaseReflectsConcurrentBuyer(t *testing.T) {
	store := newFakeStore()
	store.wishlists["friend-1"] = []models.WishlistItem{
		{ID: "item-a", UserID: "friend-1", Title: "Book"},
		{ID: "item-b", UserID: "friend-1", Title: "Mug"},
	}
	session, _ := newTestSession(store)
	ctx := context.Background()

	require.NoError(t, session.SelectFriend(testFriend()))
	require.NoError(t, session.ViewFriendWishlist(ctx))

	// Another user buys item-b while this screen is open; the refetch after
	// our own toggle surfaces their purchase too.
	other := "user-2"
	require.NoError(t, store.SetPurchase(ctx, "item-b", true, &other))

	require.NoError(t, session.TogglePurchase(ctx, "item-a", false))

	items := session.View().Items
	require.Len(t, items, 2)
	assert.True(t, items[1].Purchased)
	assert.Equal(t, "user-2", *items[1].PurchasedBy)
}

func TestTogglePurchaseOnlyOnFriendWishlist(t *testing.T) {
	session, _ := newTestSession(newFakeStore())

	err := session.TogglePurchase(context.Background(), "item-a", false)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAddWishlistItem(t *testing.T) {
	store := newFakeStore()
	session, _ := newTestSession(store)
	ctx := context.Background()

	item, err := session.AddWishlistItem(ctx, "Camera", "https://shop.example/camera", "249.99")
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, 249.99, item.Price)
	require.NotNil(t, item.URL)
	assert.Equal(t, "https://shop.example/camera", *item.URL)

	require.Len(t, session.Wishlist(), 1)
	assert.Equal(t, "Camera", session.Wishlist()[0].Title)
}

func TestAddWishlistItemDefaults(t *testing.T) {
	session, _ := newTestSession(newFakeStore())
	ctx := context.Background()

	item, err := session.AddWishlistItem(ctx, "Socks", "", "not a number")
	require.NoError(t, err)
	assert.Equal(t, float64(0), item.Price)
	assert.Nil(t, item.URL)
}

func TestAddWishlistItemRequiresTitle(t *testing.T) {
	session, _ := newTestSession(newFakeStore())

	_, err := session.AddWishlistItem(context.Background(), "   ", "", "10")
	assert.ErrorIs(t, err, ErrTitleRequired)
	assert.Empty(t, session.Wishlist())
}

func TestDeleteWishlistItemAbsentIsNoOp(t *testing.T) {
	store := newFakeStore()
	session, _ := newTestSession(store)
	ctx := context.Background()

	item, err := session.AddWishlistItem(ctx, "Camera", "", "100")
	require.NoError(t, err)

	require.NoError(t, session.DeleteWishlistItem(ctx, "item-nonexistent"))
	assert.Len(t, session.Wishlist(), 1)

	require.NoError(t, session.DeleteWishlistItem(ctx, item.ID))
	assert.Empty(t, session.Wishlist())
}

func TestSaveProfileKeepsAvatarWhenNoneProduced(t *testing.T) {
	store := newFakeStore()
	session, _ := newTestSession(store)
	existing := "https://cdn.example/avatar.png"
	session.Profile().AvatarURL = &existing

	require.NoError(t, session.SaveProfile(context.Background(), "Lena B", "1996-01-20", "designer", nil))

	_, wroteAvatar := store.updatedFields["avatar_url"]
	assert.False(t, wroteAvatar)
	require.NotNil(t, session.Profile().AvatarURL)
	assert.Equal(t, existing, *session.Profile().AvatarURL)
	assert.Equal(t, "Lena B", session.Profile().Name)
}

func TestSaveProfileWritesNewAvatar(t *testing.T) {
	store := newFakeStore()
	session, _ := newTestSession(store)
	updated := "https://cdn.example/new.png"

	require.NoError(t, session.SaveProfile(context.Background(), "Lena", "1996-01-20", "", &updated))

	assert.Equal(t, updated, store.updatedFields["avatar_url"])
	assert.Equal(t, updated, *session.Profile().AvatarURL)
}

func TestLogoutEndsSession(t *testing.T) {
	session, auth := newTestSession(newFakeStore())

	require.NoError(t, session.Logout(context.Background()))
	assert.True(t, auth.signedOut)

	assert.ErrorIs(t, session.SelectTab(ViewHome), ErrSessionEnded)
	assert.ErrorIs(t, session.Logout(context.Background()), ErrSessionEnded)
}

func TestDeleteAccountRemovesProfileAndEndsSession(t *testing.T) {
	store := newFakeStore()
	session, auth := newTestSession(store)

	require.NoError(t, session.DeleteAccount(context.Background()))

	assert.Equal(t, []string{"user-1"}, store.deletedProfiles)
	assert.True(t, auth.signedOut)
	assert.ErrorIs(t, session.SelectTab(ViewHome), ErrSessionEnded)
}

func TestWishlistAndViewItemsAreSnapshots(t *testing.T) {
	store := newFakeStore()
	store.wishlists["friend-1"] = []models.WishlistItem{
		{ID: "item-a", UserID: "friend-1", Title: "Book"},
	}
	session, _ := newTestSession(store)
	ctx := context.Background()

	_, err := session.AddWishlistItem(ctx, "Camera", "", "100")
	require.NoError(t, err)

	own := session.Wishlist()
	own[0].Title = "tampered"
	assert.Equal(t, "Camera", session.Wishlist()[0].Title)

	require.NoError(t, session.SelectFriend(testFriend()))
	require.NoError(t, session.ViewFriendWishlist(ctx))

	items := session.View().Items
	items[0].Title = "tampered"
	assert.Equal(t, "Book", session.View().Items[0].Title)
}

func TestSortedFriendsByUpcomingBirthday(t *testing.T) {
	store := newFakeStore()
	auth := &fakeAuth{}
	profile := &models.Profile{ID: "user-1", Name: "Lena", Birthday: "1996-01-20"}
	friends := []models.Profile{
		{ID: "f1", Name: "Ana", Birthday: "1990-12-01"},
		{ID: "f2", Name: "Ben", Birthday: "1992-06-20"},
	}
	session := NewSession(store, auth, "user-1", profile, friends, nil)
	session.now = func() time.Time {
		return time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	}

	sorted := session.SortedFriends()
	require.Len(t, sorted, 2)
	assert.Equal(t, "f2", sorted[0].ID)
	assert.Equal(t, "f1", sorted[1].ID)
}
