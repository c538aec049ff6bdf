package services

import (
	"context"
	"log"
	"time"

	"github.com/LupryM/Birthday-reminder-app/store"
	"github.com/LupryM/Birthday-reminder-app/utils"

	"github.com/robfig/cron/v3"
)

// ReminderService pushes birthday reminders to every opted-in user, daily
// at 09:00 server time: one for each friend whose birthday is today and one
// for each friend whose birthday is exactly a week away.
type ReminderService struct {
	store    *store.Store
	notifier *NotificationService
}

func NewReminderService(s *store.Store, notifier *NotificationService) *ReminderService {
	return &ReminderService{store: s, notifier: notifier}
}

// Start registers the daily job and starts the scheduler.
func (rs *ReminderService) Start() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		rs.RunOnce(context.Background())
	})
	if err != nil {
		log.Printf("Failed to create reminder cron job: %v", err)
		return c
	}

	log.Println("Birthday reminder scheduler started (daily at 09:00)")
	c.Start()
	return c
}

// RunOnce scans all profiles and sends the due reminders. Exposed so the
// job can be triggered manually.
func (rs *ReminderService) RunOnce(ctx context.Context) {
	users, err := rs.store.UsersAllowingNotifications(ctx)
	if err != nil {
		log.Printf("Birthday reminders: listing users failed: %v", err)
		return
	}

	today := time.Now()
	for _, user := range users {
		friends, err := rs.store.ProfilesExcept(ctx, user.ID)
		if err != nil {
			log.Printf("Birthday reminders: listing friends for %s failed: %v", user.ID, err)
			continue
		}
		for i := range friends {
			friend := &friends[i]
			days := utils.DaysUntilBirthday(friend.BirthdayDate(), today)
			if days != 0 && days != 7 {
				continue
			}
			if err := rs.notifier.SendBirthdayReminder(ctx, user.ID, friend, days); err != nil {
				log.Printf("Birthday reminders: push to %s about %s failed: %v", user.ID, friend.ID, err)
			}
		}
	}
}
