package storage

import (
	"log"
	"os"

	"github.com/LupryM/Birthday-reminder-app/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.WishlistItem{},
		&models.Conversation{},
		&models.Message{},
	)

	// Deleting a profile must cascade to its wishlist items, conversations
	// and messages.
	db.Exec(`ALTER TABLE wishlist_items DROP CONSTRAINT IF EXISTS fk_wishlist_items_owner;
		ALTER TABLE wishlist_items ADD CONSTRAINT fk_wishlist_items_owner
		FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE;`)
	db.Exec(`ALTER TABLE conversations DROP CONSTRAINT IF EXISTS fk_conversations_p1;
		ALTER TABLE conversations ADD CONSTRAINT fk_conversations_p1
		FOREIGN KEY (participant1) REFERENCES profiles(id) ON DELETE CASCADE;`)
	db.Exec(`ALTER TABLE conversations DROP CONSTRAINT IF EXISTS fk_conversations_p2;
		ALTER TABLE conversations ADD CONSTRAINT fk_conversations_p2
		FOREIGN KEY (participant2) REFERENCES profiles(id) ON DELETE CASCADE;`)
	db.Exec(`ALTER TABLE messages DROP CONSTRAINT IF EXISTS fk_messages_conversation;
		ALTER TABLE messages ADD CONSTRAINT fk_messages_conversation
		FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE;`)

	// At most one conversation per unordered participant pair. Concurrent
	// first-chat opens race to create it; the loser re-reads the winner's row.
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_conversation_pair
		ON conversations (least(participant1, participant2), greatest(participant1, participant2));`)
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}
