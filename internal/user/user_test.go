package user

import (
	"testing"

	"questlog/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Errorf("hash must not equal the plaintext")
	}
	if err := CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword rejected the right password: %v", err)
	}
	if err := CheckPassword(hash, "wrong password"); err == nil {
		t.Errorf("CheckPassword accepted a wrong password")
	}
}

func TestRoles(t *testing.T) {
	u := User{Username: "alex", Role: RoleAdmin}
	if u.Role != RoleAdmin {
		t.Errorf("expected admin role, got %s", u.Role)
	}
}

func TestUserGamesAssociation(t *testing.T) {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(&User{}, &game.Game{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	u := User{Username: "collector", PasswordHash: "x", Role: RoleUser}
	if err := dbConn.Create(&u).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if err := dbConn.Create(&game.Game{UserID: u.ID, Title: "Hades"}).Error; err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	var loaded User
	if err := dbConn.Preload("Games").First(&loaded, u.ID).Error; err != nil {
		t.Fatalf("failed to preload user: %v", err)
	}
	if len(loaded.Games) != 1 || loaded.Games[0].Title != "Hades" {
		t.Errorf("expected the user's library preloaded, got %+v", loaded.Games)
	}
}
