package storage

import (
	"fmt"
	"strings"

	"github.com/LightningTipBot/lnaddress/internal/lnbits"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Directory maps Lightning Address usernames to LNbits wallets.
type Directory struct {
	db *gorm.DB
}

// NewDirectory opens the sqlite database at path and migrates the user table.
func NewDirectory(path string) (*Directory, error) {
	orm, err := gorm.Open(sqlite.Open(path), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true, FullSaveAssociations: true})
	if err != nil {
		return nil, fmt.Errorf("[NewDirectory] initialize orm failed: %w", err)
	}
	err = orm.AutoMigrate(&lnbits.User{})
	if err != nil {
		return nil, err
	}
	return &Directory{db: orm}, nil
}

// FindUser returns the user registered under username.
func (d *Directory) FindUser(username string) (*lnbits.User, error) {
	user := &lnbits.User{}
	tx := d.db.Where("name = ?", strings.ToLower(username)).First(user)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return user, nil
}

// SaveUser creates or updates a user record.
func (d *Directory) SaveUser(user *lnbits.User) error {
	user.Name = strings.ToLower(user.Name)
	tx := d.db.Save(user)
	if tx.Error != nil {
		log.Errorf("[SaveUser] Couldn't update %s's info in database.", user.Name)
		return tx.Error
	}
	return nil
}
