package storage

import (
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/buntdb"
)

// Storable items must provide a function to retrieve the database key
type Storable interface {
	Key() string
}

type DB struct {
	*buntdb.DB
}

const (
	invoicePrefix        = "invoice:"
	InvoiceOrderedByTime = "invoice.created_at"
)

// InvoiceRecord is one invoice obtained from a Lightning Address.
type InvoiceRecord struct {
	PaymentHash    string `json:"payment_hash"`
	Address        string `json:"address"`
	AmountMsat     int64  `json:"amount_msat"`
	Description    string `json:"description,omitempty"`
	PaymentRequest string `json:"payment_request"`
	// CreatedAt is in unix milliseconds so the index orders numerically.
	CreatedAt int64 `json:"created_at"`
}

// Created returns CreatedAt as a time.
func (r InvoiceRecord) Created() time.Time {
	return time.Unix(0, r.CreatedAt*int64(time.Millisecond))
}

func (r InvoiceRecord) Key() string {
	return invoicePrefix + r.PaymentHash
}

// NewBunt opens (or creates) the database at filePath. ":memory:" keeps it in memory.
func NewBunt(filePath string) (*DB, error) {
	db, err := buntdb.Open(filePath)
	if err != nil {
		return nil, err
	}
	err = db.CreateIndex(InvoiceOrderedByTime, invoicePrefix+"*", buntdb.IndexJSON("created_at"))
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Debugf("[storage] Opened %s", filePath)
	return &DB{db}, nil
}

// Exists checks is storable item exists
func (db *DB) Exists(storable Storable) (bool, error) {
	err := db.View(func(tx *buntdb.Tx) error {
		_, err := tx.Get(storable.Key())
		return err
	})
	if err == buntdb.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get a storable item
func (db *DB) Get(object Storable) error {
	return db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(object.Key())
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(val), object)
	})
}

// Set a storable item.
func (db *DB) Set(object Storable) error {
	return db.Update(func(tx *buntdb.Tx) error {
		b, err := json.Marshal(object)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(object.Key(), string(b), nil)
		return err
	})
}

// Delete a storable item.
func (db *DB) Delete(object Storable) error {
	return db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(object.Key())
		if err == buntdb.ErrNotFound {
			return nil
		}
		return err
	})
}

// Invoices returns the recorded invoices, oldest first. A non-empty address
// restricts the result to that payee.
func (db *DB) Invoices(address string) ([]InvoiceRecord, error) {
	var records []InvoiceRecord
	err := db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		iterErr := tx.Ascend(InvoiceOrderedByTime, func(key, value string) bool {
			var r InvoiceRecord
			if err := json.Unmarshal([]byte(value), &r); err != nil {
				decodeErr = fmt.Errorf("record %s: %w", key, err)
				return false
			}
			if address == "" || r.Address == address {
				records = append(records, r)
			}
			return true
		})
		if iterErr != nil {
			return iterErr
		}
		return decodeErr
	})
	return records, err
}
