// Package session is the single owner of the logged-in identity.
//
// A Record is persisted by a Store (SQLite by default, Redis when several
// terminals or machines must share one session) under the keys user,
// isLoggedIn, token and referralCode. Provider caches the record, gates
// protected commands, and notifies subscribers whenever it changes.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
)

const (
	KeyUser         = "user"
	KeyIsLoggedIn   = "isLoggedIn"
	KeyToken        = "token"
	KeyReferralCode = "referralCode"
)

// Keys lists every persisted key; logout deletes all of them.
var Keys = []string{KeyUser, KeyIsLoggedIn, KeyToken, KeyReferralCode}

var ErrCorruptRecord = errors.New("corrupt session record")

type Record struct {
	User         *models.User
	IsLoggedIn   bool
	Token        string
	ReferralCode string
}

// Active reports whether the record represents a usable login.
func (r Record) Active() bool {
	return r.IsLoggedIn && r.User != nil
}

// encode maps the record onto storage keys. Empty fields map to nil,
// meaning "delete".
func (r Record) encode() (map[string][]byte, error) {
	out := map[string][]byte{
		KeyUser:         nil,
		KeyIsLoggedIn:   []byte("false"),
		KeyToken:        nil,
		KeyReferralCode: nil,
	}
	if r.User != nil {
		b, err := json.Marshal(r.User)
		if err != nil {
			return nil, fmt.Errorf("encode user: %w", err)
		}
		out[KeyUser] = b
	}
	if r.IsLoggedIn {
		out[KeyIsLoggedIn] = []byte("true")
	}
	if r.Token != "" {
		out[KeyToken] = []byte(r.Token)
	}
	if r.ReferralCode != "" {
		out[KeyReferralCode] = []byte(r.ReferralCode)
	}
	return out, nil
}

func decode(vals map[string][]byte) (Record, error) {
	var r Record
	if b := vals[KeyUser]; len(b) > 0 {
		var u models.User
		if err := json.Unmarshal(b, &u); err != nil {
			return Record{ReferralCode: string(vals[KeyReferralCode])}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
		}
		r.User = &u
	}
	r.IsLoggedIn = string(vals[KeyIsLoggedIn]) == "true"
	r.Token = string(vals[KeyToken])
	r.ReferralCode = string(vals[KeyReferralCode])
	return r, nil
}
