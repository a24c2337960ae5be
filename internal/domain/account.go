package domain

import (
	"fmt"
	"time"
)

// Common validation errors, all matching errors.Is(err, ErrValidation).
var (
	ErrEmptyToken = fmt.Errorf("%w: account token cannot be empty", ErrValidation)
	ErrEmptyPhone = fmt.Errorf("%w: account phone cannot be empty", ErrValidation)
)

// addedTimeLayout is the display format for Account.AddedTime, kept
// compatible with the account lists exported by earlier releases.
const addedTimeLayout = "01-02 15:04"

// Account represents one stored identity on the membership platform.
// Two accounts are the same account iff their Phone values are equal;
// every other field may change across re-authentication.
type Account struct {
	// Token is the opaque bearer credential issued by the platform.
	// It is replayed verbatim on every authenticated call and is
	// never derived from or hashed locally.
	Token string `json:"token"`

	// Nickname is the display name reported by the platform.
	Nickname string `json:"nickname"`

	// Phone is the sole identity key for deduplication.
	Phone string `json:"phone"`

	// Hid is the platform-issued account handle.
	Hid string `json:"hid"`

	// ShareUserHid tags a single quiz submission as answered with help
	// from another account. Run-scoped; never persisted.
	ShareUserHid string `json:"-"`

	// Order is the dense 0..N-1 position within the registry.
	Order int `json:"order"`

	// AddedTime records when the account was captured, in the
	// "MM-dd HH:mm" display form. Immutable after creation.
	AddedTime string `json:"added_time"`
}

// NewAccount creates an Account captured at the current time.
// Returns an error if required identity fields are missing.
func NewAccount(token, nickname, phone, hid string) (*Account, error) {
	a := &Account{
		Token:     token,
		Nickname:  nickname,
		Phone:     phone,
		Hid:       hid,
		AddedTime: time.Now().Format(addedTimeLayout),
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate checks that the Account carries the fields every remote
// operation depends on.
func (a *Account) Validate() error {
	if a.Token == "" {
		return ErrEmptyToken
	}

	if a.Phone == "" {
		return ErrEmptyPhone
	}

	return nil
}

// MaskedPhone returns the phone with the middle six digits hidden,
// e.g. "13800000000" -> "138******00". Phones that are not exactly
// 11 characters are returned unmodified.
func (a *Account) MaskedPhone() string {
	if len(a.Phone) != 11 {
		return a.Phone
	}
	return a.Phone[:3] + "******" + a.Phone[9:]
}
