// Package payment manages saved payment cards. Full card numbers and CVVs are
// validated on the way in and never stored.
package payment

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"grocery.GO/core/validate"
	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
	"grocery.GO/model/repository/customer"
)

var ErrNotFound = errors.New("Payment card not found")

const MsgCardExpired = "Card has expired"

// Input is a card as entered by the customer.
type Input struct {
	CardNumber string `json:"cardNumber" validate:"cardnumber"`
	CardName   string `json:"cardName" validate:"required,min=2"`
	ExpiryDate string `json:"expiryDate" validate:"expiry"`
	CVV        string `json:"cvv" validate:"cvv"`
	IsDefault  bool   `json:"isDefault"`
}

// Update changes the editable fields of a saved card; nil fields are left alone.
type Update struct {
	CardName   *string `json:"cardName,omitempty"`
	ExpiryDate *string `json:"expiryDate,omitempty"`
	IsDefault  *bool   `json:"isDefault,omitempty"`
}

var messages = map[string]string{
	"cardName": "Cardholder name is required",
}

type Stats struct {
	TotalCards     int  `json:"totalCards"`
	ActiveCards    int  `json:"activeCards"`
	ExpiredCards   int  `json:"expiredCards"`
	DeclinedCards  int  `json:"declinedCards"`
	HasDefaultCard bool `json:"hasDefaultCard"`
}

type Service struct {
	repo *customer.PaymentCardRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo *customer.PaymentCardRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log, now: time.Now}
}

// Validate checks the card fields and that the card has not expired.
func (s *Service) Validate(in Input) error {
	in.CardName = strings.TrimSpace(in.CardName)
	verr := &validate.Error{}
	if err := validate.Struct(in, messages); err != nil {
		var fields *validate.Error
		if !errors.As(err, &fields) {
			return err
		}
		verr = fields
	}
	if Expired(in.ExpiryDate, s.now()) {
		verr.Add("expiryDate", MsgCardExpired)
	}
	return verr.OrNil()
}

// Expired reports whether an MM/YY expiry lies before now's month. A card stays
// valid through its expiry month. Malformed dates are not reported as expired.
func Expired(expiry string, now time.Time) bool {
	month, year, ok := parseExpiry(expiry)
	if !ok {
		return false
	}
	firstInvalid := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, now.Location())
	return !now.Before(firstInvalid)
}

func parseExpiry(s string) (month, year int, ok bool) {
	mm, yy, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found || len(mm) != 2 || len(yy) != 2 {
		return 0, 0, false
	}
	m, err1 := strconv.Atoi(mm)
	y, err2 := strconv.Atoi(yy)
	if err1 != nil || err2 != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	return m, y, true
}

func (s *Service) ByUser(ctx context.Context, userID string) ([]entity.PaymentCard, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *Service) ByID(ctx context.Context, userID, id string) (*entity.PaymentCard, error) {
	c, err := s.repo.FindByID(ctx, id)
	if repository.IsNotFound(err) || (err == nil && c.UserID != userID) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *Service) Default(ctx context.Context, userID string) (*entity.PaymentCard, error) {
	c, err := s.repo.FindDefault(ctx, userID)
	if repository.IsNotFound(err) {
		return nil, ErrNotFound
	}
	return c, err
}

// Add validates and stores a card. Only the masked number and last four digits are kept.
func (s *Service) Add(ctx context.Context, userID string, in Input) (*entity.PaymentCard, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	c := &entity.PaymentCard{
		UserID:     userID,
		CardType:   DetectCardType(in.CardNumber),
		CardNumber: Mask(in.CardNumber),
		Last4:      Last4(in.CardNumber),
		CardName:   strings.TrimSpace(in.CardName),
		ExpiryDate: strings.TrimSpace(in.ExpiryDate),
		IsDefault:  in.IsDefault || len(existing) == 0,
		Status:     entity.CardStatusActive,
		LastUsed:   &now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create payment card: %w", err)
	}
	s.log.Info("payment card added", zap.String("card_id", c.ID), zap.String("user_id", userID),
		zap.String("type", c.CardType), zap.String("last4", c.Last4))
	return c, nil
}

// Update applies u. A new expiry date re-derives the card status.
func (s *Service) Update(ctx context.Context, userID, id string, u Update) (*entity.PaymentCard, error) {
	c, err := s.ByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	verr := &validate.Error{}
	if u.CardName != nil {
		name := strings.TrimSpace(*u.CardName)
		if len(name) < 2 {
			verr.Add("cardName", messages["cardName"])
		}
		c.CardName = name
	}
	if u.ExpiryDate != nil {
		if _, _, ok := parseExpiry(*u.ExpiryDate); !ok {
			verr.Add("expiryDate", "Expiry date must be in MM/YY format")
		} else if Expired(*u.ExpiryDate, s.now()) {
			verr.Add("expiryDate", MsgCardExpired)
		}
		c.ExpiryDate = strings.TrimSpace(*u.ExpiryDate)
		c.Status = entity.CardStatusActive
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if u.IsDefault != nil && *u.IsDefault {
		c.IsDefault = true
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("update payment card: %w", err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) (*entity.PaymentCard, error) {
	c, err := s.ByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.log.Info("payment card deleted", zap.String("card_id", id), zap.String("user_id", userID))
	return c, nil
}

// SetDefault makes id the user's only default card.
func (s *Service) SetDefault(ctx context.Context, userID, id string) (*entity.PaymentCard, error) {
	c, err := s.ByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.IsDefault = true
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	cards, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{TotalCards: len(cards)}
	for _, c := range cards {
		switch c.Status {
		case entity.CardStatusActive:
			st.ActiveCards++
		case entity.CardStatusExpired:
			st.ExpiredCards++
		case entity.CardStatusDeclined:
			st.DeclinedCards++
		}
		if c.IsDefault {
			st.HasDefaultCard = true
		}
	}
	return st, nil
}

var cardTypes = []struct {
	name string
	re   *regexp.Regexp
}{
	{"Visa", regexp.MustCompile(`^4`)},
	{"Mastercard", regexp.MustCompile(`^5[1-5]`)},
	{"American Express", regexp.MustCompile(`^3[47]`)},
	{"Discover", regexp.MustCompile(`^6(?:011|5)`)},
	{"Diners Club", regexp.MustCompile(`^3[0689]`)},
	{"JCB", regexp.MustCompile(`^35`)},
}

// DetectCardType names the card network from the number prefix.
func DetectCardType(number string) string {
	digits := validate.Digits(number)
	for _, t := range cardTypes {
		if t.re.MatchString(digits) {
			return t.name
		}
	}
	return "Unknown"
}

func Last4(number string) string {
	digits := validate.Digits(number)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// Mask renders a number as "**** **** **** 1234".
func Mask(number string) string {
	return "**** **** **** " + Last4(number)
}

// TestCardNumbers lists sandbox numbers per network and scenario.
func TestCardNumbers() map[string]map[string]string {
	return map[string]map[string]string{
		"visa": {
			"valid":             "4111 1111 1111 1111",
			"declined":          "4000 0000 0000 0002",
			"insufficientFunds": "4000 0000 0000 9995",
		},
		"mastercard": {
			"valid":    "5555 5555 5555 4444",
			"declined": "2223 0000 0000 0001",
		},
		"amex": {
			"valid":    "3782 822463 10005",
			"declined": "3714 496353 98431",
		},
		"discover": {
			"valid": "6011 1111 1111 1117",
		},
	}
}
