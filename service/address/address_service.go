// Package address manages a customer's saved delivery addresses.
package address

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"grocery.GO/core/validate"
	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
	"grocery.GO/model/repository/customer"
)

var ErrNotFound = errors.New("Address not found")

// Input is a new or replacement address as submitted by the customer.
type Input struct {
	Type        string              `json:"type" validate:"omitempty,oneof=home work other"`
	Label       string              `json:"label"`
	IsDefault   bool                `json:"isDefault"`
	Address     entity.AddressLines `json:"address"`
	ContactInfo entity.ContactInfo  `json:"contactInfo"`
}

var messages = map[string]string{
	"address.street":   "Street address is required and must be at least 5 characters",
	"address.city":     "City is required",
	"address.state":    "State is required",
	"contactInfo.name": "Contact name is required",
}

func (in Input) normalized() Input {
	in.Address.Street = strings.TrimSpace(in.Address.Street)
	in.Address.Apartment = strings.TrimSpace(in.Address.Apartment)
	in.Address.City = strings.TrimSpace(in.Address.City)
	in.Address.State = strings.TrimSpace(in.Address.State)
	in.Address.ZipCode = strings.TrimSpace(in.Address.ZipCode)
	in.Address.Country = strings.TrimSpace(in.Address.Country)
	in.ContactInfo.Name = strings.TrimSpace(in.ContactInfo.Name)
	in.ContactInfo.Phone = strings.TrimSpace(in.ContactInfo.Phone)
	if in.Type == "" {
		in.Type = "home"
	}
	return in
}

// Validate returns a *validate.Error listing every invalid field.
func (in Input) Validate() error {
	return validate.Struct(in.normalized(), messages)
}

type Stats struct {
	TotalAddresses    int      `json:"totalAddresses"`
	HasDefaultAddress bool     `json:"hasDefaultAddress"`
	AddressTypes      []string `json:"addressTypes"`
}

type Service struct {
	repo *customer.AddressRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo *customer.AddressRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log, now: time.Now}
}

func (s *Service) ByUser(ctx context.Context, userID string) ([]entity.Address, error) {
	return s.repo.FindByUser(ctx, userID)
}

// ByID returns the address when it belongs to userID.
func (s *Service) ByID(ctx context.Context, userID, id string) (*entity.Address, error) {
	a, err := s.repo.FindByID(ctx, id)
	if repository.IsNotFound(err) || (err == nil && a.UserID != userID) {
		return nil, ErrNotFound
	}
	return a, err
}

func (s *Service) Default(ctx context.Context, userID string) (*entity.Address, error) {
	a, err := s.repo.FindDefault(ctx, userID)
	if repository.IsNotFound(err) {
		return nil, ErrNotFound
	}
	return a, err
}

// Add stores a new address. A user's first address always becomes the default.
func (s *Service) Add(ctx context.Context, userID string, in Input) (*entity.Address, error) {
	in = in.normalized()
	if err := validate.Struct(in, messages); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	a := &entity.Address{
		UserID:      userID,
		Type:        in.Type,
		Label:       in.Label,
		IsDefault:   in.IsDefault || len(existing) == 0,
		Address:     in.Address,
		ContactInfo: in.ContactInfo,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	s.log.Info("address added", zap.String("address_id", a.ID), zap.String("user_id", userID), zap.Bool("default", a.IsDefault))
	return a, nil
}

// Update replaces the address fields. The default flag is only ever raised here;
// use SetDefault to move it.
func (s *Service) Update(ctx context.Context, userID, id string, in Input) (*entity.Address, error) {
	a, err := s.ByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in = in.normalized()
	if err := validate.Struct(in, messages); err != nil {
		return nil, err
	}
	a.Type = in.Type
	a.Label = in.Label
	a.Address = in.Address
	a.ContactInfo = in.ContactInfo
	if in.IsDefault {
		a.IsDefault = true
	}
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) (*entity.Address, error) {
	a, err := s.ByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.log.Info("address deleted", zap.String("address_id", id), zap.String("user_id", userID))
	return a, nil
}

// SetDefault makes id the user's only default address.
func (s *Service) SetDefault(ctx context.Context, userID, id string) (*entity.Address, error) {
	a, err := s.ByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	a.IsDefault = true
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	list, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{TotalAddresses: len(list), AddressTypes: []string{}}
	seen := map[string]bool{}
	for _, a := range list {
		if a.IsDefault {
			st.HasDefaultAddress = true
		}
		if !seen[a.Type] {
			seen[a.Type] = true
			st.AddressTypes = append(st.AddressTypes, a.Type)
		}
	}
	sort.Strings(st.AddressTypes)
	return st, nil
}

// Format renders "street[, apartment], city, state zip, country".
func Format(a entity.Address) string {
	l := a.Address
	var b strings.Builder
	b.WriteString(l.Street)
	if l.Apartment != "" {
		b.WriteString(", ")
		b.WriteString(l.Apartment)
	}
	fmt.Fprintf(&b, ", %s, %s %s", l.City, l.State, l.ZipCode)
	if l.Country != "" {
		b.WriteString(", ")
		b.WriteString(l.Country)
	}
	return b.String()
}
