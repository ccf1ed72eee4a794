package account

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
	"grocery.GO/model/repository/user"
	"grocery.GO/service/latency"
	"grocery.GO/service/order"
)

// Simulated is a fake Backend over the fixture database. Every call waits for a simulated
// network delay, and order submission can be made to fail with FailOrders.
type Simulated struct {
	users   *user.UserRepository
	orders  *order.Service
	latency *latency.Simulator
	log     *zap.Logger
	now     func() time.Time

	mu        sync.Mutex
	orderFail error
}

var _ Backend = (*Simulated)(nil)

func NewSimulated(users *user.UserRepository, orders *order.Service, lat *latency.Simulator, log *zap.Logger) *Simulated {
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulated{users: users, orders: orders, latency: lat, log: log, now: time.Now}
}

// FailOrders makes every AddOrder return err until called again with nil.
func (s *Simulated) FailOrders(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderFail = err
}

func (s *Simulated) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := s.latency.Wait(ctx, latency.Auth); err != nil {
		return nil, err
	}
	u, err := s.users.FindByEmail(ctx, email)
	if repository.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.Password != password {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

func (s *Simulated) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	if err := s.latency.Wait(ctx, latency.Auth); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.users.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}
	u := &entity.User{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		JoinDate:  s.now(),
		Settings:  datatypes.NewJSONType(entity.DefaultSettings()),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return s.issue(ctx, u)
}

func (s *Simulated) issue(ctx context.Context, u *entity.User) (*Session, error) {
	t := &entity.AuthToken{UserID: u.ID, Token: "token_" + u.ID + "_" + uuid.NewString()}
	if err := s.users.CreateToken(ctx, t); err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: u.Public(), Token: t.Token}, nil
}

// Logout revokes token. Unknown tokens are not an error.
func (s *Simulated) Logout(ctx context.Context, token string) error {
	if err := s.latency.Wait(ctx, latency.Read); err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	return s.users.RevokeToken(ctx, token)
}

func (s *Simulated) UserByToken(ctx context.Context, token string) (*entity.User, error) {
	if err := s.latency.Wait(ctx, latency.Read); err != nil {
		return nil, err
	}
	t, err := s.users.FindActiveToken(ctx, token)
	if repository.IsNotFound(err) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return s.findUser(ctx, t.UserID)
}

func (s *Simulated) UserByID(ctx context.Context, id string) (*entity.User, error) {
	if err := s.latency.Wait(ctx, latency.Read); err != nil {
		return nil, err
	}
	return s.findUser(ctx, id)
}

func (s *Simulated) findUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

func (s *Simulated) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*entity.User, error) {
	if err := s.latency.Wait(ctx, latency.Mutation); err != nil {
		return nil, err
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, userID)
	if repository.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	upd.apply(u)
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

func (s *Simulated) UpdateSettings(ctx context.Context, userID string, settings entity.Settings) (entity.Settings, error) {
	if err := s.latency.Wait(ctx, latency.Mutation); err != nil {
		return entity.Settings{}, err
	}
	u, err := s.users.FindByID(ctx, userID)
	if repository.IsNotFound(err) {
		return entity.Settings{}, ErrUserNotFound
	}
	if err != nil {
		return entity.Settings{}, err
	}
	if settings.Privacy.ProfileVisibility == "" {
		settings.Privacy.ProfileVisibility = u.Settings.Data().Privacy.ProfileVisibility
	}
	u.Settings = datatypes.NewJSONType(settings)
	if err := s.users.Save(ctx, u); err != nil {
		return entity.Settings{}, err
	}
	return settings, nil
}

// AddOrder stores a processing order for userID.
func (s *Simulated) AddOrder(ctx context.Context, userID string, req order.Request) (*entity.Order, error) {
	if err := s.latency.Wait(ctx, latency.Mutation); err != nil {
		return nil, err
	}
	s.mu.Lock()
	fault := s.orderFail
	s.mu.Unlock()
	if fault != nil {
		return nil, fault
	}
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.orders.Create(ctx, userID, req)
}

func (s *Simulated) UserOrders(ctx context.Context, userID string) ([]entity.Order, error) {
	if err := s.latency.Wait(ctx, latency.Read); err != nil {
		return nil, err
	}
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.orders.ByUser(ctx, userID)
}
