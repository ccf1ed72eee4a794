package session

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"grocery.GO/core/store"
	"grocery.GO/model/entity"
	"grocery.GO/service/account"
)

var ErrNotLoggedIn = errors.New("Please login to continue")

type AuthState struct {
	User            *entity.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	Loading         bool         `json:"loading"`
	Error           string       `json:"error,omitempty"`
}

type (
	authStart   struct{}
	authSuccess struct{ user entity.User }
	authFailure struct{ message string }
	setUser     struct{ user *entity.User }
	loggedOut   struct{}
	clearError  struct{}
)

func reduceAuth(prev AuthState, action store.Action) AuthState {
	next := prev
	switch a := action.(type) {
	case authStart:
		next.Loading = true
		next.Error = ""
	case authSuccess:
		u := a.user.Public()
		next = AuthState{User: &u, IsAuthenticated: true}
	case authFailure:
		next.Loading = false
		next.Error = a.message
	case setUser:
		if a.user == nil {
			next.User = nil
			next.IsAuthenticated = false
			break
		}
		u := a.user.Public()
		next.User = &u
		next.IsAuthenticated = true
	case loggedOut:
		next = AuthState{}
	case clearError:
		next.Error = ""
	default:
		return prev
	}
	return next
}

// Auth is the login state of one session. The token lives in storage under TokenKey.
type Auth struct {
	st      *store.Store[AuthState]
	backend account.Backend
	storage TokenStorage
	log     *zap.Logger
}

func NewAuth(backend account.Backend, storage TokenStorage, log *zap.Logger) *Auth {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Auth{st: store.New(AuthState{}, reduceAuth), backend: backend, storage: storage, log: log}
}

func (a *Auth) State() AuthState {
	return a.st.State()
}

// CurrentUser returns the logged-in user.
func (a *Auth) CurrentUser() (entity.User, bool) {
	st := a.st.State()
	if !st.IsAuthenticated || st.User == nil {
		return entity.User{}, false
	}
	return *st.User, true
}

func (a *Auth) Subscribe(fn func(AuthState)) func() {
	return a.st.Subscribe(func(st AuthState, _ store.Action) { fn(st) })
}

func (a *Auth) Login(ctx context.Context, email, password string) (*entity.User, error) {
	a.st.Dispatch(authStart{})
	sess, err := a.backend.Login(ctx, email, password)
	if err != nil {
		a.st.Dispatch(authFailure{message: err.Error()})
		return nil, err
	}
	return a.signIn(ctx, sess)
}

func (a *Auth) Register(ctx context.Context, req account.RegisterRequest) (*entity.User, error) {
	a.st.Dispatch(authStart{})
	sess, err := a.backend.Register(ctx, req)
	if err != nil {
		a.st.Dispatch(authFailure{message: err.Error()})
		return nil, err
	}
	return a.signIn(ctx, sess)
}

func (a *Auth) signIn(ctx context.Context, sess *account.Session) (*entity.User, error) {
	if err := a.storage.Set(ctx, TokenKey, sess.Token); err != nil {
		a.st.Dispatch(authFailure{message: err.Error()})
		return nil, err
	}
	st := a.st.Dispatch(authSuccess{user: sess.User})
	return st.User, nil
}

// Logout always ends the local session; backend failures are only logged.
func (a *Auth) Logout(ctx context.Context) error {
	token, ok, err := a.storage.Get(ctx, TokenKey)
	if err != nil {
		a.log.Warn("read token on logout", zap.Error(err))
	}
	if ok {
		if err := a.backend.Logout(ctx, token); err != nil {
			a.log.Warn("backend logout failed", zap.Error(err))
		}
	}
	a.st.Dispatch(loggedOut{})
	return a.storage.Remove(ctx, TokenKey)
}

// Rehydrate restores the user from a stored token. An unusable token is removed and the
// session stays anonymous.
func (a *Auth) Rehydrate(ctx context.Context) error {
	token, ok, err := a.storage.Get(ctx, TokenKey)
	if err != nil || !ok {
		return err
	}
	u, err := a.backend.UserByToken(ctx, token)
	if err != nil {
		a.log.Info("dropping stored token", zap.Error(err))
		return a.storage.Remove(ctx, TokenKey)
	}
	a.st.Dispatch(setUser{user: u})
	return nil
}

// SetUser replaces the session user; nil signs out locally without touching storage.
func (a *Auth) SetUser(u *entity.User) AuthState {
	return a.st.Dispatch(setUser{user: u})
}

func (a *Auth) ClearError() AuthState {
	return a.st.Dispatch(clearError{})
}

func (a *Auth) UpdateProfile(ctx context.Context, upd account.ProfileUpdate) (*entity.User, error) {
	cur, ok := a.CurrentUser()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	u, err := a.backend.UpdateProfile(ctx, cur.ID, upd)
	if err != nil {
		a.st.Dispatch(authFailure{message: err.Error()})
		return nil, err
	}
	return a.st.Dispatch(setUser{user: u}).User, nil
}

func (a *Auth) UpdateSettings(ctx context.Context, settings entity.Settings) (entity.Settings, error) {
	cur, ok := a.CurrentUser()
	if !ok {
		return entity.Settings{}, ErrNotLoggedIn
	}
	saved, err := a.backend.UpdateSettings(ctx, cur.ID, settings)
	if err != nil {
		return entity.Settings{}, err
	}
	cur.Settings = datatypes.NewJSONType(saved)
	a.st.Dispatch(setUser{user: &cur})
	return saved, nil
}
