package account

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery.GO/core/validate"
	"grocery.GO/model/entity"
	"grocery.GO/model/repository/sales"
	"grocery.GO/model/repository/user"
	"grocery.GO/service/fixture"
	"grocery.GO/service/latency"
	"grocery.GO/service/order"
)

func newBackend(t *testing.T) *Simulated {
	t.Helper()
	db, err := fixture.OpenMemory(context.Background(), nil)
	require.NoError(t, err)
	orders := order.NewService(sales.NewOrderRepository(db), nil)
	return NewSimulated(user.NewUserRepository(db), orders, latency.New(0), nil)
}

func TestLogin(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	sess, err := b.Login(ctx, "JOHN.DOE@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "1", sess.User.ID)
	assert.Empty(t, sess.User.Password)
	assert.NotEmpty(t, sess.Token)

	u, err := b.UserByToken(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "John", u.FirstName)
	assert.Empty(t, u.Password)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	_, err := b.Login(ctx, "john.doe@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = b.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Invalid email or password", err.Error())
}

func TestLogout_RevokesToken(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	sess, err := b.Login(ctx, "john.doe@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, b.Logout(ctx, sess.Token))

	_, err = b.UserByToken(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NoError(t, b.Logout(ctx, "unknown"))
}

func TestRegister(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	sess, err := b.Register(ctx, RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "engine42",
	})
	require.NoError(t, err)
	assert.Equal(t, "3", sess.User.ID)
	assert.Equal(t, entity.DefaultSettings(), sess.User.Settings.Data())

	again, err := b.Login(ctx, "ada@example.com", "engine42")
	require.NoError(t, err)
	assert.Equal(t, "3", again.User.ID)

	_, err = b.Register(ctx, RegisterRequest{FirstName: "A", LastName: "B", Email: "ADA@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_Validation(t *testing.T) {
	b := newBackend(t)
	_, err := b.Register(context.Background(), RegisterRequest{Email: "not-an-email", Password: "123"})

	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	fields := verr.Map()
	assert.Equal(t, "First name is required", fields["firstName"])
	assert.Equal(t, "Valid email is required", fields["email"])
	assert.Equal(t, "Password must be at least 6 characters", fields["password"])
}

func TestUpdateProfile(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	name := "Johnny"
	u, err := b.UpdateProfile(ctx, "1", ProfileUpdate{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", u.FirstName)
	assert.Equal(t, "Doe", u.LastName)
	assert.Empty(t, u.Password)

	_, err = b.Login(ctx, "john.doe@example.com", "password123")
	assert.NoError(t, err, "password must survive a profile update")

	_, err = b.UpdateProfile(ctx, "99", ProfileUpdate{FirstName: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)

	bad := "31/12/1990"
	_, err = b.UpdateProfile(ctx, "1", ProfileUpdate{DateOfBirth: &bad})
	var verr *validate.Error
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateSettings(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	got, err := b.UpdateSettings(ctx, "2", entity.Settings{
		Notifications: entity.NotificationSettings{OrderUpdates: false, Newsletter: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "private", got.Privacy.ProfileVisibility)

	u, err := b.UserByID(ctx, "2")
	require.NoError(t, err)
	assert.False(t, u.Settings.Data().Notifications.OrderUpdates)

	_, err = b.UpdateSettings(ctx, "99", entity.Settings{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddOrder(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	req := order.Request{
		Total: decimal.RequireFromString("3.99"),
		Items: []entity.OrderItem{{ID: 8, Title: "Whole Milk", Price: decimal.RequireFromString("3.99"), Quantity: 1}},
	}

	o, err := b.AddOrder(ctx, "2", req)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessing, o.Status)

	orders, err := b.UserOrders(ctx, "2")
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = b.AddOrder(ctx, "99", req)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = b.UserOrders(ctx, "99")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddOrder_InjectedFailure(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	boom := errors.New("simulated network error")
	b.FailOrders(boom)

	req := order.Request{Items: []entity.OrderItem{{ID: 1, Title: "Apples", Quantity: 1}}}
	_, err := b.AddOrder(ctx, "1", req)
	assert.ErrorIs(t, err, boom)

	b.FailOrders(nil)
	_, err = b.AddOrder(ctx, "1", req)
	assert.NoError(t, err)
}

func TestLatencyHonorsContext(t *testing.T) {
	db, err := fixture.OpenMemory(context.Background(), nil)
	require.NoError(t, err)
	b := NewSimulated(user.NewUserRepository(db), order.NewService(sales.NewOrderRepository(db), nil), latency.New(100), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Login(ctx, "john.doe@example.com", "password123")
	assert.ErrorIs(t, err, context.Canceled)
}
