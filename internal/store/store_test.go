package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rentfleet/apiserver/internal/db"
	"github.com/rentfleet/apiserver/internal/errs"
	"github.com/rentfleet/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatewayWithMock(t *testing.T) (*db.Gateway, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return db.NewGateway(conn), mock
}

const (
	insertUserQuery = `(?s)^\s*INSERT\s+INTO\s+users\s*\(username,\s*role,\s*email,\s*password\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id\s*$`
	selectUserQuery = `(?s)^\s*SELECT\s+id,\s*username,\s*role,\s*email,\s*password\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`
	insertCarQuery  = `(?s)^\s*INSERT\s+INTO\s+cars\s*\(category,\s*model,\s*number_plate,\s*current_city,\s*rent_per_hr,\s*rent_history\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id\s*$`
)

func TestUserRepository_Create(t *testing.T) {
	gw, mock := newGatewayWithMock(t)
	repo := NewUserRepository(gw)

	mock.ExpectQuery(insertUserQuery).
		WithArgs("alice", "customer", "alice@example.com", "$2a$10$hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	got, err := repo.Create(context.Background(), types.User{
		Username:     "alice",
		Role:         "customer",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, "alice", got.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateIsDatabaseError(t *testing.T) {
	gw, mock := newGatewayWithMock(t)
	repo := NewUserRepository(gw)

	mock.ExpectQuery(insertUserQuery).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "users_username_key"`))

	_, err := repo.Create(context.Background(), types.User{Username: "alice"})
	assert.Equal(t, errs.KindDatabase, errs.KindOf(err))
}

func TestUserRepository_GetByUsername(t *testing.T) {
	gw, mock := newGatewayWithMock(t)
	repo := NewUserRepository(gw)

	mock.ExpectQuery(selectUserQuery).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "email", "password"}).
			AddRow(int64(3), "alice", "owner", "alice@example.com", []byte("$2a$10$hash")))

	got, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, types.User{
		ID:           3,
		Username:     "alice",
		Role:         "owner",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
	}, got)
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	gw, mock := newGatewayWithMock(t)
	repo := NewUserRepository(gw)

	mock.ExpectQuery(selectUserQuery).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "email", "password"}))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_GetByUsername_DBError(t *testing.T) {
	gw, mock := newGatewayWithMock(t)
	repo := NewUserRepository(gw)

	mock.ExpectQuery(selectUserQuery).WillReturnError(sql.ErrConnDone)

	_, err := repo.GetByUsername(context.Background(), "alice")
	assert.Equal(t, errs.KindDatabase, errs.KindOf(err))
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestVehicleRepository_Create_WithHistory(t *testing.T) {
	gw, mock := newGatewayWithMock(t)
	repo := NewVehicleRepository(gw)

	mock.ExpectQuery(insertCarQuery).
		WithArgs("sedan", "Corolla", "KA-01-1234", "Pune", 150.5, `[{"user":"bob","hours":3}]`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	got, err := repo.Create(context.Background(), types.Vehicle{
		Category:    "sedan",
		Model:       "Corolla",
		NumberPlate: "KA-01-1234",
		CurrentCity: "Pune",
		RentPerHour: 150.5,
		RentHistory: json.RawMessage(`[ {"user": "bob", "hours": 3} ]`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	assert.JSONEq(t, `[{"user":"bob","hours":3}]`, string(got.RentHistory))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepository_Create_WithoutHistoryStoresNull(t *testing.T) {
	gw, mock := newGatewayWithMock(t)
	repo := NewVehicleRepository(gw)

	mock.ExpectQuery(insertCarQuery).
		WithArgs("suv", "XUV", "MH-12-0001", "Mumbai", 99.0, "null").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(6)))

	got, err := repo.Create(context.Background(), types.Vehicle{
		Category:    "suv",
		Model:       "XUV",
		NumberPlate: "MH-12-0001",
		CurrentCity: "Mumbai",
		RentPerHour: 99,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepository_Create_NotIdempotent(t *testing.T) {
	gw, mock := newGatewayWithMock(t)
	repo := NewVehicleRepository(gw)

	vehicle := types.Vehicle{Category: "suv", Model: "XUV", NumberPlate: "MH-12-0001", CurrentCity: "Mumbai", RentPerHour: 99}
	mock.ExpectQuery(insertCarQuery).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(insertCarQuery).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

	first, err := repo.Create(context.Background(), vehicle)
	require.NoError(t, err)
	second, err := repo.Create(context.Background(), vehicle)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestVehicleRepository_Create_InvalidHistoryNeverQueries(t *testing.T) {
	gw, mock := newGatewayWithMock(t)
	repo := NewVehicleRepository(gw)

	_, err := repo.Create(context.Background(), types.Vehicle{RentHistory: json.RawMessage(`{broken`)})
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSerializeRentHistory(t *testing.T) {
	tests := []struct {
		name string
		in   json.RawMessage
		want string
	}{
		{"absent", nil, "null"},
		{"blank", json.RawMessage("  "), "null"},
		{"explicit null", json.RawMessage("null"), "null"},
		{"object", json.RawMessage(`{ "a" : 1 }`), `{"a":1}`},
		{"list", json.RawMessage(`[1, 2]`), `[1,2]`},
		{"string", json.RawMessage(`"weekly"`), `"weekly"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SerializeRentHistory(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
