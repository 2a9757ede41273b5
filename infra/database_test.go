package infra_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra"
	"github.com/amirasaad/ledger/infra/repository"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBConnectionRequiresURL(t *testing.T) {
	_, err := infra.NewDBConnection(&config.DB{}, "test")
	assert.Error(t, err)
	_, err = infra.NewDBConnection(nil, "test")
	assert.Error(t, err)
}

func TestNewDBConnectionSQLite(t *testing.T) {
	db, err := infra.NewDBConnection(&config.DB{
		Url:             "sqlite://file::memory:?cache=shared",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}, "test")
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(context.Background(), db))
	assert.True(t, db.Migrator().HasTable("accounts"))
	assert.True(t, db.Migrator().HasTable("transactions"))

	uow := repository.NewUoW(db)
	assert.NoError(t, uow.Ping(context.Background()))
}
