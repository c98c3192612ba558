package repository

import (
	"testing"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewCartRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewCartRepository(pool)
	assert.NotNil(t, repo)
}

func TestErrAlreadyInCart(t *testing.T) {
	assert.True(t, domain.IsConflict(ErrAlreadyInCart))
}
