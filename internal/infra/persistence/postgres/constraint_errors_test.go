package postgres

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueConstraintViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "gorm translated duplicate key",
			err:  gorm.ErrDuplicatedKey,
			want: true,
		},
		{
			name: "wrapped gorm duplicate key",
			err:  errors.Wrap(gorm.ErrDuplicatedKey, "create account"),
			want: true,
		},
		{
			name: "pq duplicate key message",
			err:  errors.New(`pq: duplicate key value violates unique constraint "accounts_username_key"`),
			want: true,
		},
		{
			name: "pgx sqlstate code",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "accounts_pkey" (SQLSTATE 23505)`),
			want: true,
		},
		{
			name: "bare sqlstate code",
			err:  errors.New("SQLSTATE 23505"),
			want: true,
		},
		{
			name: "unrelated database error",
			err:  errors.New("pq: connection refused"),
			want: false,
		},
		{
			name: "not-null violation is not a conflict",
			err:  errors.New(`pq: null value in column "email" violates not-null constraint (SQLSTATE 23502)`),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, isUniqueConstraintViolation(tt.err))
		})
	}
}

func TestIsNotNullConstraintViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, isNotNullConstraintViolation(
		errors.New(`pq: null value in column "email" violates not-null constraint`)))
	assert.True(t, isNotNullConstraintViolation(errors.New("SQLSTATE 23502")))
	assert.False(t, isNotNullConstraintViolation(
		errors.New(`pq: duplicate key value violates unique constraint "accounts_username_key"`)))
	assert.False(t, isNotNullConstraintViolation(errors.New("pq: connection refused")))
}
