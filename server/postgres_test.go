package server

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMapErr(t *testing.T) {
	other := errors.New("boom")
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"unique violation", &pq.Error{Code: "23505"}, ErrConflict},
		{"malformed uuid", &pq.Error{Code: "22P02"}, ErrNotFound},
		{"other", other, other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, mapErr(tc.in), tc.want)
		})
	}
}
