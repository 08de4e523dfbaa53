package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestWriteHashes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeHashes(&out, bcrypt.MinCost, []string{"Password123!", "тест123"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Password: Password123!", lines[0])

	hash := strings.TrimPrefix(lines[1], "Hash: ")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("Password123!")))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestWriteHashesRejectsBadCost(t *testing.T) {
	err := writeHashes(&bytes.Buffer{}, 99, []string{"x"})
	assert.ErrorContains(t, err, "cost must be between")
}
