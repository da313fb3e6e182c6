package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMyError(t *testing.T) {
	inner := errors.New("underlying")
	e := NewMyError(ErrBadParameter, "invalid input", inner)
	require.NotNil(t, e)
	assert.Equal(t, ErrBadParameter, e.Code)
	assert.Equal(t, "invalid input", e.Message)
	assert.Same(t, inner, e.Inner)
}

func TestNewInternalServerError(t *testing.T) {
	e := NewInternalServerError("redis failed", nil)
	require.NotNil(t, e)
	assert.Equal(t, ErrInternalServerError, e.Code)
	assert.Equal(t, "redis failed", e.Message)
}

func TestNewInternalServerError_KeepsInnerMyError(t *testing.T) {
	notFound := NewEntityNotFoundError("session not found", nil)
	e := NewInternalServerError("lookup failed", fmt.Errorf("wrapped: %w", notFound))
	assert.Same(t, notFound, e)
	assert.True(t, IsEntityNotFoundError(e))
}

func TestNewBadGatewayError_AlwaysNew(t *testing.T) {
	inner := NewInternalServerError("x", nil)
	e := NewBadGatewayError("backend unreachable", inner)
	assert.Equal(t, ErrBadGateway, e.Code)
	assert.True(t, IsBadGatewayError(e))
	assert.Same(t, inner, e.Inner)
}

func TestMyError_Error(t *testing.T) {
	assert.Equal(t, "entity_not_found gone", NewEntityNotFoundError("gone", nil).Error())
	assert.Equal(t, "bad_gateway dial: boom", NewBadGatewayError("dial", errors.New("boom")).Error())
}

func TestToMyError_WithMyError(t *testing.T) {
	e := NewBadParameterError("bad", nil)
	got := ToMyError(e)
	require.NotNil(t, got)
	assert.Same(t, e, got)
}

func TestToMyError_WithOrdinaryError(t *testing.T) {
	e := errors.New("plain")
	got := ToMyError(e)
	assert.Nil(t, got)
	assert.Equal(t, "", ToMyErrorCode(e))
}

func TestIsEntityNotFoundError(t *testing.T) {
	e := NewEntityNotFoundError("gone", nil)
	assert.True(t, IsEntityNotFoundError(e))
	assert.False(t, IsInternalServerError(e))
	assert.False(t, IsBadParameterError(e))
}
