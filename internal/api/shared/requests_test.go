package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Name string `json:"name" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"carl"}`))

	var target decodeTarget
	require.NoError(t, DecodeJSON(req, &target))
	assert.Equal(t, "carl", target.Name)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))

	var target decodeTarget
	assert.Error(t, DecodeJSON(req, &target))
}

type selfValidating struct {
	ok bool
}

func (s selfValidating) Validate() error {
	if !s.ok {
		return errors.New("not ok")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	assert.Error(t, ValidateRequest(decodeTarget{}))
	assert.NoError(t, ValidateRequest(decodeTarget{Name: "carl"}))

	// Types with their own Validate method bypass the struct validator.
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.Error(t, ValidateRequest(selfValidating{ok: false}))
}
