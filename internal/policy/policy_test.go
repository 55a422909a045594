package policy_test

import (
	"net/http"
	"testing"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/policy"

	"github.com/stretchr/testify/assert"
)

var (
	anonymous = model.Caller{}
	user      = model.Caller{UserID: 1, Username: "user"}
	other     = model.Caller{UserID: 2, Username: "other"}
	staff     = model.Caller{UserID: 3, Username: "admin", IsStaff: true}
)

func TestEvaluate_PublicReadStaffWrite(t *testing.T) {
	p := policy.PublicReadStaffWrite

	assert.Equal(t, policy.Allow, policy.Evaluate(p, anonymous, http.MethodGet, policy.NoOwner))
	assert.Equal(t, policy.Allow, policy.Evaluate(p, user, http.MethodHead, policy.NoOwner))
	assert.Equal(t, policy.Unauthenticated, policy.Evaluate(p, anonymous, http.MethodPost, policy.NoOwner))
	assert.Equal(t, policy.Forbidden, policy.Evaluate(p, user, http.MethodPost, policy.NoOwner))
	assert.Equal(t, policy.Forbidden, policy.Evaluate(p, user, http.MethodDelete, policy.NoOwner))
	assert.Equal(t, policy.Allow, policy.Evaluate(p, staff, http.MethodPatch, policy.NoOwner))
}

func TestEvaluate_StaffOnly(t *testing.T) {
	p := policy.StaffOnly

	assert.Equal(t, policy.Unauthenticated, policy.Evaluate(p, anonymous, http.MethodGet, policy.NoOwner))
	assert.Equal(t, policy.Forbidden, policy.Evaluate(p, user, http.MethodGet, policy.NoOwner))
	assert.Equal(t, policy.Forbidden, policy.Evaluate(p, user, http.MethodPost, policy.NoOwner))
	assert.Equal(t, policy.Allow, policy.Evaluate(p, staff, http.MethodGet, policy.NoOwner))
	assert.Equal(t, policy.Allow, policy.Evaluate(p, staff, http.MethodPut, policy.NoOwner))
}

func TestEvaluate_AuthenticatedOwner(t *testing.T) {
	p := policy.AuthenticatedOwner

	t.Run("Anonymous sees nothing", func(t *testing.T) {
		assert.Equal(t, policy.Unauthenticated, policy.Evaluate(p, anonymous, http.MethodGet, policy.NoOwner))
		assert.Equal(t, policy.Unauthenticated, policy.Evaluate(p, anonymous, http.MethodPost, policy.NoOwner))
	})

	t.Run("Owner", func(t *testing.T) {
		assert.Equal(t, policy.Allow, policy.Evaluate(p, user, http.MethodGet, user.UserID))
		assert.Equal(t, policy.Allow, policy.Evaluate(p, user, http.MethodDelete, user.UserID))
	})

	t.Run("Other user", func(t *testing.T) {
		assert.Equal(t, policy.Forbidden, policy.Evaluate(p, other, http.MethodGet, user.UserID))
	})

	t.Run("Staff sees all", func(t *testing.T) {
		assert.Equal(t, policy.Allow, policy.Evaluate(p, staff, http.MethodGet, user.UserID))
	})

	t.Run("Collection level", func(t *testing.T) {
		assert.Equal(t, policy.Allow, policy.Evaluate(p, user, http.MethodGet, policy.NoOwner))
		assert.Equal(t, policy.Allow, policy.Evaluate(p, user, http.MethodPost, policy.NoOwner))
	})
}

func TestCollections(t *testing.T) {
	assert.Equal(t, policy.StaffOnly, policy.Collections["tickets"])
	assert.Equal(t, policy.AuthenticatedOwner, policy.Collections["orders"])
	assert.Equal(t, policy.PublicReadStaffWrite, policy.Collections["flights"])
	assert.Len(t, policy.Collections, 8)
}

func TestCanRead(t *testing.T) {
	owner := model.Caller{UserID: 1}
	other := model.Caller{UserID: 2}
	staff := model.Caller{UserID: 3, IsStaff: true}

	assert.True(t, policy.CanRead(policy.AuthenticatedOwner, owner, 1))
	assert.False(t, policy.CanRead(policy.AuthenticatedOwner, other, 1))
	assert.True(t, policy.CanRead(policy.AuthenticatedOwner, staff, 1))
	assert.True(t, policy.CanRead(policy.PublicReadStaffWrite, model.Caller{}, policy.NoOwner))
}
