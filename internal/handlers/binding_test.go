package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		body        string
		expected    models.AgentCreateInput
		expectError bool
	}{
		{
			name:     "Wrapped body",
			body:     `{"agent": {"fullName": "Jane Doe", "email": "jane@x.com"}}`,
			expected: models.AgentCreateInput{FullName: "Jane Doe", Email: "jane@x.com"},
		},
		{
			name:     "Flat body",
			body:     `{"fullName": "Jane Doe", "brokerageName": "ABC"}`,
			expected: models.AgentCreateInput{FullName: "Jane Doe", BrokerageName: "ABC"},
		},
		{
			name:     "Key holding a scalar falls back to flat",
			body:     `{"agent": "x", "phone": "555"}`,
			expected: models.AgentCreateInput{Phone: "555"},
		},
		{
			name:        "Wrong field type",
			body:        `{"fullName": 42}`,
			expectError: true,
		},
		{
			name:        "Wrapped with wrong field type",
			body:        `{"agent": {"fullName": 42}}`,
			expectError: true,
		},
		{
			name:        "Empty body",
			body:        ``,
			expectError: true,
		},
		{
			name:        "Not JSON",
			body:        `fullName=Jane`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result models.AgentCreateInput
			err := BindNestedOrFlat(c, "agent", &result)

			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				assert.Equal(t, MsgInvalidBody, apperr.PublicMessage(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestBindNestedOrFlat_PartialUpdate(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("PUT", "/", bytes.NewBufferString(`{"phone": "555", "address": null}`))

	var input models.AgentUpdateInput
	require.NoError(t, BindNestedOrFlat(c, "agent", &input))

	assert.True(t, input.Phone.Present)
	assert.Equal(t, "555", input.Phone.Value)
	assert.True(t, input.Address.Present)
	assert.True(t, input.Address.Null)
	assert.False(t, input.FullName.Present)
}
