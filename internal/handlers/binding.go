package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/apperr"
)

// BindNestedOrFlat decodes the JSON body into obj. A body of the form
// {"<key>": {...}} is unwrapped first; any other object is decoded as is, so
// clients may send either shape. Decoding failures are validation errors.
func BindNestedOrFlat(c *gin.Context, key string, obj any) error {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return apperr.Validation(MsgInvalidBody)
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if inner, ok := wrapped[key]; ok && isJSONObject(inner) {
			body = inner
		}
	}

	if err := json.Unmarshal(body, obj); err != nil {
		return apperr.Validation(MsgInvalidBody)
	}
	return nil
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
