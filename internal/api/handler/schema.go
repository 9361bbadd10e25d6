package handler

import (
	"bytes"
	"encoding/json"
	"strings"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createUserRequest struct {
	Username string `json:"username" form:"username"`
}

type userResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// Path and query fields carry json:"-" so a request body cannot override them.
type createExerciseRequest struct {
	UserID      string     `param:"_id" json:"-"                   validate:"required"`
	Description flexString `json:"description" form:"description"`
	Duration    flexString `json:"duration"    form:"duration"`
	Date        flexString `json:"date"        form:"date"`
}

type exerciseResponse struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Date        string `json:"date"`
}

type exerciseLogRequest struct {
	UserID string `param:"_id"    json:"-" validate:"required"`
	From   string `query:"from"   json:"-"`
	To     string `query:"to"     json:"-"`
	Limit  string `query:"limit"  json:"-"`
}

type logEntryResponse struct {
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Date        string `json:"date"`
}

type exerciseLogResponse struct {
	ID       string             `json:"_id"`
	Username string             `json:"username"`
	Count    int                `json:"count"`
	Log      []logEntryResponse `json:"log"`
}

// flexString accepts a JSON string, number or boolean and keeps its textual
// form, so `"duration": 30` and `duration=30` bind the same way.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexString(strings.ToLower(string(b)))
	return nil
}

// UnmarshalParam satisfies echo.BindUnmarshaler for form and query binding.
func (f *flexString) UnmarshalParam(param string) error {
	*f = flexString(param)
	return nil
}
