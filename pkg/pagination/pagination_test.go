package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(newContext("/"))

	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected default offset 0, got %d", p.Offset)
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	p := FromContext(newContext("/?limit=50&offset=10"))

	if p.Limit != 50 {
		t.Errorf("expected limit 50, got %d", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("expected offset 10, got %d", p.Offset)
	}
}

func TestFromContext_MaxLimit(t *testing.T) {
	p := FromContext(newContext("/?limit=500"))
	if p.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_InvalidValues(t *testing.T) {
	p := FromContext(newContext("/?limit=abc&offset=-5"))
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit for garbage input, got %d", p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset clamped to 0, got %d", p.Offset)
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	resp := NewResponse([]string{"a", "b"}, 5, 2, 0)

	if !resp.HasMore {
		t.Error("expected has_more to be true")
	}
	if resp.NextOffset == nil || *resp.NextOffset != 2 {
		t.Errorf("expected next offset 2, got %v", resp.NextOffset)
	}
	if resp.Total != 5 {
		t.Errorf("expected total 5, got %d", resp.Total)
	}
}

func TestNewResponse_LastPage(t *testing.T) {
	resp := NewResponse([]string{"e"}, 5, 2, 4)

	if resp.HasMore {
		t.Error("expected has_more to be false on last page")
	}
	if resp.NextOffset != nil {
		t.Errorf("expected no next offset, got %d", *resp.NextOffset)
	}
}
