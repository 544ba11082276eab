package identity

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// TestAnonymous_Deterministic verifies the fingerprint is stable per
// (address, agent) pair and differs across pairs.
func TestAnonymous_Deterministic(t *testing.T) {
	a := Anonymous("203.0.113.7", "Mozilla/5.0")
	b := Anonymous("203.0.113.7", "Mozilla/5.0")
	if a.Identifier != b.Identifier {
		t.Errorf("same pair produced different identifiers: %q vs %q", a.Identifier, b.Identifier)
	}

	c := Anonymous("203.0.113.8", "Mozilla/5.0")
	if a.Identifier == c.Identifier {
		t.Error("different addresses produced the same identifier")
	}
	d := Anonymous("203.0.113.7", "curl/8.0")
	if a.Identifier == d.Identifier {
		t.Error("different agents produced the same identifier")
	}
}

// TestAnonymous_Shape verifies the prefix and fixed length.
func TestAnonymous_Shape(t *testing.T) {
	id := Anonymous("203.0.113.7", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	if !strings.HasPrefix(id.Identifier, "anonymous_") {
		t.Errorf("identifier %q lacks anonymous_ prefix", id.Identifier)
	}
	if got := len(id.Identifier) - len("anonymous_"); got != 20 {
		t.Errorf("fingerprint length = %d, want 20", got)
	}
	if id.Authenticated {
		t.Error("anonymous identity must not be authenticated")
	}
	if id.AccountID != nil {
		t.Error("anonymous identity must not carry an account id")
	}
}

// TestFromAccount verifies the authenticated variant.
func TestFromAccount(t *testing.T) {
	accountID := uuid.New()
	id := FromAccount(accountID)

	if !id.Authenticated {
		t.Error("expected authenticated identity")
	}
	if id.Identifier != accountID.String() {
		t.Errorf("identifier = %q, want account id text", id.Identifier)
	}
	if id.AccountID == nil || *id.AccountID != accountID {
		t.Error("AccountID not carried through")
	}
}

// TestFromRequest_RemoteAddr verifies the port is stripped from RemoteAddr
// so the fingerprint survives ephemeral-port churn.
func TestFromRequest_RemoteAddr(t *testing.T) {
	r1 := httptest.NewRequest("POST", "/api/v1/blogs/x/like", nil)
	r1.RemoteAddr = "203.0.113.7:50001"
	r1.Header.Set("User-Agent", "Mozilla/5.0")

	r2 := httptest.NewRequest("POST", "/api/v1/blogs/x/like", nil)
	r2.RemoteAddr = "203.0.113.7:50002"
	r2.Header.Set("User-Agent", "Mozilla/5.0")

	if FromRequest(r1).Identifier != FromRequest(r2).Identifier {
		t.Error("fingerprint changed across ports for the same client")
	}
}

// TestFromRequest_ForwardedFor verifies the proxy header wins and only the
// first hop counts.
func TestFromRequest_ForwardedFor(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/blogs/x/like", nil)
	r.RemoteAddr = "10.0.0.1:443"
	r.Header.Set("User-Agent", "Mozilla/5.0")
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	direct := Anonymous("203.0.113.7", "Mozilla/5.0")
	if FromRequest(r).Identifier != direct.Identifier {
		t.Error("X-Forwarded-For client not used for fingerprint")
	}
}
