package sbi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"voicebot/internal/metrics"
)

const (
	testKey = "cH1NXn7FpWmXrJxyu+MLYUmcW2oTagHu"
	testIV  = "yLNhTgqH4wA="
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeGateway struct {
	t         *testing.T
	env       *envelope
	tokens    atomic.Int32
	lastBody  map[string]any
	lastPath  string
	reply     any
	status    int
	tokenCode int
}

func (g *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-IBM-Client-Id") != "client" || r.Header.Get("X-IBM-Client-Secret") != "secret" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if r.URL.Path == "/v1/tokens" {
		g.tokens.Add(1)
		if g.tokenCode != 0 {
			w.WriteHeader(g.tokenCode)
			return
		}
		_, _ = w.Write([]byte(`{"accessToken": "tok-1"}`))
		return
	}
	if r.Header.Get("Authorization") != "tok-1" {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	g.lastPath = r.URL.Path

	var in cipherBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		g.t.Errorf("decode request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	plain, err := g.env.open(in.Ciphertext)
	if err != nil {
		g.t.Errorf("open request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	g.lastBody = map[string]any{}
	_ = json.Unmarshal(plain, &g.lastBody)

	if g.status != 0 && g.status != http.StatusOK {
		w.WriteHeader(g.status)
		_, _ = w.Write([]byte("upstream down"))
		return
	}
	sealed, _ := g.env.seal(g.reply)
	_ = json.NewEncoder(w).Encode(cipherBody{Ciphertext: sealed})
}

func newTestClient(t *testing.T, gw *fakeGateway) *Client {
	t.Helper()
	env, err := newEnvelope(testKey, testIV)
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	gw.t = t
	gw.env = env
	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		Endpoint:     srv.URL,
		ClientID:     "client",
		ClientSecret: "secret",
		AESKey:       testKey,
		AESIV:        testIV,
		Timeout:      time.Second,
	}, discardLogger(), metrics.New("sbi_test"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env, err := newEnvelope(testKey, testIV)
	if err != nil {
		t.Fatalf("newEnvelope: %v", err)
	}
	sealed, err := env.seal(map[string]string{"phone_number": "9876543210"})
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	plain, err := env.open(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !strings.Contains(string(plain), "9876543210") {
		t.Errorf("plain = %s", plain)
	}
	if _, err := env.open("not-base64!"); err == nil {
		t.Error("expected decode error")
	}
	if _, err := newEnvelope("short", testIV); err == nil {
		t.Error("expected key length error")
	}
}

func TestLookupPolicies(t *testing.T) {
	gw := &fakeGateway{reply: map[string]any{
		"CustomerData": []any{
			map[string]any{"policyNumber": 10000001, "customerName": "R V", "policyType": "Motor", "vehicleNumber": "GJ05KZ9000"},
			map[string]any{"policyNumber": 10000111, "customerName": "R V", "policyType": "Health", "vehicleNumber": nil},
		},
	}}
	c := newTestClient(t, gw)

	res := c.LookupPolicies(context.Background(), "8320441987")
	if !res.OK() {
		t.Fatalf("result = %+v", res)
	}
	if gw.lastPath != "/SOA12C/services/Customer/SearchCustomer" || gw.lastBody["phone_number"] != "8320441987" {
		t.Errorf("request = %s %v", gw.lastPath, gw.lastBody)
	}
	policies, err := res.Policies()
	if err != nil {
		t.Fatalf("Policies: %v", err)
	}
	if len(policies) != 2 || policies[0].Number != "10000001" || policies[1].Number != "10000111" {
		t.Fatalf("policies = %+v", policies)
	}
	if policies[0].IsHealth() || !policies[1].IsHealth() {
		t.Error("health classification wrong")
	}
	if policies[1].VehicleNumber != "" {
		t.Errorf("null vehicle = %q", policies[1].VehicleNumber)
	}

	// token is reused across calls
	c.LookupPolicies(context.Background(), "8320441987")
	if n := gw.tokens.Load(); n != 1 {
		t.Errorf("token requests = %d", n)
	}
}

func TestIntimateClaimPayload(t *testing.T) {
	gw := &fakeGateway{reply: map[string]any{"policy_number": 10000001, "claim_number": 1014, "claim_status": "Success"}}
	c := newTestClient(t, gw)

	res := c.IntimateClaim(context.Background(), ClaimRequest{
		PolicyNumber: "10000001",
		Date:         "16/12/2024",
		Time:         "05:30:00",
		Meridiem:     "PM",
		City:         "Mumbai",
		State:        "Maharashtra",
		Driver:       "owner",
	})
	ack, err := res.Claim()
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if ack.ClaimNumber != "1014" || ack.ClaimStatus != "Success" {
		t.Errorf("ack = %+v", ack)
	}
	want := map[string]any{
		"accident_date":    "2024-12-16",
		"accident_time":    "2024-12-16 17:30:00",
		"accident_pin":     "1234",
		"driver_passenger": "owner",
		"policy_number":    "10000001",
	}
	for k, v := range want {
		if gw.lastBody[k] != v {
			t.Errorf("%s = %v, want %v", k, gw.lastBody[k], v)
		}
	}
}

func TestIntimateClaimBadDate(t *testing.T) {
	c := newTestClient(t, &fakeGateway{})
	res := c.IntimateClaim(context.Background(), ClaimRequest{PolicyNumber: "1", Date: "yesterday"})
	if res.OK() || !strings.Contains(res.Message, "invalid accident date") {
		t.Fatalf("result = %+v", res)
	}
}

func TestNon200BecomesErrorResult(t *testing.T) {
	c := newTestClient(t, &fakeGateway{status: http.StatusBadGateway})
	res := c.SubmitPolicyEmail(context.Background(), "12345678", "a@b.com")
	if res.OK() || res.Message != "API call failed with status 502" {
		t.Fatalf("result = %+v", res)
	}
}

func TestTokenFailureBecomesErrorResult(t *testing.T) {
	c := newTestClient(t, &fakeGateway{tokenCode: http.StatusUnauthorized})
	res := c.UpdateEmail(context.Background(), "12345678", "a@b.com", true)
	if res.OK() || !strings.Contains(res.Message, "token") {
		t.Fatalf("result = %+v", res)
	}
}

func TestUpdateEmailPayload(t *testing.T) {
	gw := &fakeGateway{reply: map[string]any{"service_request_id": 1090, "status": "Success"}}
	c := newTestClient(t, gw)
	if res := c.UpdateEmail(context.Background(), "12345678", "a@b.com", false); !res.OK() {
		t.Fatalf("result = %+v", res)
	}
	if gw.lastBody["otpVerified"] != false || gw.lastBody["emailId"] != "a@b.com" || gw.lastBody["policyNumber"] != "12345678" {
		t.Errorf("body = %v", gw.lastBody)
	}
}

func TestOffline(t *testing.T) {
	o := NewOffline(discardLogger())
	ctx := context.Background()

	policies, err := o.LookupPolicies(ctx, "9876543278").Policies()
	if err != nil || len(policies) != 2 || policies[0].Number != "12345678" {
		t.Fatalf("registered lookup = %+v, %v", policies, err)
	}
	policies, err = o.LookupPolicies(ctx, "9876543210").Policies()
	if err != nil || len(policies) != 0 {
		t.Fatalf("unregistered lookup = %+v, %v", policies, err)
	}

	ack, err := o.IntimateClaim(ctx, ClaimRequest{PolicyNumber: "12345678"}).Claim()
	if err != nil || !strings.HasPrefix(ack.ClaimNumber, "CLM-") {
		t.Fatalf("claim = %+v, %v", ack, err)
	}
	if !o.SubmitPolicyEmail(ctx, "12345678", "a@b.com").OK() {
		t.Error("dispatch should succeed")
	}
	if o.SubmitPolicyEmail(ctx, "12345678", "").OK() {
		t.Error("dispatch without email should fail")
	}
}
