package sbi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Offline answers every call locally. Mobile numbers ending in "78" are
// registered and own two motor policies; dispatches always succeed.
type Offline struct {
	logger *slog.Logger
}

// NewOffline creates the local stand-in backend.
func NewOffline(logger *slog.Logger) *Offline {
	return &Offline{logger: logger.With("component", "sbi", "mode", "offline")}
}

var offlinePolicies = []map[string]any{
	{"policyNumber": 12345678, "customerName": "Demo Customer", "policyType": "Motor", "registeredEmail": "demo.customer@example.com"},
	{"policyNumber": 87654321, "customerName": "Demo Customer", "policyType": "Motor", "registeredEmail": "demo.customer@example.com"},
}

// LookupPolicies returns the demo policies for registered numbers and an
// empty customer list otherwise.
func (o *Offline) LookupPolicies(_ context.Context, mobile string) Result {
	customers := []map[string]any{}
	if strings.HasSuffix(mobile, "78") {
		customers = offlinePolicies
	}
	o.logger.Debug("offline lookup", "registered", len(customers) > 0)
	return o.ok(map[string]any{"CustomerData": customers})
}

// IntimateClaim acknowledges the claim with a generated claim number.
func (o *Offline) IntimateClaim(_ context.Context, req ClaimRequest) Result {
	if req.PolicyNumber == "" {
		return failure("policy number is required")
	}
	claim := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return o.ok(map[string]any{
		"policy_number": req.PolicyNumber,
		"claim_number":  "CLM-" + claim,
		"claim_status":  "Success",
	})
}

// SubmitPolicyEmail pretends the PDF was queued.
func (o *Offline) SubmitPolicyEmail(_ context.Context, policyNumber, email string) Result {
	if policyNumber == "" || email == "" {
		return failure("policy number and email are required")
	}
	return o.ok(map[string]any{"status": "Success"})
}

// UpdateEmail pretends the address was updated.
func (o *Offline) UpdateEmail(_ context.Context, policyNumber, email string, otpVerified bool) Result {
	return o.ok(map[string]any{"status": "Success", "otpVerified": otpVerified})
}

func (o *Offline) ok(v any) Result {
	raw, err := json.Marshal(v)
	if err != nil {
		return failure("encode offline response: %v", err)
	}
	return Result{Status: StatusSuccess, Data: raw, Message: fmt.Sprintf("offline %s", StatusSuccess)}
}
