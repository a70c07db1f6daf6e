package sbi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of every backend call. Failures never surface as Go
// errors; they come back with Status "error" and a readable Message.
type Result struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

func failure(format string, args ...any) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

func success(data json.RawMessage) Result {
	return Result{Status: StatusSuccess, Data: data, Message: "Data decrypted successfully"}
}

// Policy is one entry of a SearchCustomer response.
type Policy struct {
	Number        string         `json:"policyNumber"`
	CustomerName  string         `json:"customerName"`
	Email         string         `json:"registeredEmail"`
	Mobile        string         `json:"registeredMobile"`
	Type          string         `json:"policyType"`
	VehicleNumber string         `json:"vehicleNumber"`
	Raw           map[string]any `json:"-"`
}

// UnmarshalJSON accepts numbers or strings for numeric identifiers.
func (p *Policy) UnmarshalJSON(data []byte) error {
	tmp := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	p.Raw = make(map[string]any, len(tmp))
	for key, val := range tmp {
		var anyVal any
		if err := json.Unmarshal(val, &anyVal); err == nil {
			p.Raw[key] = anyVal
		} else {
			p.Raw[key] = string(val)
		}
	}

	p.Number = readStringRaw(tmp, "policyNumber", "policy_number", "policyNo")
	p.CustomerName = readStringRaw(tmp, "customerName", "customer_name")
	p.Email = readStringRaw(tmp, "registeredEmail", "email", "emailId")
	p.Mobile = readStringRaw(tmp, "registeredMobile", "mobile")
	p.Type = readStringRaw(tmp, "policyType", "policy_type")
	p.VehicleNumber = readStringRaw(tmp, "vehicleNumber")
	return nil
}

// IsHealth reports whether the backend classifies the policy as health cover.
func (p Policy) IsHealth() bool {
	return strings.EqualFold(strings.TrimSpace(p.Type), "health")
}

// Policies decodes the CustomerData list of a lookup result. A failed result
// or missing list yields nil.
func (r Result) Policies() ([]Policy, error) {
	if !r.OK() || len(r.Data) == 0 || string(r.Data) == "null" {
		return nil, nil
	}
	var payload struct {
		CustomerData []Policy `json:"CustomerData"`
	}
	if err := json.Unmarshal(r.Data, &payload); err != nil {
		return nil, fmt.Errorf("decode customer data: %w", err)
	}
	return payload.CustomerData, nil
}

// ClaimAck is the decoded ClaimIntimation response.
type ClaimAck struct {
	PolicyNumber string
	ClaimNumber  string
	ClaimStatus  string
}

// Claim decodes a claim intimation result.
func (r Result) Claim() (ClaimAck, error) {
	if !r.OK() {
		return ClaimAck{}, fmt.Errorf("claim intimation failed: %s", r.Message)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(r.Data, &raw); err != nil {
		return ClaimAck{}, fmt.Errorf("decode claim ack: %w", err)
	}
	return ClaimAck{
		PolicyNumber: readStringRaw(raw, "policy_number", "policyNumber"),
		ClaimNumber:  readStringRaw(raw, "claim_number", "claimNumber"),
		ClaimStatus:  readStringRaw(raw, "claim_status", "claimStatus", "status"),
	}, nil
}

// ClaimRequest carries the collected accident details.
type ClaimRequest struct {
	PolicyNumber string
	Date         string // DD/MM/YYYY
	Time         string // HH:MM:SS on a 12-hour clock
	Meridiem     string // AM or PM
	City         string
	State        string
	Driver       string
}

func readStringRaw(raw map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		val, ok := raw[key]
		if !ok || string(val) == "null" {
			continue
		}
		var decoded string
		if err := json.Unmarshal(val, &decoded); err == nil {
			if decoded = strings.TrimSpace(decoded); decoded != "" {
				return decoded
			}
			continue
		}
		var number json.Number
		if err := json.Unmarshal(val, &number); err == nil {
			if i, err := number.Int64(); err == nil {
				return strconv.FormatInt(i, 10)
			}
			return number.String()
		}
	}
	return ""
}
