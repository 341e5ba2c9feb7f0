package layant

import (
	"github.com/pkg/errors"
)

// activeStatusMarker is the localized status string the API returns for
// an active line. Status is an exact-match comparison, not a boolean.
const activeStatusMarker = "فعال"

var (
	// ErrRemoteRejected marks 4xx responses and malformed response bodies.
	ErrRemoteRejected = errors.New("layant: request rejected")
	// ErrNetwork marks transport failures and 5xx responses.
	ErrNetwork = errors.New("layant: network error")
	// ErrNotFound marks lookups for numbers the carrier does not know.
	ErrNotFound = errors.New("layant: number not found")
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Data struct {
		JWT string `json:"jwt"`
	} `json:"data"`
}

// SubscriptionEntry is one element of the GetSubscribtion response array.
type SubscriptionEntry struct {
	Number    string `json:"number"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type getSubscriptionRequest struct {
	PhoneNumber string `json:"PhoneNumber"`
}

// SubscriptionCheck is the CheckSubscription response: usage counters
// plus the localized line status.
type SubscriptionCheck struct {
	Number struct {
		Status string `json:"status"`
	} `json:"number"`
	InternetUsedMB    float64 `json:"internet_UsedMB"`
	InternetSize      float64 `json:"internet_Size"`
	MessagesUsed      float64 `json:"messages_Used"`
	MessagesSize      float64 `json:"messages_Size"`
	VoiceUsed         float64 `json:"voice_Used"`
	VoiceSize         float64 `json:"voice_Size"`
	ExternalVoiceUsed float64 `json:"externalVoiceUsed"`
	ExternalVoiceSize float64 `json:"externalVoiceSize"`
	PackageUsage      float64 `json:"package_Usage"`
}

// Active reports whether the line status equals the carrier's localized
// "active" marker.
func (c SubscriptionCheck) Active() bool {
	return c.Number.Status == activeStatusMarker
}

type checkSubscriptionRequest struct {
	Number string `json:"Number"`
}

// Sale is one entry of the GetSalesByNumber response, ordered by the
// carrier with the most eligible sale first.
type Sale struct {
	ID int64 `json:"id"`
}

// DealParams is the request body shared by Deals/Extend and
// Deals/ActivateLine. Duration and SaleId are mutually optional: a deal
// runs either for a fixed duration or under a sale.
type DealParams struct {
	Number   string `json:"Number"`
	Duration *int   `json:"Duration,omitempty"`
	SaleID   *int64 `json:"SaleId,omitempty"`
	UserPaid bool   `json:"UserPaid"`
}
