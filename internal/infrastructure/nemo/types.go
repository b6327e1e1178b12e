package nemo

import "encoding/json"

// Resource paths under the API base URL. Trailing slashes matter to the
// upstream Django router.
const (
	PathAccounts                = "/accounts/"
	PathProjects                = "/projects/"
	PathUsers                   = "/users/"
	PathTools                   = "/tools/"
	PathRateCategories          = "/billing/rate_categories/"
	PathRateTypes               = "/billing/rate_types/"
	PathRates                   = "/billing/rates/"
	PathInterlockCards          = "/interlock_cards/"
	PathInterlockCardCategories = "/interlock_card_categories/"
)

// listEnvelope is the DRF-style paginated response. Some deployments return
// a bare JSON array instead; ListAll handles both.
type listEnvelope struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
}

// Account is a NEMO billing account. Type references a rate category.
type Account struct {
	ID        int     `json:"id,omitempty"`
	Name      string  `json:"name"`
	Type      int     `json:"type,omitempty"`
	StartDate *string `json:"start_date"`
	Active    bool    `json:"active"`
}

// Project references its owning Account by ID. ApplicationIdentifier carries
// the PTA, the natural key projects are deduplicated on.
type Project struct {
	ID                    int    `json:"id,omitempty"`
	Name                  string `json:"name"`
	ApplicationIdentifier string `json:"application_identifier"`
	Account               *int   `json:"account"`
	Category              *int   `json:"category"`
	Active                bool   `json:"active"`
	StartDate             *string `json:"start_date"`
	ContactName           string `json:"contact_name,omitempty"`
	ContactEmail          string `json:"contact_email,omitempty"`
	NoCharge              bool   `json:"no_charge"`
}

type User struct {
	ID               int    `json:"id,omitempty"`
	Username         string `json:"username"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	IsActive         bool   `json:"is_active"`
	IsStaff          bool   `json:"is_staff"`
	TrainingRequired bool   `json:"training_required"`
	Type             int    `json:"type"`
	DateJoined       string `json:"date_joined,omitempty"`
	Domain           string `json:"domain"`
	Projects         []int  `json:"projects"`
	ManagedProjects  []int  `json:"managed_projects"`
	Qualifications   []int  `json:"qualifications"`
	Groups           []int  `json:"groups"`
}

// Tool carries only the fields this toolset fills; the upstream serializer
// prefixes most writable fields with an underscore.
type Tool struct {
	ID            int    `json:"id,omitempty"`
	Name          string `json:"name"`
	Visible       bool   `json:"visible"`
	Category      string `json:"_category,omitempty"`
	Location      string `json:"_location,omitempty"`
	Operational   bool   `json:"_operational"`
	CalendarColor string `json:"_tool_calendar_color,omitempty"`
	PrimaryOwner  string `json:"_primary_owner,omitempty"`
}

type RateCategory struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

type RateType struct {
	ID               int    `json:"id,omitempty"`
	Type             string `json:"type"`
	CategorySpecific bool   `json:"category_specific"`
	ItemSpecific     bool   `json:"item_specific"`
}

type Rate struct {
	ID       int     `json:"id,omitempty"`
	Type     int     `json:"type"`
	Category int     `json:"category"`
	Item     *int    `json:"item"`
	Rate     float64 `json:"rate"`
	FlatRate bool    `json:"flat_rate"`
	Notes    string  `json:"notes"`
	Active   bool    `json:"active"`
}

type InterlockCardCategory struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

// InterlockCard uses "server" upstream where the spreadsheets say hostname.
type InterlockCard struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name"`
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Enabled  bool   `json:"enabled"`
	Category int    `json:"category"`
}
