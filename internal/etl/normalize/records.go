package normalize

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

// The normalizer is the single boundary where untyped spreadsheet cells
// become typed records. A record that fails struct validation is dropped
// and counted like any other data-quality issue.
var validate = validator.New(validator.WithRequiredStructEnabled())

type AccountRecord struct {
	Name     string   `validate:"required"`
	Category Category `validate:"required"`
}

func (r AccountRecord) Key() string { return r.Name }

type ProjectRecord struct {
	PTA         string   `validate:"required"`
	Name        string   `validate:"required"`
	AccountName string   `validate:"required"`
	Category    Category `validate:"required"`
}

func (r ProjectRecord) Key() string { return r.PTA }

type UserRecord struct {
	Username  string `validate:"required,lowercase"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	// PTAs of project memberships; resolved to project IDs at create time.
	ProjectPTAs []string
}

func (r UserRecord) Key() string { return r.Email }

type ToolRecord struct {
	Name string `validate:"required"`
	// Facility is the source workbook's facility code (SNC, SNL, SMF).
	Facility string `validate:"required"`
	Location string
}

func (r ToolRecord) Key() string { return r.Name }

type RateRecord struct {
	RateName  string  `validate:"required"`
	RateClass string  `validate:"required"`
	Amount    float64 `validate:"gte=0"`
}

// Key is the composite dedup key within the migration batch; resolution to
// remote type/category IDs happens later.
func (r RateRecord) Key() string { return r.RateName + "|" + r.RateClass }

type InterlockRecord struct {
	Name     string `validate:"required"`
	Hostname string `validate:"required"`
	Port     int    `validate:"gt=0"`
}

func (r InterlockRecord) Key() string { return r.Hostname + ":" + strconv.Itoa(r.Port) }
