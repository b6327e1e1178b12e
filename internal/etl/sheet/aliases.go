package sheet

// Canonical column names shared by the per-entity normalizers.
const (
	ColAccountName = "account_name"
	ColAccountType = "account_type"
	ColPTA         = "pta"
	ColProjectName = "project_name"
	ColEmail       = "email"
	ColFirstName   = "first_name"
	ColLastName    = "last_name"
	ColToolName    = "tool_name"
	ColLocation    = "location"
	ColRateName    = "rate_name"
	ColRateClass   = "rate_class"
	ColRateAmount  = "rate_amount"
	ColHostname    = "hostname"
	ColPort        = "port"
)

// Header conventions drifted across years of SNSF exports; every canonical
// column lists the spellings seen in the wild. The "pi email" column of the
// user-information workbook actually carries the PI name.
var (
	AccountAliases = Aliases{
		ColAccountName: {"pi email", "pi name", "account name"},
		ColAccountType: {"type", "account type", "rate class"},
	}

	ProjectAliases = Aliases{
		ColPTA:         {"account", "pta", "pta number"},
		ColProjectName: {"project", "project title"},
		ColAccountName: {"pi email", "pi name", "account name"},
		ColAccountType: {"type", "account type"},
	}

	UserAliases = Aliases{
		ColEmail:     {"member", "email", "e-mail"},
		ColFirstName: {"first name", "firstname", "given name"},
		ColLastName:  {"last name", "lastname", "surname"},
		ColPTA:       {"project", "pta"},
	}

	ToolAliases = Aliases{
		ColToolName: {"name", "tool name"},
		ColLocation: {"location", "room"},
	}

	RateAliases = Aliases{
		ColRateName:   {"rate name", "rate type"},
		ColRateClass:  {"rate class", "rate category"},
		ColRateAmount: {"rate", "amount"},
	}

	InterlockAliases = Aliases{
		ColToolName: {"name", "tool name"},
		ColHostname: {"hostname", "host name", "host"},
		ColPort:     {"port"},
	}
)
