// Package normalize turns canonical spreadsheet rows into validated,
// deduplicated records. Rows that cannot become a valid record are dropped
// and counted; normalization itself never fails.
package normalize

import (
	"strconv"
	"strings"

	"nemoctl/internal/etl/lookup"
	"nemoctl/internal/etl/sheet"
)

// Result carries the surviving records in sheet order plus the number of
// rows dropped for data-quality reasons.
type Result[T any] struct {
	Records []T
	Dropped int
}

type keyed interface {
	Key() string
}

// run applies build → validate → dedupe-by-key over rows, preserving the
// source order of the first occurrence of every key.
func run[T keyed](rows []sheet.Row, build func(sheet.Row) (T, bool)) Result[T] {
	var res Result[T]
	seen := make(map[string]bool)

	for _, row := range rows {
		record, ok := build(row)
		if !ok {
			res.Dropped++
			continue
		}
		if err := validate.Struct(record); err != nil {
			res.Dropped++
			continue
		}
		key := lookup.NormalizeKey(record.Key())
		if key == "" || seen[key] {
			if !seen[key] {
				res.Dropped++
			}
			continue
		}
		seen[key] = true
		res.Records = append(res.Records, record)
	}
	return res
}

// Accounts normalizes the PI/account rows of the user-information workbook.
func Accounts(rows []sheet.Row) Result[AccountRecord] {
	return run(rows, func(row sheet.Row) (AccountRecord, bool) {
		name := Clean(row[sheet.ColAccountName])
		if name == "" {
			return AccountRecord{}, false
		}
		return AccountRecord{
			Name:     name,
			Category: MapCategory(row[sheet.ColAccountType]),
		}, true
	})
}

// Projects normalizes project rows keyed by PTA.
func Projects(rows []sheet.Row) Result[ProjectRecord] {
	return run(rows, func(row sheet.Row) (ProjectRecord, bool) {
		pta := Clean(row[sheet.ColPTA])
		name := Clean(row[sheet.ColProjectName])
		account := Clean(row[sheet.ColAccountName])
		if pta == "" || name == "" || account == "" {
			return ProjectRecord{}, false
		}
		return ProjectRecord{
			PTA:         pta,
			Name:        name,
			AccountName: account,
			Category:    MapCategory(row[sheet.ColAccountType]),
		}, true
	})
}

// Users normalizes member rows. The username is the lowered local part of
// the email address. Duplicate rows for one email merge their project
// memberships into the first occurrence.
func Users(rows []sheet.Row) Result[UserRecord] {
	byKey := make(map[string]int)

	res := run(rows, func(row sheet.Row) (UserRecord, bool) {
		email := Clean(row[sheet.ColEmail])
		first := Clean(row[sheet.ColFirstName])
		last := Clean(row[sheet.ColLastName])
		if email == "" || first == "" || last == "" || !strings.Contains(email, "@") {
			return UserRecord{}, false
		}
		rec := UserRecord{
			Username:  strings.ToLower(strings.SplitN(email, "@", 2)[0]),
			FirstName: first,
			LastName:  last,
			Email:     email,
		}
		if pta := Clean(row[sheet.ColPTA]); pta != "" {
			rec.ProjectPTAs = []string{pta}
		}
		return rec, true
	})

	// Second pass: fold memberships from rows the dedup discarded.
	for i, rec := range res.Records {
		byKey[lookup.NormalizeKey(rec.Key())] = i
	}
	for _, row := range rows {
		email := Clean(row[sheet.ColEmail])
		pta := Clean(row[sheet.ColPTA])
		if email == "" || pta == "" {
			continue
		}
		idx, ok := byKey[lookup.NormalizeKey(email)]
		if !ok {
			continue
		}
		if !containsFold(res.Records[idx].ProjectPTAs, pta) {
			res.Records[idx].ProjectPTAs = append(res.Records[idx].ProjectPTAs, pta)
		}
	}
	return res
}

// FacilitySheet pairs one facility's tool workbook rows with its code.
type FacilitySheet struct {
	Facility string
	Rows     []sheet.Row
}

// Tools merges the per-facility tool workbooks, deduplicating by tool name
// across all of them; the first facility listing a tool wins.
func Tools(sheets []FacilitySheet) Result[ToolRecord] {
	var merged []sheet.Row
	for _, fs := range sheets {
		for _, row := range fs.Rows {
			r := make(sheet.Row, len(row)+1)
			for k, v := range row {
				r[k] = v
			}
			r["facility"] = fs.Facility
			merged = append(merged, r)
		}
	}
	return run(merged, func(row sheet.Row) (ToolRecord, bool) {
		name := Clean(row[sheet.ColToolName])
		if name == "" {
			return ToolRecord{}, false
		}
		return ToolRecord{
			Name:     name,
			Facility: row["facility"],
			Location: Clean(row[sheet.ColLocation]),
		}, true
	})
}

// Rates normalizes rate-report rows keyed by the rate-name + rate-class
// pair. Rows with an unparsable amount are dropped.
func Rates(rows []sheet.Row) Result[RateRecord] {
	return run(rows, func(row sheet.Row) (RateRecord, bool) {
		name := Clean(row[sheet.ColRateName])
		class := Clean(row[sheet.ColRateClass])
		raw := Clean(row[sheet.ColRateAmount])
		if name == "" || class == "" || raw == "" {
			return RateRecord{}, false
		}
		amount, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64)
		if err != nil {
			return RateRecord{}, false
		}
		return RateRecord{RateName: name, RateClass: class, Amount: amount}, true
	})
}

// Interlocks normalizes interlock rows from the tool workbooks, keyed by
// hostname:port. Exports sometimes render the port as a float ("2101.0").
func Interlocks(rows []sheet.Row) Result[InterlockRecord] {
	return run(rows, func(row sheet.Row) (InterlockRecord, bool) {
		name := Clean(row[sheet.ColToolName])
		host := Clean(row[sheet.ColHostname])
		rawPort := Clean(row[sheet.ColPort])
		if name == "" || host == "" || rawPort == "" {
			return InterlockRecord{}, false
		}
		f, err := strconv.ParseFloat(rawPort, 64)
		if err != nil {
			return InterlockRecord{}, false
		}
		return InterlockRecord{Name: name, Hostname: host, Port: int(f)}, true
	})
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

