package migration

import (
	"context"
	"os"
	"path/filepath"

	"nemoctl/internal/etl/normalize"
	"nemoctl/internal/etl/reconcile"
	"nemoctl/internal/etl/sheet"
	"nemoctl/internal/infrastructure/artifact"
	"nemoctl/internal/infrastructure/nemo"
	apperrors "nemoctl/internal/shared/errors"
)

// toolWorkbooks lists the per-facility tool exports in merge order; the
// first facility listing a tool name wins on dedup.
var toolWorkbooks = []struct {
	Facility string
	Filename string
}{
	{"SNC", "SNC Tools.xlsx"},
	{"SNL", "SNL Tools.xlsx"},
	{"SMF", "SMF Tools.xlsx"},
}

// toolCalendarColor matches the color every migrated tool was given.
const toolCalendarColor = "#33ad33"

// SyncTools creates the tools missing from NEMO, merged across the three
// facility workbooks. Tools are created invisible so staff can finish their
// configuration before exposure.
func (r *Runner) SyncTools(ctx context.Context) (artifact.Summary, error) {
	if err := r.client.Ping(ctx, nemo.PathTools); err != nil {
		return artifact.Summary{}, err
	}

	sheets, err := r.readToolWorkbooks(sheet.ToolAliases)
	if err != nil {
		return artifact.Summary{}, err
	}

	res := normalize.Tools(sheets)
	r.log.Infow("normalized tools", "records", len(res.Records), "dropped", res.Dropped)

	tools, err := r.lookupTable("tools")
	if err != nil {
		return artifact.Summary{}, err
	}

	items := make([]reconcile.Item[normalize.ToolRecord], 0, len(res.Records))
	for _, rec := range res.Records {
		items = append(items, reconcile.Item[normalize.ToolRecord]{Key: rec.Key(), Record: rec})
	}

	create := func(ctx context.Context, rec normalize.ToolRecord) (int, error) {
		created, err := r.client.CreateTool(ctx, &nemo.Tool{
			Name:          rec.Name,
			Visible:       false,
			Category:      rec.Facility,
			Location:      rec.Location,
			Operational:   true,
			CalendarColor: toolCalendarColor,
		})
		if err != nil {
			return 0, err
		}
		return created.ID, nil
	}

	return runReconcile(ctx, r, "tools", "tools", tools, res.Dropped, items, create)
}

// readToolWorkbooks loads whichever facility workbooks exist; a facility
// whose export is absent is skipped with a warning, not an error.
func (r *Runner) readToolWorkbooks(aliases sheet.Aliases) ([]normalize.FacilitySheet, error) {
	var sheets []normalize.FacilitySheet
	for _, wb := range toolWorkbooks {
		path := filepath.Join(r.cfg.Data.SheetDir(), wb.Filename)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			r.log.Warnw("facility workbook not found, skipping", "path", path)
			continue
		}
		rows, err := sheet.ReadRows(path, aliases)
		if err != nil {
			return nil, err
		}
		r.log.Infow("loaded workbook", "path", path, "rows", len(rows), "facility", wb.Facility)
		sheets = append(sheets, normalize.FacilitySheet{Facility: wb.Facility, Rows: rows})
	}
	if len(sheets) == 0 {
		return nil, apperrors.NewInternalError(
			"no facility tool workbooks found in " + r.cfg.Data.SheetDir())
	}
	return sheets, nil
}
