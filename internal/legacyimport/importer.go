// Package legacyimport copies catalog and user rows from the legacy WSC
// database into the current schema.
package legacyimport

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/meraki-backend/internal/pkg/batch"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type Options struct {
	// DryRun converts rows without writing them.
	DryRun bool
	// Limit caps the rows read per table; 0 reads everything.
	Limit         int
	ProgressEvery int
}

type Importer struct {
	log     *logger.Logger
	dest    *gorm.DB
	src     Source
	mapping *Mapping
	opts    Options
}

func New(log *logger.Logger, dest *gorm.DB, src Source, mapping *Mapping, opts Options) *Importer {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 100
	}
	return &Importer{
		log:     log.With("component", "LegacyImporter"),
		dest:    dest,
		src:     src,
		mapping: mapping,
		opts:    opts,
	}
}

// ParseTables resolves a comma separated table list; empty or "all" selects
// every table. The result follows import order.
func ParseTables(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return append([]string(nil), Tables...), nil
	}
	want := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if _, ok := converters[name]; !ok {
			return nil, fmt.Errorf("unknown table %q (known: %s)", name, strings.Join(Tables, ", "))
		}
		want[name] = true
	}
	out := []string{}
	for _, t := range Tables {
		if want[t] {
			out = append(out, t)
		}
	}
	return out, nil
}

// Run imports tables in order. Row failures are reported per table; an error
// is returned only when a table cannot be read at all.
func (im *Importer) Run(ctx context.Context, tables []string) (map[string]batch.Result, error) {
	results := make(map[string]batch.Result, len(tables))
	for _, name := range tables {
		tm, ok := im.mapping.Table(name)
		if !ok {
			return results, fmt.Errorf("table %s has no mapping", name)
		}
		res, err := im.ImportTable(ctx, tm)
		results[name] = res
		if err != nil {
			return results, fmt.Errorf("import %s: %w", name, err)
		}
	}
	return results, nil
}

func (im *Importer) ImportTable(ctx context.Context, tm TableMapping) (batch.Result, error) {
	var res batch.Result
	convert, ok := converters[tm.Table]
	if !ok {
		return res, fmt.Errorf("no converter for %s", tm.Table)
	}
	log := im.log.With("table", tm.Table, "source", tm.Source)
	log.Info("Importing table", "dry_run", im.opts.DryRun, "limit", im.opts.Limit)

	seen := 0
	err := im.src.Each(ctx, tm, im.opts.Limit, func(row Row) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen++
		key := row.String("id")
		if key == "" {
			key = fmt.Sprintf("row %d", seen)
		}
		model, err := convert(row)
		switch {
		case err != nil:
			res.Fail(key, err)
		case im.opts.DryRun:
			res.Ok()
		default:
			im.insert(ctx, key, model, &res)
		}
		if seen%im.opts.ProgressEvery == 0 {
			log.Info("Import progress", "rows", seen, "succeeded", res.Succeeded, "skipped", res.Skipped, "failed", len(res.Failed))
		}
		return nil
	})
	log.Info("Imported table", "rows", seen, "succeeded", res.Succeeded, "skipped", res.Skipped, "failed", len(res.Failed))
	return res, err
}

// insert writes model, leaving existing rows untouched.
func (im *Importer) insert(ctx context.Context, key string, model any, res *batch.Result) {
	out := im.dest.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	switch {
	case out.Error != nil:
		res.Fail(key, out.Error)
	case out.RowsAffected == 0:
		res.Skip()
	default:
		res.Ok()
	}
}
