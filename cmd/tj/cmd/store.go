package cmd

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
)

// openStore opens the configured trade store. Callers close it.
func openStore(ctx context.Context) (journal.Store, error) {
	sc := cfg.Storage
	log.Debug().Str("type", sc.Type).Msg("opening store")

	switch sc.Type {
	case config.StorageMem:
		return journal.NewMemStore(), nil
	case config.StorageFile:
		s, err := journal.NewFileStore(sc.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", sc.Path, err)
		}
		return s, nil
	case config.StorageSQLite:
		s, err := journal.NewSQLite(sc.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return s, nil
	case config.StorageRedis:
		s, err := journal.NewRedisStore(ctx, journal.RedisOptions{
			Addr:           sc.Redis.Addr,
			Password:       sc.Redis.Password,
			DB:             sc.Redis.DB,
			Prefix:         sc.Redis.Prefix,
			ConnectTimeout: sc.Redis.ConnectTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage type %q", sc.Type)
}

// Date window flags shared by the listing and analytics commands.
var (
	filterMode string
	filterFrom string
	filterTo   string
	filterYear int
)

type flagAdder interface {
	StringVar(p *string, name, value, usage string)
	IntVar(p *int, name string, value int, usage string)
}

func addFilterFlags(fs flagAdder) {
	fs.StringVar(&filterMode, "filter", "all", "date window: all, today, week, month, year, custom")
	fs.StringVar(&filterFrom, "from", "", "custom window start (YYYY-MM-DD)")
	fs.StringVar(&filterTo, "to", "", "custom window end (YYYY-MM-DD)")
	fs.IntVar(&filterYear, "year", 0, "calendar year for --filter year (default current)")
}

func filterRange() (analytics.Range, error) {
	mode, err := analytics.ParseFilterMode(filterMode)
	if err != nil {
		return analytics.Range{}, err
	}
	for _, d := range []string{filterFrom, filterTo} {
		if d != "" && !journal.ValidDate(d) {
			return analytics.Range{}, fmt.Errorf("date %q is not YYYY-MM-DD", d)
		}
	}
	return analytics.Range{Mode: mode, From: filterFrom, To: filterTo, Year: filterYear}, nil
}
