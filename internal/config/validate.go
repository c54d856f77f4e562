// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/pdiddy/content-extract/internal/urlkind"
	"github.com/pdiddy/content-extract/pkg/types"
)

// hookTypes are the resource types a hook may be restricted to.
var hookTypes = []any{
	string(urlkind.Substack), string(urlkind.Medium), string(urlkind.YouTube),
	string(urlkind.Notion), string(urlkind.Drive), string(urlkind.Excalidraw),
	string(urlkind.Web), string(urlkind.External), "catalog",
}

var nonNegative = validation.Min(time.Duration(0))

// Validate checks cfg and returns validation.Errors keyed by TOML field.
func Validate(cfg types.Config) error {
	errs := validation.Errors{
		"output_dir": validation.Validate(cfg.OutputDir, validation.Required),
		"delay":      validation.Validate(cfg.Delay, nonNegative),
		"http": validation.ValidateStruct(&cfg.HTTP,
			validation.Field(&cfg.HTTP.Timeout, nonNegative),
			validation.Field(&cfg.HTTP.MaxRetries, validation.Min(0), validation.Max(10)),
		),
		"browser": validation.ValidateStruct(&cfg.Browser,
			validation.Field(&cfg.Browser.Binary, validation.Required),
			validation.Field(&cfg.Browser.Session, validation.Required),
			validation.Field(&cfg.Browser.SettleDelay, nonNegative),
			validation.Field(&cfg.Browser.CommandTimeout, nonNegative),
		),
		"youtube": validation.ValidateStruct(&cfg.YouTube,
			validation.Field(&cfg.YouTube.Binary, validation.Required),
			validation.Field(&cfg.YouTube.SubLang, validation.Required, validation.Length(2, 16)),
			validation.Field(&cfg.YouTube.Timeout, nonNegative),
		),
		"ledger": validation.ValidateStruct(&cfg.Ledger,
			validation.Field(&cfg.Ledger.Path, validation.When(cfg.Ledger.Enabled, validation.Required)),
		),
		"server": validation.ValidateStruct(&cfg.Server,
			validation.Field(&cfg.Server.Addr, validation.By(listenAddr)),
		),
	}
	for i, h := range cfg.Hooks {
		errs[fmt.Sprintf("hooks[%d]", i)] = validation.ValidateStruct(&h,
			validation.Field(&h.Script, validation.Required),
			validation.Field(&h.ResourceTypes, validation.Each(validation.In(hookTypes...).Error("unknown resource type"))),
		)
	}
	return errs.Filter()
}

// listenAddr accepts "host:port" and ":port".
func listenAddr(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	_, port, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("must be host:port")
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return errors.New("invalid port")
	}
	return nil
}
