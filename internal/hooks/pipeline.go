// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hooks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/pkg/types"
)

// Merge orders hooks for execution: explicitly supplied hooks first, then
// config-declared hooks in declaration order.
func Merge(explicit, configured []Hook) []Hook {
	out := make([]Hook, 0, len(explicit)+len(configured))
	out = append(out, explicit...)
	return append(out, configured...)
}

// Run executes hs in order against meta and articleDir. Hooks whose
// ShouldRun reports false produce no result. Errors and panics from either
// call become failed results and never stop the remaining hooks. Each hook
// sees its own copy of meta.
func Run(ctx context.Context, hs []Hook, meta types.Metadata, articleDir string) []types.HookResult {
	results := make([]types.HookResult, 0, len(hs))
	for _, h := range hs {
		name := NameOf(h)
		if err := ctx.Err(); err != nil {
			results = append(results, types.HookFailed(name, err))
			continue
		}

		res, ran := runOne(ctx, h, meta.Clone(), articleDir)
		if !ran {
			log.Debug().Str("hook", name).Msg("hook skipped")
			continue
		}
		if res.Success {
			log.Info().Str("hook", name).Int("files", len(res.FilesCreated)).Msg("hook finished")
		} else {
			log.Warn().Str("hook", name).Str("error", res.Error).Msg("hook failed")
		}
		results = append(results, res)
	}
	return results
}

func runOne(ctx context.Context, h Hook, meta types.Metadata, articleDir string) (res types.HookResult, ran bool) {
	name := NameOf(h)
	defer func() {
		if r := recover(); r != nil {
			res = types.HookFailed(name, fmt.Errorf("panic: %v", r))
			ran = true
		}
	}()

	ok, err := h.ShouldRun(ctx, meta, articleDir)
	if err != nil {
		return types.HookFailed(name, fmt.Errorf("should-run: %w", err)), true
	}
	if !ok {
		return types.HookResult{}, false
	}

	res, err = h.Run(ctx, meta, articleDir)
	if err != nil {
		return types.HookFailed(name, err), true
	}
	if res.Hook == "" {
		res.Hook = name
	}
	return res.Normalize(), true
}
