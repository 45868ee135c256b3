package daemon

import (
	"context"
	"os"

	"github.com/livp123/vrcpresence/internal/config"
	"github.com/livp123/vrcpresence/internal/logengine"
	apperrors "github.com/livp123/vrcpresence/pkg/errors"
)

// ReplayReport is the outcome of a one-shot replay.
// ReplayReport 是一次性回放的结果。
type ReplayReport struct {
	Source string             `json:"source"`
	Lines  int                `json:"lines"`
	Events int                `json:"events"`
	Users  logengine.Snapshot `json:"users"`
}

// ReplayFile reads path once with the watcher's parser and filter settings and
// returns who would be present. No transport is involved.
// ReplayFile 使用 watcher 的解析与过滤设置读取一次 path，返回在线玩家，不涉及任何传输。
func ReplayFile(ctx context.Context, cfg *config.Config, path string) (ReplayReport, error) {
	if path == "" {
		located, err := logengine.NewLocator(cfg.Watcher.LogDir, cfg.Watcher.LogFile, cfg.Watcher.Pattern).Locate()
		if err != nil {
			return ReplayReport{}, err
		}
		path = located
	}

	loc, err := cfg.Watcher.Location()
	if err != nil {
		return ReplayReport{}, apperrors.NewConfigError("timezone", cfg.Watcher.Timezone)
	}
	filter, err := logengine.NewFilter(cfg.Watcher.Filter)
	if err != nil {
		return ReplayReport{}, err
	}

	f, err := os.Open(path) // #nosec G304 // path is provided by the operator
	if err != nil {
		return ReplayReport{}, apperrors.NewFileError(path, err)
	}
	defer f.Close()

	parser := logengine.NewParser(loc)
	store := logengine.NewStore()
	events := 0

	res, err := logengine.Replay(ctx, f, func(line string) {
		ev, ok := parser.Parse(line)
		if !ok {
			return
		}
		if matched, _ := filter.Match(ev); !matched {
			return
		}
		store.Apply(ev)
		events++
	})
	if err != nil {
		return ReplayReport{}, err
	}

	return ReplayReport{
		Source: path,
		Lines:  res.Lines,
		Events: events,
		Users:  store.Snapshot(),
	}, nil
}
