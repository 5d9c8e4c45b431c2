package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"github.com/contestcli/judge/internal/checker"
	"github.com/contestcli/judge/internal/config"
	"github.com/contestcli/judge/internal/editor"
	"github.com/contestcli/judge/internal/execution"
	"github.com/contestcli/judge/internal/gath/natsgath"
	"github.com/contestcli/judge/internal/gath/termgath"
	"github.com/contestcli/judge/internal/runner"
	"github.com/contestcli/judge/internal/storage"
	"github.com/contestcli/judge/internal/testcase"
	"github.com/contestcli/judge/internal/verdict"
)

func main() {
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(log)

	app := &cli.Command{
		Name:  "judge",
		Usage: "local competitive programming judge",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "judge.toml", Usage: "config file path"},
			&cli.StringFlag{Name: "dir", Value: ".", Usage: "problem directory"},
		},
		Commands: []*cli.Command{
			initCmd(log),
			runCmd(log),
			invokeCmd(log),
			editCmd(log),
			addCmd(log),
			removeCmd(log),
			truncateCmd(log),
			archiveCmd(log),
			restoreCmd(log),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

type env struct {
	cfg   config.Config
	dir   string
	store *storage.FsStore
	exec  *execution.Service
	cache *checker.Cache
}

func loadEnv(cmd *cli.Command, log *slog.Logger) (*env, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	dir := cmd.String("dir")
	store, err := storage.NewFsStore(filepath.Join(dir, "tests"))
	if err != nil {
		return nil, err
	}

	exec := execution.New(cfg.Execution, log)
	cache, err := checker.NewCache(cfg.CheckerCacheDir, func(source, output string) bool {
		return exec.Compile(source, output).Success
	})
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, dir: dir, store: store, exec: exec, cache: cache}, nil
}

func initCmd(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "initialize a problem directory from scraped testcase files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tests", Usage: "directory with 1.in/1.out, 2.in/2.out, ..."},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := loadEnv(cmd, log)
			if err != nil {
				return err
			}

			var pairs []testcase.IOContent
			if src := cmd.String("tests"); src != "" {
				pairs, err = readScrapedPairs(src)
				if err != nil {
					return err
				}
			}

			set, err := testcase.NewFromScraped(e.store, pairs)
			if err != nil {
				return err
			}

			mainPath := filepath.Join(e.dir, "main.cpp")
			if _, err := os.Stat(mainPath); os.IsNotExist(err) {
				if err := os.WriteFile(mainPath, []byte(testcase.MainCPP), 0o644); err != nil {
					return err
				}
			}
			checkerPath := filepath.Join(e.dir, "checker.cpp")
			if _, err := os.Stat(checkerPath); os.IsNotExist(err) {
				if err := os.WriteFile(checkerPath, []byte(testcase.CheckerCPP), 0o644); err != nil {
					return err
				}
			}

			multitests, err := set.CheckMultitestMode()
			if err != nil {
				return err
			}
			log.Info("problem initialized",
				"testcases", set.Len(), "multitests", multitests)
			return nil
		},
	}
}

func readScrapedPairs(dir string) ([]testcase.IOContent, error) {
	var pairs []testcase.IOContent
	for i := 1; ; i++ {
		input, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("%d.in", i)))
		if os.IsNotExist(err) {
			break
		}
		if err != nil {
			return nil, err
		}
		output, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("%d.out", i)))
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, testcase.IOContent{Input: string(input), Output: string(output)})
	}
	return pairs, nil
}

func runCmd(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "judge the solution over the testcases",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Value: "main.cpp", Usage: "candidate source file"},
			&cli.BoolFlag{Name: "multitests", Usage: "judge each subtest independently"},
			&cli.StringFlag{Name: "checker", Value: "t", Usage: "checker: t (tokens), y (yes/no), c (custom)"},
			&cli.FloatFlag{Name: "time-limit", Usage: "time limit in seconds (overrides config)"},
			&cli.BoolFlag{Name: "stream", Usage: "also stream progress to NATS"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := loadEnv(cmd, log)
			if err != nil {
				return err
			}
			set, err := testcase.Load(e.store)
			if err != nil {
				return err
			}

			code := cmd.String("checker")
			if len(code) != 1 {
				return fmt.Errorf("invalid checker %q", code)
			}
			chk, err := checker.Parse(code[0], filepath.Join(e.dir, "checker.cpp"), e.exec, e.cache)
			if err != nil {
				return err
			}

			mode := testcase.ModeOne
			if cmd.Bool("multitests") {
				ok, err := set.CheckMultitestMode()
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("multitests are not split correctly; run `judge edit` first")
				}
				mode = testcase.ModeMultiple
			}

			timeLimit := e.cfg.TimeLimitSec
			if cmd.Float("time-limit") > 0 {
				timeLimit = cmd.Float("time-limit")
			}

			var gath runner.Gatherer = termgath.New(os.Stdout)
			if cmd.Bool("stream") {
				nc, err := nats.Connect(e.cfg.Nats.URL)
				if err != nil {
					return fmt.Errorf("failed to connect to NATS: %w", err)
				}
				defer nc.Drain()
				gath = multiGatherer{gath, natsgath.New(nc, e.cfg.Nats.Subject, log)}
			}

			source := cmd.String("source")
			r := runner.New(e.exec, log)
			res, err := r.Run(runner.Params{
				Set:          set,
				Mode:         mode,
				Source:       filepath.Join(e.dir, source),
				Output:       binaryPath(e.dir, source),
				TimeLimitSec: timeLimit,
				Checker:      chk,
			}, gath)
			if err != nil {
				return err
			}
			if res.State == runner.CompileFailed || res.Overall != verdict.Accepted {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func invokeCmd(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "invoke",
		Usage: "compile one file and run it in an interactive session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Value: "main.cpp", Usage: "source file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := loadEnv(cmd, log)
			if err != nil {
				return err
			}

			source := cmd.String("source")
			r := runner.New(e.exec, log)
			v, err := r.CustomInvocation(
				filepath.Join(e.dir, source),
				binaryPath(e.dir, source),
				editor.NewTerminal(e.cfg.TerminalArgs),
			)
			if err != nil {
				return err
			}
			if v == verdict.CompilationError {
				return fmt.Errorf("%s failed to compile", source)
			}
			return nil
		},
	}
}

func editCmd(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "edit multitest files by hand",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "id", Usage: "testcase id (0 = all scraped)"},
			&cli.BoolFlag{Name: "necessary", Usage: "skip files that are already split correctly"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := loadEnv(cmd, log)
			if err != nil {
				return err
			}
			set, err := testcase.Load(e.store)
			if err != nil {
				return err
			}

			ed := editor.New(e.cfg.EditorArgs)
			necessary := cmd.Bool("necessary")
			for _, tc := range set.Cases() {
				if tc.Kind != testcase.Scraped {
					continue
				}
				if id := cmd.Int("id"); id != 0 && id != tc.ID {
					continue
				}
				if err := tc.EditMultitests(ed, necessary); err != nil {
					return err
				}
				ok, err := tc.CheckMultitestMode()
				if err != nil {
					return err
				}
				log.Info("multitest edited", "id", tc.ID, "valid", ok)
			}
			return nil
		},
	}
}

func addCmd(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "add a user testcase",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Required: true, Usage: "input file"},
			&cli.StringFlag{Name: "output", Required: true, Usage: "expected output file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := loadEnv(cmd, log)
			if err != nil {
				return err
			}
			set, err := testcase.Load(e.store)
			if err != nil {
				return err
			}

			input, err := os.ReadFile(cmd.String("input"))
			if err != nil {
				return err
			}
			output, err := os.ReadFile(cmd.String("output"))
			if err != nil {
				return err
			}

			tc, err := set.Append(testcase.UserAdded, string(input), string(output))
			if err != nil {
				return err
			}
			log.Info("testcase added", "id", tc.ID)
			return nil
		},
	}
}

func removeCmd(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "remove",
		Usage: "remove a user testcase",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "id", Required: true, Usage: "testcase id"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := loadEnv(cmd, log)
			if err != nil {
				return err
			}
			set, err := testcase.Load(e.store)
			if err != nil {
				return err
			}

			id := cmd.Int("id")
			tc := set.Case(id)
			if tc == nil {
				return fmt.Errorf("no testcase %d", id)
			}
			if tc.Kind == testcase.Scraped {
				return fmt.Errorf("testcase %d is scraped and may not be removed", id)
			}
			return set.Remove(id)
		},
	}
}

func truncateCmd(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "truncate",
		Usage: "drop all testcases beyond the given count",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Required: true, Usage: "testcases to keep"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := loadEnv(cmd, log)
			if err != nil {
				return err
			}
			set, err := testcase.Load(e.store)
			if err != nil {
				return err
			}

			n := cmd.Int("count")
			if n < 0 {
				return fmt.Errorf("invalid count %d", n)
			}
			if n < set.Len() && set.Case(n+1).Kind == testcase.Scraped {
				return fmt.Errorf("truncating to %d would drop scraped testcases", n)
			}
			if err := set.Truncate(n); err != nil {
				return err
			}
			log.Info("testcases truncated", "count", set.Len())
			return nil
		},
	}
}

func archiveCmd(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "archive the problem directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Required: true, Usage: "archive file to write"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := loadEnv(cmd, log)
			if err != nil {
				return err
			}
			f, err := os.Create(cmd.String("out"))
			if err != nil {
				return err
			}
			defer f.Close()
			if err := storage.Archive(e.dir, f); err != nil {
				return err
			}
			log.Info("problem archived", "file", cmd.String("out"))
			return nil
		},
	}
}

func restoreCmd(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "restore a problem directory from an archive",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Required: true, Usage: "archive file to read"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := os.Open(cmd.String("from"))
			if err != nil {
				return err
			}
			defer f.Close()
			if err := storage.Restore(f, cmd.String("dir")); err != nil {
				return err
			}
			log.Info("problem restored", "dir", cmd.String("dir"))
			return nil
		},
	}
}

func binaryPath(dir, source string) string {
	base := source[:len(source)-len(filepath.Ext(source))]
	return filepath.Join(dir, base+".out")
}

// multiGatherer fans progress events out to several sinks.
type multiGatherer []runner.Gatherer

func (m multiGatherer) StartRun(compileCount, runCount int) {
	for _, g := range m {
		g.StartRun(compileCount, runCount)
	}
}

func (m multiGatherer) CompileSnapshot(compile []verdict.CompileVerdict) {
	for _, g := range m {
		g.CompileSnapshot(compile)
	}
}

func (m multiGatherer) CompileFailed(failed []string, elapsed time.Duration) {
	for _, g := range m {
		g.CompileFailed(failed, elapsed)
	}
}

func (m multiGatherer) RunSnapshot(compile []verdict.CompileVerdict, runs []verdict.RunVerdict, unitIDs []string) {
	for _, g := range m {
		g.RunSnapshot(compile, runs, unitIDs)
	}
}

func (m multiGatherer) FinishRun(res runner.Result) {
	for _, g := range m {
		g.FinishRun(res)
	}
}
