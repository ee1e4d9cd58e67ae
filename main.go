package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"shellenv/internal/app"
	"shellenv/internal/config"
	"shellenv/internal/logutil"
	"shellenv/internal/model"
	"shellenv/internal/pathutil"
	"shellenv/internal/procrun"
	"shellenv/internal/report"
	"shellenv/internal/tui"
	"shellenv/internal/web"
)

func checkUpdate(currentVer string, explicit bool) {
	githubTag := &latest.GithubTag{
		Owner:      "shellenv",
		Repository: "shellenv",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		logutil.Debug("update check failed", "err", err)
		return
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/shellenv/shellenv/releases")
	} else if explicit {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: shellenv [options] [-- command args...]\n\n")
		fmt.Fprintf(os.Stderr, "shellenv shows the environment your tools really get: the login shell\n")
		fmt.Fprintf(os.Stderr, "environment on macOS and Linux, the registry PATH on Windows.\n")
		fmt.Fprintf(os.Stderr, "It resolves commands the same way and locates Git Bash on Windows.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  shellenv                      # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  shellenv --report             # Print diagnostic report to stdout\n")
		fmt.Fprintf(os.Stderr, "  shellenv -r -o r.txt          # Save report to file\n")
		fmt.Fprintf(os.Stderr, "  shellenv --which node         # Resolve a command in the login environment\n")
		fmt.Fprintf(os.Stderr, "  shellenv --exec -- node -v    # Run a command in the login environment\n")
	}

	jsonFlag := pflag.BoolP("json", "j", false, "Output the analysis as JSON")
	yamlFlag := pflag.BoolP("yaml", "y", false, "Output the analysis as YAML")
	reportFlag := pflag.BoolP("report", "r", false, "Generate a diagnostic report (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Write report/JSON/YAML output to the specified file")
	whichFlag := pflag.StringP("which", "W", "", "Resolve a command name to an absolute path")
	gitBashFlag := pflag.Bool("git-bash", false, "Print the Git Bash location (Windows)")
	setGitBashFlag := pflag.String("set-git-bash", "", "Remember a bash.exe to use as Git Bash (Windows)")
	refreshFlag := pflag.Bool("refresh", false, "Re-probe the environment before answering")
	execFlag := pflag.Bool("exec", false, "Run the positional command in the probed environment")
	timeoutFlag := pflag.Duration("timeout", 30*time.Second, "Timeout for --exec")
	webFlag := pflag.BoolP("web", "w", false, "Start the JSON API on localhost")
	portFlag := pflag.Int("port", 8080, "Port for --web")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Debug logging and full environment in output")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for the latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}
	if *versionFlag {
		fmt.Printf("shellenv version %s\n", model.Version)
		return
	}
	if *updateFlag {
		checkUpdate(model.Version, true)
		return
	}

	logutil.Install(os.Stderr, *verboseFlag)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := app.New(app.Options{
		Flavor:     pathutil.Host(),
		Store:      openStore(),
		IncludeEnv: *verboseFlag,
	})

	var err error
	switch {
	case *setGitBashFlag != "":
		err = a.SetGitBash(*setGitBashFlag)
		if err == nil {
			fmt.Printf("Git Bash set to %s\n", *setGitBashFlag)
		}
	case *gitBashFlag:
		err = runGitBash(ctx, a)
	case *whichFlag != "":
		err = runWhich(ctx, a, *whichFlag, *refreshFlag)
	case *execFlag:
		err = runExec(ctx, a, pflag.Args(), *timeoutFlag, *refreshFlag)
	case *webFlag:
		fmt.Printf("Starting shellenv API at http://localhost:%d/api/env\n", *portFlag)
		err = web.NewServer(a).ListenAndServe(ctx, *portFlag)
	case *jsonFlag, *yamlFlag:
		err = runStructured(ctx, a, *outputFlag, *yamlFlag, *refreshFlag)
	case *reportFlag || !term.IsTerminal(int(os.Stdout.Fd())):
		err = runReportMode(ctx, a, *outputFlag, *verboseFlag, *refreshFlag)
	default:
		err = runTuiMode(ctx, a)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "shellenv: %v\n", err)
		var cmdErr *procrun.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Exited && cmdErr.ExitCode > 0 {
			os.Exit(cmdErr.ExitCode)
		}
		os.Exit(1)
	}
}

func openStore() *config.Store {
	store, err := config.OpenDefault()
	if err != nil {
		logutil.Warn("config unavailable, settings will not be saved", "err", err)
		return config.NewMemory()
	}
	return store
}

func runWhich(ctx context.Context, a *app.App, name string, refresh bool) error {
	if refresh {
		a.Env(ctx, true)
	}
	p, ok := a.Which(ctx, name)
	if !ok {
		return fmt.Errorf("%s: not found", name)
	}
	fmt.Println(p)
	return nil
}

func runGitBash(ctx context.Context, a *app.App) error {
	if !a.Flavor().IsWindows() {
		fmt.Println("Git Bash is only used on Windows")
		return nil
	}
	info := a.GitBash(ctx)
	if !info.Found() {
		return errors.New("git bash not found; install Git for Windows or use --set-git-bash")
	}
	fmt.Printf("%s (%s)\n", info.Path, info.Source)
	return nil
}

func runExec(ctx context.Context, a *app.App, args []string, timeout time.Duration, refresh bool) error {
	if len(args) == 0 {
		return errors.New("--exec needs a command, e.g. shellenv --exec -- node --version")
	}
	if refresh {
		a.Env(ctx, true)
	}
	out, err := a.Exec(ctx, args[0], args[1:], timeout)
	fmt.Print(out)
	return err
}

func runReportMode(ctx context.Context, a *app.App, outputFile string, verbose, refresh bool) error {
	text := report.GenerateReport(a.Snapshot(ctx, refresh), verbose)
	if outputFile == "" {
		fmt.Println(text)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write report to %s: %w", outputFile, err)
	}
	fmt.Printf("Report saved to %s\n", outputFile)
	return nil
}

func runStructured(ctx context.Context, a *app.App, outputFile string, asYAML, refresh bool) error {
	snap := a.Snapshot(ctx, refresh)

	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func runTuiMode(ctx context.Context, a *app.App) error {
	m := tui.InitialModel(ctx, a)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
